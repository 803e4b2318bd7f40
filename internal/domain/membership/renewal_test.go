package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
)

func TestNextExpiry(t *testing.T) {
	now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	future := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		current *time.Time
		renewal string
		want    time.Time
	}{
		{"first monthly", nil, RenewalMonthly, now.AddDate(0, 1, 0)},
		{"first yearly", nil, RenewalYearly, time.Date(2027, 1, 31, 12, 0, 0, 0, time.UTC)},
		{"extends live expiry", &future, RenewalMonthly, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
		{"lapsed restarts from now", &past, RenewalYearly, now.AddDate(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextExpiry(now, tt.current, tt.renewal)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}

	_, err := NextExpiry(now, nil, "weekly")
	assert.True(t, httperr.IsBusiness(err, "invalid_renewal"))
}
