package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shift struct {
	Start   string `validate:"required,hhmm"`
	Break   string `validate:"hhmm"`
	Renewal string `validate:"required,renewal"`
}

func TestRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	cases := []struct {
		name string
		in   shift
		ok   bool
	}{
		{"valid", shift{Start: "08:30", Renewal: "monthly"}, true},
		{"with break", shift{Start: "08:30", Break: "12:00", Renewal: "yearly"}, true},
		{"bad clock", shift{Start: "8h30", Renewal: "monthly"}, false},
		{"out of range", shift{Start: "25:00", Renewal: "monthly"}, false},
		{"bad renewal", shift{Start: "08:30", Renewal: "weekly"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.in)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestEmailDomainResolves_RejectsMalformed(t *testing.T) {
	for _, email := range []string{"", "no-at-sign", "@clinic.com", "user@", "user@localhost"} {
		assert.False(t, EmailDomainResolves(email), email)
	}
}
