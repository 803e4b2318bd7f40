package membership

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/membership"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/payments"
	"github.com/BruksfildServices01/clinic-admin/internal/testutil"
)

var now = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	repo    *repository.MembershipGormRepository
	user    *models.User
	monthly *models.MembershipFee
	yearly  *models.MembershipFee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	m := &models.Membership{Name: "Gold", Perks: []string{"free checkup"}}
	require.NoError(t, db.Create(m).Error)
	monthly := &models.MembershipFee{MembershipID: m.ID, RenewalType: domain.RenewalMonthly, Amount: 20, Currency: "USD"}
	yearly := &models.MembershipFee{MembershipID: m.ID, RenewalType: domain.RenewalYearly, Amount: 200, Currency: "USD"}
	require.NoError(t, db.Create(monthly).Error)
	require.NoError(t, db.Create(yearly).Error)

	return &fixture{
		db:      db,
		repo:    repository.NewMembershipGormRepository(db),
		user:    testutil.CreateUser(t, db, "ana@clinic.test"),
		monthly: monthly,
		yearly:  yearly,
	}
}

func TestSubscribeAndPay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := NewSubscribe(f.repo).Execute(ctx, f.user.ID, f.monthly.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, sub.Status)
	assert.Nil(t, sub.ExpiresAt)

	record := NewRecordPayment(f.repo, nil).WithClock(func() time.Time { return now })

	txn, err := record.Execute(ctx, RecordPaymentInput{SubscriptionID: sub.ID})
	require.NoError(t, err)
	assert.Equal(t, "manual", txn.Provider)
	assert.EqualValues(t, 20, txn.Amount)
	assert.True(t, txn.ExpiresAt.Equal(now.AddDate(0, 1, 0)))

	_, err = NewSubscribe(f.repo).Execute(ctx, f.user.ID, f.yearly.ID)
	require.NoError(t, err)

	txn, err = record.Execute(ctx, RecordPaymentInput{SubscriptionID: sub.ID})
	require.NoError(t, err)
	assert.True(t, txn.ExpiresAt.Equal(now.AddDate(0, 1, 0).AddDate(1, 0, 0)))

	got, err := f.repo.GetSubscriptionByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.Equal(t, f.yearly.ID, got.FeeID)
	assert.True(t, got.ExpiresAt.Equal(txn.ExpiresAt))
}

func TestSubscribe_UnknownFee(t *testing.T) {
	f := newFixture(t)

	_, err := NewSubscribe(f.repo).Execute(context.Background(), f.user.ID, 999)
	assert.True(t, httperr.IsBusiness(err, "fee_not_found"))
}

func TestExpireSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := NewSubscribe(f.repo).Execute(ctx, f.user.ID, f.monthly.ID)
	require.NoError(t, err)
	_, err = NewRecordPayment(f.repo, nil).WithClock(func() time.Time { return now }).
		Execute(ctx, RecordPaymentInput{SubscriptionID: sub.ID})
	require.NoError(t, err)

	n, err := NewExpireSubscriptions(f.repo).Execute(ctx, now.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = NewExpireSubscriptions(f.repo).Execute(ctx, now.AddDate(0, 2, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := f.repo.GetSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)
}

type fakeGateway struct {
	payment  *payments.Payment
	checkout payments.CheckoutItem
}

func (g *fakeGateway) CreateCheckout(_ context.Context, item payments.CheckoutItem) (*payments.Checkout, error) {
	g.checkout = item
	return &payments.Checkout{ID: "pref-1", URL: "https://pay.test/pref-1"}, nil
}

func (g *fakeGateway) GetPayment(context.Context, string) (*payments.Payment, error) {
	return g.payment, nil
}

func TestCheckoutAndWebhook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := NewSubscribe(f.repo).Execute(ctx, f.user.ID, f.yearly.ID)
	require.NoError(t, err)

	gw := &fakeGateway{}
	checkout, err := NewCheckout(f.repo, gw).Execute(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.test/pref-1", checkout.URL)
	assert.Equal(t, Reference(sub.ID), gw.checkout.Reference)
	assert.Equal(t, "Gold (yearly)", gw.checkout.Title)

	record := NewRecordPayment(f.repo, nil).WithClock(func() time.Time { return now })
	hook := NewHandlePaymentNotification(gw, record)

	gw.payment = &payments.Payment{ID: "77", Status: "pending", Reference: Reference(sub.ID)}
	txn, err := hook.Execute(ctx, "77")
	require.NoError(t, err)
	assert.Nil(t, txn)

	gw.payment.Status = payments.StatusApproved
	first, err := hook.Execute(ctx, "77")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, payments.ProviderMercadoPago, first.Provider)

	again, err := hook.Execute(ctx, "77")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestParseReference(t *testing.T) {
	id, ok := ParseReference("sub:12")
	assert.True(t, ok)
	assert.EqualValues(t, 12, id)

	_, ok = ParseReference("order:12")
	assert.False(t, ok)
	_, ok = ParseReference("sub:0")
	assert.False(t, ok)
}
