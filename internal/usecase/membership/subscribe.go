// Package membership manages user subscriptions and their renewals.
package membership

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/audit"
	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/membership"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/payments"
)

const referencePrefix = "sub:"

func Reference(subscriptionID uint) string {
	return referencePrefix + strconv.FormatUint(uint64(subscriptionID), 10)
}

func ParseReference(ref string) (uint, bool) {
	if !strings.HasPrefix(ref, referencePrefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(ref, referencePrefix), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// ======================================================
// SUBSCRIBE
// ======================================================

type Subscribe struct {
	repo domain.Repository
}

func NewSubscribe(repo domain.Repository) *Subscribe {
	return &Subscribe{repo: repo}
}

// Execute points the single subscription of userID at feeID. A live
// subscription keeps its status and expiry; the new fee applies from the
// next payment.
func (uc *Subscribe) Execute(ctx context.Context, userID, feeID uint) (*models.MembershipSubscription, error) {
	var sub *models.MembershipSubscription

	err := uc.repo.WithTx(ctx, func(repo domain.Repository) error {
		fee, err := repo.GetFee(ctx, feeID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("fee_not_found")
			}
			return err
		}

		sub, err = repo.GetSubscriptionByUser(ctx, userID)
		switch {
		case httperr.IsNotFound(err):
			sub = &models.MembershipSubscription{
				UserID: userID,
				Status: domain.StatusPending,
			}
		case err != nil:
			return err
		}

		sub.MembershipID = fee.MembershipID
		sub.FeeID = fee.ID
		return repo.SaveSubscription(ctx, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ======================================================
// RECORD PAYMENT
// ======================================================

type RecordPaymentInput struct {
	SubscriptionID uint
	Provider       string
	ProviderRef    string
	ActorID        *uint
}

type RecordPayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewRecordPayment(repo domain.Repository, audit *audit.Dispatcher) *RecordPayment {
	return &RecordPayment{repo: repo, audit: audit, now: time.Now}
}

func (uc *RecordPayment) WithClock(now func() time.Time) *RecordPayment {
	uc.now = now
	return uc
}

// Execute stores a paid transaction for the current fee and extends the
// subscription. A provider reference already recorded is returned as is.
func (uc *RecordPayment) Execute(ctx context.Context, in RecordPaymentInput) (*models.Transaction, error) {
	provider := in.Provider
	if provider == "" {
		provider = "manual"
	}

	var txn *models.Transaction

	err := uc.repo.WithTx(ctx, func(repo domain.Repository) error {
		if in.ProviderRef != "" {
			existing, err := repo.FindTransactionByRef(ctx, provider, in.ProviderRef)
			if err == nil {
				txn = existing
				return nil
			}
			if !httperr.IsNotFound(err) {
				return err
			}
		}

		sub, err := repo.GetSubscription(ctx, in.SubscriptionID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("subscription_not_found")
			}
			return err
		}

		now := uc.now()
		next, err := domain.NextExpiry(now, sub.ExpiresAt, sub.Fee.RenewalType)
		if err != nil {
			return err
		}

		txn = &models.Transaction{
			SubscriptionID: sub.ID,
			FeeID:          sub.FeeID,
			Amount:         sub.Fee.Amount,
			Currency:       sub.Fee.Currency,
			Provider:       provider,
			PaidAt:         now,
			ExpiresAt:      next,
		}
		if in.ProviderRef != "" {
			ref := in.ProviderRef
			txn.ProviderRef = &ref
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		sub.Status = domain.StatusActive
		sub.ExpiresAt = &next
		return repo.SaveSubscription(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "membership_payment_recorded",
		Entity:   "transaction",
		EntityID: &txn.ID,
		Metadata: map[string]any{"provider": provider, "subscription_id": in.SubscriptionID},
	})

	return txn, nil
}

// ======================================================
// EXPIRE
// ======================================================

type ExpireSubscriptions struct {
	repo domain.Repository
}

func NewExpireSubscriptions(repo domain.Repository) *ExpireSubscriptions {
	return &ExpireSubscriptions{repo: repo}
}

func (uc *ExpireSubscriptions) Execute(ctx context.Context, now time.Time) (int64, error) {
	return uc.repo.ExpireDue(ctx, now)
}

// ======================================================
// CHECKOUT
// ======================================================

type Checkout struct {
	repo    domain.Repository
	gateway payments.Gateway
}

func NewCheckout(repo domain.Repository, gateway payments.Gateway) *Checkout {
	return &Checkout{repo: repo, gateway: gateway}
}

// Execute opens a provider checkout for the current fee of userID.
func (uc *Checkout) Execute(ctx context.Context, userID uint) (*payments.Checkout, error) {
	sub, err := uc.repo.GetSubscriptionByUser(ctx, userID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("subscription_not_found")
		}
		return nil, err
	}

	return uc.gateway.CreateCheckout(ctx, payments.CheckoutItem{
		Title:     sub.Membership.Name + " (" + sub.Fee.RenewalType + ")",
		Amount:    sub.Fee.Amount,
		Currency:  sub.Fee.Currency,
		Reference: Reference(sub.ID),
	})
}

// ======================================================
// WEBHOOK
// ======================================================

type HandlePaymentNotification struct {
	gateway payments.Gateway
	record  *RecordPayment
}

func NewHandlePaymentNotification(gateway payments.Gateway, record *RecordPayment) *HandlePaymentNotification {
	return &HandlePaymentNotification{gateway: gateway, record: record}
}

// Execute looks the payment up at the provider and records it when
// approved. It returns nil transaction for payments not approved yet.
func (uc *HandlePaymentNotification) Execute(ctx context.Context, paymentID string) (*models.Transaction, error) {
	p, err := uc.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != payments.StatusApproved {
		return nil, nil
	}

	subID, ok := ParseReference(p.Reference)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_reference")
	}

	return uc.record.Execute(ctx, RecordPaymentInput{
		SubscriptionID: subID,
		Provider:       payments.ProviderMercadoPago,
		ProviderRef:    p.ID,
	})
}
