// Package payments talks to the card payment provider used for membership
// checkout.
package payments

import (
	"context"
	"errors"
)

const ProviderMercadoPago = "mercadopago"

const StatusApproved = "approved"

var ErrDisabled = errors.New("payments: provider not configured")

type CheckoutItem struct {
	Title     string
	Amount    float64
	Currency  string
	Reference string
}

type Checkout struct {
	ID  string
	URL string
}

type Payment struct {
	ID        string
	Status    string
	Reference string
	Amount    float64
}

type Gateway interface {
	CreateCheckout(ctx context.Context, item CheckoutItem) (*Checkout, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
}

// Disabled answers ErrDisabled; used when no access token is configured.
type Disabled struct{}

func (Disabled) CreateCheckout(context.Context, CheckoutItem) (*Checkout, error) {
	return nil, ErrDisabled
}

func (Disabled) GetPayment(context.Context, string) (*Payment, error) {
	return nil, ErrDisabled
}
