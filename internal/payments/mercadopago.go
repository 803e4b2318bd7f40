package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type MercadoPago struct {
	preferences     preference.Client
	payments        payment.Client
	notificationURL string
}

func NewMercadoPago(accessToken, notificationURL string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		preferences:     preference.NewClient(cfg),
		payments:        payment.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

// NewGateway returns Mercado Pago when accessToken is set, Disabled otherwise.
func NewGateway(accessToken, notificationURL string) (Gateway, error) {
	if accessToken == "" {
		return Disabled{}, nil
	}
	return NewMercadoPago(accessToken, notificationURL)
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, item CheckoutItem) (*Checkout, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         item.Reference,
				Title:      item.Title,
				Quantity:   1,
				UnitPrice:  item.Amount,
				CurrencyID: item.Currency,
			},
		},
		ExternalReference: item.Reference,
		NotificationURL:   m.notificationURL,
	}

	res, err := m.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}
	return &Checkout{ID: res.ID, URL: res.InitPoint}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, id string) (*Payment, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment id %q: %w", id, err)
	}

	res, err := m.payments.Get(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment: %w", err)
	}
	return &Payment{
		ID:        strconv.Itoa(res.ID),
		Status:    res.Status,
		Reference: res.ExternalReference,
		Amount:    res.TransactionAmount,
	}, nil
}
