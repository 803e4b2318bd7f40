package membership

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type Repository interface {
	WithTx(
		ctx context.Context,
		fn func(repo Repository) error,
	) error

	GetFee(
		ctx context.Context,
		feeID uint,
	) (*models.MembershipFee, error)

	GetSubscription(
		ctx context.Context,
		id uint,
	) (*models.MembershipSubscription, error)

	GetSubscriptionByUser(
		ctx context.Context,
		userID uint,
	) (*models.MembershipSubscription, error)

	SaveSubscription(
		ctx context.Context,
		sub *models.MembershipSubscription,
	) error

	CreateTransaction(
		ctx context.Context,
		tx *models.Transaction,
	) error

	FindTransactionByRef(
		ctx context.Context,
		provider string,
		ref string,
	) (*models.Transaction, error)

	// ExpireDue flips active subscriptions past their expiry to expired.
	ExpireDue(
		ctx context.Context,
		now time.Time,
	) (int64, error)
}
