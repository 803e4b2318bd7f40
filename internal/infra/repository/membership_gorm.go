package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/membership"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type MembershipGormRepository struct {
	db *gorm.DB
}

func NewMembershipGormRepository(db *gorm.DB) *MembershipGormRepository {
	return &MembershipGormRepository{db: db}
}

func (r *MembershipGormRepository) WithTx(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&MembershipGormRepository{db: tx})
	})
}

func (r *MembershipGormRepository) GetFee(
	ctx context.Context,
	feeID uint,
) (*models.MembershipFee, error) {

	var fee models.MembershipFee
	if err := r.db.WithContext(ctx).First(&fee, feeID).Error; err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *MembershipGormRepository) GetSubscription(
	ctx context.Context,
	id uint,
) (*models.MembershipSubscription, error) {

	var sub models.MembershipSubscription
	if err := r.db.WithContext(ctx).
		Preload("Membership").
		Preload("Fee").
		First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *MembershipGormRepository) GetSubscriptionByUser(
	ctx context.Context,
	userID uint,
) (*models.MembershipSubscription, error) {

	var sub models.MembershipSubscription
	if err := r.db.WithContext(ctx).
		Preload("Membership").
		Preload("Fee").
		Where("user_id = ?", userID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *MembershipGormRepository) SaveSubscription(
	ctx context.Context,
	sub *models.MembershipSubscription,
) error {
	return r.db.WithContext(ctx).
		Omit("User", "Membership", "Fee").
		Save(sub).Error
}

func (r *MembershipGormRepository) CreateTransaction(
	ctx context.Context,
	tx *models.Transaction,
) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *MembershipGormRepository) FindTransactionByRef(
	ctx context.Context,
	provider string,
	ref string,
) (*models.Transaction, error) {

	var t models.Transaction
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_ref = ?", provider, ref).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *MembershipGormRepository) ExpireDue(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.MembershipSubscription{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", domain.StatusActive, now).
		Update("status", domain.StatusExpired)
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*MembershipGormRepository)(nil)
