package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-admin/internal/domain/auth"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
)

type AuthGormRepository struct {
	db *gorm.DB
}

func NewAuthGormRepository(db *gorm.DB) *AuthGormRepository {
	return &AuthGormRepository{db: db}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *AuthGormRepository) FindUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthGormRepository) FindUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthGormRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *AuthGormRepository) UpdateUser(
	ctx context.Context,
	user *models.User,
) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *AuthGormRepository) HasOAuth(
	ctx context.Context,
	userID uint,
) (bool, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Select("id", "has_oauth").
		First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.HasOAuth, nil
}

// --------------------------------------------------
// Tokens
// --------------------------------------------------

func (r *AuthGormRepository) ReplaceToken(
	ctx context.Context,
	tok *models.Token,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", tok.UserID).Delete(&models.Token{}).Error; err != nil {
			return err
		}
		return tx.Create(tok).Error
	})
}

func (r *AuthGormRepository) FindToken(
	ctx context.Context,
	id string,
) (*models.Token, error) {

	var tok models.Token
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tok).Error; err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *AuthGormRepository) DeleteToken(
	ctx context.Context,
	id string,
) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Token{}).Error
}

// Compile-time check
var _ domain.Repository = (*AuthGormRepository)(nil)
