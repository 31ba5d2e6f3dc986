package repository

import (
	"context"
	"errors"

	"tavern/internal/models"

	"gorm.io/gorm"
)

// InviteCodeRepository defines persistence operations for invite codes.
type InviteCodeRepository interface {
	// GetByCode returns (nil, nil) when the code does not exist.
	GetByCode(ctx context.Context, code string) (*models.InviteCode, error)
	List(ctx context.Context) ([]models.InviteCode, error)
	Create(ctx context.Context, code *models.InviteCode) error
	Delete(ctx context.Context, id uint) error
}

type inviteCodeRepository struct {
	db *gorm.DB
}

// NewInviteCodeRepository returns a new InviteCodeRepository implementation.
func NewInviteCodeRepository(db *gorm.DB) InviteCodeRepository {
	return &inviteCodeRepository{db: db}
}

func (r *inviteCodeRepository) GetByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	var invite models.InviteCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &invite, nil
}

func (r *inviteCodeRepository) List(ctx context.Context) ([]models.InviteCode, error) {
	var codes []models.InviteCode
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&codes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return codes, nil
}

func (r *inviteCodeRepository) Create(ctx context.Context, code *models.InviteCode) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Invite code already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inviteCodeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.InviteCode{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
