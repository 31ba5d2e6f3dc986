package repository

import (
	"context"

	"tavern/internal/cache"
	"tavern/internal/models"

	"gorm.io/gorm"
)

const shoutViewColumns = "shouts.id, shouts.message, shouts.time, " +
	"users.uid, users.username, users.role, users.avatar_url, users.avatar_color"

// ShoutRepository defines persistence operations for the shoutbox feed.
type ShoutRepository interface {
	// Latest returns the newest shouts first, joined with author display
	// fields, capped at limit. Served cache-aside from Redis.
	Latest(ctx context.Context, limit int) ([]models.ShoutView, error)
	GetView(ctx context.Context, id uint) (*models.ShoutView, error)
	Create(ctx context.Context, shout *models.Shout) error
	Delete(ctx context.Context, id uint) error
}

type shoutRepository struct {
	db *gorm.DB
}

// NewShoutRepository returns a new ShoutRepository implementation.
func NewShoutRepository(db *gorm.DB) ShoutRepository {
	return &shoutRepository{db: db}
}

func (r *shoutRepository) Latest(ctx context.Context, limit int) ([]models.ShoutView, error) {
	views := []models.ShoutView{}

	err := cache.Aside(ctx, cache.ShoutFeedKey, &views, cache.ShoutFeedTTL, func() error {
		err := r.db.WithContext(ctx).
			Table("shouts").
			Select(shoutViewColumns).
			Joins("JOIN users ON users.uid = shouts.uid").
			Order("shouts.id DESC").
			Limit(limit).
			Scan(&views).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *shoutRepository) GetView(ctx context.Context, id uint) (*models.ShoutView, error) {
	var view models.ShoutView
	res := r.db.WithContext(ctx).
		Table("shouts").
		Select(shoutViewColumns).
		Joins("JOIN users ON users.uid = shouts.uid").
		Where("shouts.id = ?", id).
		Scan(&view)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Shout")
	}
	return &view, nil
}

func (r *shoutRepository) Create(ctx context.Context, shout *models.Shout) error {
	if err := r.db.WithContext(ctx).Create(shout).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateShoutFeed(ctx)
	return nil
}

func (r *shoutRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Shout{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateShoutFeed(ctx)
	return nil
}
