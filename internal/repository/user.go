// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"tavern/internal/cache"
	"tavern/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByUID(ctx context.Context, uid uint) (*models.User, error)
	// GetByIdentifier resolves a username or an email to a user, returning
	// (nil, nil) when no row matches.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, uid uint, fields map[string]interface{}) error
	List(ctx context.Context) ([]models.User, error)
	ListNewestFirst(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the Redis projection of a user row. The wire model hides
// the password hash and permission flags from JSON, so marshaling it into
// the cache directly would drop them on round-trip.
type cachedUser struct {
	models.User
	PasswordHash    string `json:"passwordHash"`
	CanMute         bool   `json:"canMute"`
	CanBan          bool   `json:"canBan"`
	CanDeleteShouts bool   `json:"canDeleteShouts"`
}

func newCachedUser(u *models.User) cachedUser {
	return cachedUser{
		User:            *u,
		PasswordHash:    u.PasswordHash,
		CanMute:         u.CanMute,
		CanBan:          u.CanBan,
		CanDeleteShouts: u.CanDeleteShouts,
	}
}

func (c *cachedUser) user() models.User {
	u := c.User
	u.PasswordHash = c.PasswordHash
	u.CanMute = c.CanMute
	u.CanBan = c.CanBan
	u.CanDeleteShouts = c.CanDeleteShouts
	return u
}

func (r *userRepository) GetByUID(ctx context.Context, uid uint) (*models.User, error) {
	var entry cachedUser
	key := cache.UserKey(uid)

	err := cache.Aside(ctx, key, &entry, cache.UserTTL, func() error {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, "uid = ?", uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User")
			}
			return models.NewInternalError(err)
		}
		entry = newCachedUser(&user)
		return nil
	})

	if err != nil {
		return nil, err
	}
	user := entry.user()
	return &user, nil
}

func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username or Email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite says "unique constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.UID)
	return nil
}

func (r *userRepository) UpdateFields(ctx context.Context, uid uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("uid = ?", uid).Updates(fields)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User")
	}
	cache.InvalidateUser(ctx, uid)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("uid ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) ListNewestFirst(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("uid DESC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
