package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"tavern/internal/models"
	"tavern/internal/repository"
	"tavern/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns registration, login and password changes. Registration
// consumes an invite code and creates the user inside one transaction.
type AuthService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	InviteCode string
}

type LoginInput struct {
	Identifier string
	Password   string
}

type ChangePasswordInput struct {
	UID         uint
	OldPassword string
	NewPassword string
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository) *AuthService {
	return &AuthService{db: db, userRepo: userRepo}
}

// DefaultAvatarURL builds the placeholder avatar used until the user
// uploads their own.
func DefaultAvatarURL(username string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=333333&color=cccccc",
		url.QueryEscape(username))
}

// Register validates the input and invite code, then creates the account
// and consumes one use of the code in a single transaction. Single-use
// codes are decremented with a guarded update so a race between two
// registrations can never spend the same use twice.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.InviteCode == "" {
		return nil, models.NewValidationError("Invite code is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:         in.Username,
		Email:            in.Email,
		PasswordHash:     string(hash),
		Role:             models.RoleUser,
		RegistrationDate: time.Now(),
		AvatarURL:        DefaultAvatarURL(in.Username),
		ReceiveEmails:    true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := repository.NewInviteCodeRepository(tx).GetByCode(ctx, in.InviteCode)
		if err != nil {
			return err
		}
		if code == nil {
			return models.NewValidationError("Invalid or expired invite code")
		}
		now := time.Now()
		if code.Expired(now) {
			return models.NewValidationError("Invite code has expired")
		}
		if !code.Redeemable(now) {
			return models.NewValidationError("Invalid or expired invite code")
		}

		taken, err := repository.NewUserRepository(tx).ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return models.NewValidationError("Username or Email already exists")
		}

		if err := tx.Create(user).Error; err != nil {
			return models.NewInternalError(err)
		}

		if !code.Unlimited() {
			dec := tx.Model(&models.InviteCode{}).
				Where("code = ? AND uses_left > 0", in.InviteCode).
				UpdateColumn("uses_left", gorm.Expr("uses_left - 1"))
			if dec.Error != nil {
				return models.NewInternalError(dec.Error)
			}
			if dec.RowsAffected == 0 {
				return models.NewValidationError("Invalid or expired invite code")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user.Public(), nil
}

// Login resolves the identifier as a username or an email and checks the
// password. Banned accounts are rejected after a successful password
// check so the response does not leak credential validity.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.PublicUser, error) {
	if in.Identifier == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByIdentifier(ctx, in.Identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if user.Banned() {
		return nil, models.NewForbiddenError("This account has been banned")
	}

	return user.Public(), nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.OldPassword == "" || in.NewPassword == "" {
		return models.NewValidationError("Old and new passwords are required")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByUID(ctx, in.UID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)) != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpdateFields(ctx, in.UID, map[string]interface{}{
		"password_hash": string(hash),
	})
}
