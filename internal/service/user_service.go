package service

import (
	"context"
	"time"

	"tavern/internal/models"
	"tavern/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService owns profile reads, partial profile updates and IP
// telemetry.
type UserService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

// UpdateProfileInput carries a partial profile update. Nil pointer means
// the field was absent from the request and must be left untouched.
type UpdateProfileInput struct {
	UID           uint
	AvatarURL     *string
	AvatarColor   *string
	Location      *string
	Website       *string
	About         *string
	DobDay        *int
	DobMonth      *int
	DobYear       *int
	ShowDobDate   *bool
	ShowDobYear   *bool
	ReceiveEmails *bool
}

type LogIPInput struct {
	UID       uint
	IPAddress string
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository) *UserService {
	return &UserService{db: db, userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, uid uint) (*models.PublicUser, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.PublicUser, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// UpdateProfile applies exactly the fields present in the input and
// returns the updated projection.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.PublicUser, error) {
	fields := map[string]interface{}{}
	if in.AvatarURL != nil {
		fields["avatar_url"] = *in.AvatarURL
	}
	if in.AvatarColor != nil {
		fields["avatar_color"] = *in.AvatarColor
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.Website != nil {
		fields["website"] = *in.Website
	}
	if in.About != nil {
		fields["about"] = *in.About
	}
	if in.DobDay != nil {
		fields["dob_day"] = *in.DobDay
	}
	if in.DobMonth != nil {
		fields["dob_month"] = *in.DobMonth
	}
	if in.DobYear != nil {
		fields["dob_year"] = *in.DobYear
	}
	if in.ShowDobDate != nil {
		fields["show_dob_date"] = *in.ShowDobDate
	}
	if in.ShowDobYear != nil {
		fields["show_dob_year"] = *in.ShowDobYear
	}
	if in.ReceiveEmails != nil {
		fields["receive_emails"] = *in.ReceiveEmails
	}

	if len(fields) == 0 {
		return nil, models.NewValidationError("No profile fields provided")
	}

	if err := s.userRepo.UpdateFields(ctx, in.UID, fields); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, in.UID)
}

// LogIP upserts the (uid, ip) sighting row: first sighting inserts with
// count 1, repeats bump the count and touch last_seen. Errors are
// returned so the handler can report {success:false}, never an HTTP
// failure.
func (s *UserService) LogIP(ctx context.Context, in LogIPInput) error {
	if in.UID == 0 || in.IPAddress == "" {
		return models.NewValidationError("uid and ip are required")
	}

	entry := models.IPLog{
		UID:       in.UID,
		IPAddress: in.IPAddress,
		Count:     1,
		LastSeen:  time.Now(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "uid"}, {Name: "ip_address"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":     gorm.Expr("count + 1"),
				"last_seen": time.Now(),
			}),
		}).
		Create(&entry).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
