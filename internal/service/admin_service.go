package service

import (
	"context"
	"strings"
	"time"

	"tavern/internal/models"
	"tavern/internal/repository"

	"github.com/google/uuid"
)

// AdminService owns the admin console operations: user moderation and
// invite code management.
type AdminService struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteCodeRepository
}

// UpdateUserInput is the full moderation state for one user. The admin
// console always submits the whole set; a missing permissions object is
// a client bug, not a partial update.
type UpdateUserInput struct {
	UID         uint
	Role        string
	IsBanned    bool
	IsMuted     bool
	BanReason   string
	Permissions *models.UserPermissions
}

type CreateInviteInput struct {
	Code      string
	UsesLeft  *int
	ExpiresAt *time.Time
}

func NewAdminService(userRepo repository.UserRepository, inviteRepo repository.InviteCodeRepository) *AdminService {
	return &AdminService{userRepo: userRepo, inviteRepo: inviteRepo}
}

// ListUsers returns the management projection, newest accounts first.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	users, err := s.userRepo.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.AdminUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].AdminView())
	}
	return out, nil
}

// UpdateUser writes the moderation state exactly as given. Role and the
// ban flag are stored independently; the ban check elsewhere honors
// either.
func (s *AdminService) UpdateUser(ctx context.Context, in UpdateUserInput) error {
	if in.Permissions == nil {
		return models.NewValidationError("permissions object is required")
	}
	if in.Role == "" {
		return models.NewValidationError("role is required")
	}
	return s.userRepo.UpdateFields(ctx, in.UID, map[string]interface{}{
		"role":              in.Role,
		"is_banned":         in.IsBanned,
		"is_muted":          in.IsMuted,
		"ban_reason":        in.BanReason,
		"can_mute":          in.Permissions.CanMute,
		"can_ban":           in.Permissions.CanBan,
		"can_delete_shouts": in.Permissions.CanDeleteShouts,
	})
}

func (s *AdminService) ListInvites(ctx context.Context) ([]models.InviteCode, error) {
	return s.inviteRepo.List(ctx)
}

// CreateInvite stores a new code. An omitted code is auto-generated and
// an omitted usesLeft defaults to a single use.
func (s *AdminService) CreateInvite(ctx context.Context, in CreateInviteInput) (*models.InviteCode, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = generateInviteCode()
	}

	uses := 1
	if in.UsesLeft != nil {
		uses = *in.UsesLeft
	}
	if uses == 0 || uses < models.UnlimitedUses {
		return nil, models.NewValidationError("usesLeft must be positive or -1 for unlimited")
	}

	invite := &models.InviteCode{
		Code:      code,
		UsesLeft:  uses,
		ExpiresAt: in.ExpiresAt,
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *AdminService) DeleteInvite(ctx context.Context, id uint) error {
	return s.inviteRepo.Delete(ctx, id)
}

func generateInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:12])
}
