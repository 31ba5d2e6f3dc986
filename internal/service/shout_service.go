package service

import (
	"context"

	"tavern/internal/models"
	"tavern/internal/repository"
	"tavern/internal/validation"
)

// ShoutService owns the shoutbox feed and its write gates.
type ShoutService struct {
	shoutRepo repository.ShoutRepository
	userRepo  repository.UserRepository
}

type PostShoutInput struct {
	UID     uint
	Message string
}

func NewShoutService(shoutRepo repository.ShoutRepository, userRepo repository.UserRepository) *ShoutService {
	return &ShoutService{shoutRepo: shoutRepo, userRepo: userRepo}
}

// ShoutFeedLimit caps the shoutbox feed length.
const ShoutFeedLimit = 50

func (s *ShoutService) ListShouts(ctx context.Context) ([]models.ShoutView, error) {
	return s.shoutRepo.Latest(ctx, ShoutFeedLimit)
}

// PostShout rejects banned and muted authors before any row is written,
// then returns the stored shout joined with author display fields.
func (s *ShoutService) PostShout(ctx context.Context, in PostShoutInput) (*models.ShoutView, error) {
	if err := validation.ValidateShoutMessage(in.Message); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByUID(ctx, in.UID)
	if err != nil {
		return nil, err
	}
	if user.Banned() {
		return nil, models.NewForbiddenError("You are banned")
	}
	if user.IsMuted {
		return nil, models.NewForbiddenError("You are muted")
	}

	shout := &models.Shout{UID: in.UID, Message: in.Message}
	if err := s.shoutRepo.Create(ctx, shout); err != nil {
		return nil, err
	}
	return s.shoutRepo.GetView(ctx, shout.ID)
}

func (s *ShoutService) DeleteShout(ctx context.Context, id uint) error {
	return s.shoutRepo.Delete(ctx, id)
}
