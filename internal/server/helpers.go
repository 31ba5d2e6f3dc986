package server

import (
	"context"
	"errors"
	"strings"

	"tavern/internal/models"
	"tavern/internal/observability"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+strings.ToUpper(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// statusForError maps the application error taxonomy onto HTTP statuses.
// Conflicts surface as 400 because clients treat duplicate username/email
// as a validation problem.
func statusForError(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "VALIDATION_ERROR", "CONFLICT":
			return fiber.StatusBadRequest
		case "UNAUTHORIZED":
			return fiber.StatusUnauthorized
		case "FORBIDDEN":
			return fiber.StatusForbidden
		}
	}
	return fiber.StatusInternalServerError
}

// respondServiceError writes an error from the service layer with its
// mapped status and records it on the request span.
func respondServiceError(c *fiber.Ctx, err error) error {
	observability.RecordError(c.UserContext(), err)
	return models.RespondWithError(c, statusForError(err), err)
}

// gateUser loads the requester's row for a role gate, bypassing the user
// cache so a revoked role takes effect on the next request. Returns
// (nil, nil) when the uid no longer resolves.
func (s *Server) gateUser(ctx context.Context, uid uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Select("uid", "role", "is_banned", "can_mute", "can_ban", "can_delete_shouts").
		First(&user, uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
