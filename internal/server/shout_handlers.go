package server

import (
	"tavern/internal/models"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListShouts handles GET /api/shouts
func (s *Server) ListShouts(c *fiber.Ctx) error {
	shouts, err := s.shoutService.ListShouts(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(shouts)
}

// PostShout handles POST /api/shouts
func (s *Server) PostShout(c *fiber.Ctx) error {
	var req struct {
		UID     uint   `json:"uid"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("uid is required"))
	}

	shout, err := s.shoutService.PostShout(c.Context(), service.PostShoutInput{
		UID:     req.UID,
		Message: req.Message,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(shout)
}

// DeleteShout handles DELETE /api/shouts/:id. The moderation gate runs
// in middleware; the delete itself is unconditional.
func (s *Server) DeleteShout(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.shoutService.DeleteShout(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
