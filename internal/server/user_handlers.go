package server

import (
	"tavern/internal/models"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	uid, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.Context(), uid)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// ListUsers handles GET /api/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// UpdateProfile handles PUT /api/users/:id. Only the fields present in
// the body are written.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	uid, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AvatarURL     *string `json:"avatarUrl"`
		AvatarColor   *string `json:"avatarColor"`
		Location      *string `json:"location"`
		Website       *string `json:"website"`
		About         *string `json:"about"`
		DobDay        *int    `json:"dobDay"`
		DobMonth      *int    `json:"dobMonth"`
		DobYear       *int    `json:"dobYear"`
		ShowDobDate   *bool   `json:"showDobDate"`
		ShowDobYear   *bool   `json:"showDobYear"`
		ReceiveEmails *bool   `json:"receiveEmails"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	_, err = s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UID:           uid,
		AvatarURL:     req.AvatarURL,
		AvatarColor:   req.AvatarColor,
		Location:      req.Location,
		Website:       req.Website,
		About:         req.About,
		DobDay:        req.DobDay,
		DobMonth:      req.DobMonth,
		DobYear:       req.DobYear,
		ShowDobDate:   req.ShowDobDate,
		ShowDobYear:   req.ShowDobYear,
		ReceiveEmails: req.ReceiveEmails,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// LogIP handles POST /api/users/:id/ip. Best-effort telemetry: failures
// are reported as success:false, never as an HTTP error.
func (s *Server) LogIP(c *fiber.Ctx) error {
	uid, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		IP string `json:"ip"`
	}
	if err := c.BodyParser(&req); err != nil || req.IP == "" {
		req.IP = c.IP()
	}

	err = s.userService.LogIP(c.Context(), service.LogIPInput{
		UID:       uid,
		IPAddress: req.IP,
	})
	if err != nil {
		return c.JSON(fiber.Map{"success": false})
	}
	return c.JSON(fiber.Map{"success": true})
}
