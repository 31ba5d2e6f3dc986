package server

import (
	"time"

	"tavern/internal/models"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	users, err := s.adminService.ListUsers(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// AdminUpdateUser handles PUT /api/admin/users/:id. The console submits
// the whole moderation state in one request.
func (s *Server) AdminUpdateUser(c *fiber.Ctx) error {
	uid, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role        string                  `json:"role"`
		IsBanned    bool                    `json:"isBanned"`
		IsMuted     bool                    `json:"isMuted"`
		BanReason   string                  `json:"banReason"`
		Permissions *models.UserPermissions `json:"permissions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	err = s.adminService.UpdateUser(c.Context(), service.UpdateUserInput{
		UID:         uid,
		Role:        req.Role,
		IsBanned:    req.IsBanned,
		IsMuted:     req.IsMuted,
		BanReason:   req.BanReason,
		Permissions: req.Permissions,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AdminListInvites handles GET /api/admin/invite-codes
func (s *Server) AdminListInvites(c *fiber.Ctx) error {
	invites, err := s.adminService.ListInvites(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(invites)
}

// AdminCreateInvite handles POST /api/admin/invite-codes
func (s *Server) AdminCreateInvite(c *fiber.Ctx) error {
	var req struct {
		Code      string     `json:"code"`
		UsesLeft  *int       `json:"usesLeft"`
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	invite, err := s.adminService.CreateInvite(c.Context(), service.CreateInviteInput{
		Code:      req.Code,
		UsesLeft:  req.UsesLeft,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(invite)
}

// AdminDeleteInvite handles DELETE /api/admin/invite-codes/:id
func (s *Server) AdminDeleteInvite(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeleteInvite(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
