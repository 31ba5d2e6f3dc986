package server

import (
	"tavern/internal/models"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListForums handles GET /api/forums
func (s *Server) ListForums(c *fiber.Ctx) error {
	categories, err := s.forumService.ListForums(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// ListThreads handles GET /api/forums/:id/threads
func (s *Server) ListThreads(c *fiber.Ctx) error {
	forumID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	forum, threads, err := s.forumService.ListThreads(c.Context(), forumID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"forum":   forum,
		"threads": threads,
	})
}

// GetThread handles GET /api/threads/:id
func (s *Server) GetThread(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	view, err := s.forumService.GetThread(c.Context(), threadID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// CreateThread handles POST /api/threads
func (s *Server) CreateThread(c *fiber.Ctx) error {
	var req struct {
		UID     uint   `json:"uid"`
		ForumID uint   `json:"forumId"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UID == 0 || req.ForumID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("uid and forumId are required"))
	}

	thread, err := s.forumService.CreateThread(c.Context(), service.CreateThreadInput{
		ForumID: req.ForumID,
		UID:     req.UID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		UID      uint   `json:"uid"`
		ThreadID uint   `json:"threadId"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UID == 0 || req.ThreadID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("uid and threadId are required"))
	}

	post, err := s.forumService.CreatePost(c.Context(), service.CreatePostInput{
		ThreadID: req.ThreadID,
		UID:      req.UID,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
