package server

import (
	"forumhub/internal/cache"
	"forumhub/internal/models"
	"forumhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := s.userService.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// AdminSetUserRole handles PUT /api/admin/users/:id/role
func (s *Server) AdminSetUserRole(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, serr := s.userService.SetRole(c.Context(), currentUserID(c), targetID, req.Role)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	cache.InvalidateUser(c.Context(), targetID)

	return c.JSON(user)
}

// AdminSetShoutboxBan handles PUT /api/admin/users/:id/shoutbox-ban. Banning
// also purges the user's existing shoutbox messages and tells connected
// shoutbox clients to drop them.
func (s *Server) AdminSetShoutboxBan(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Banned bool `json:"banned"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, serr := s.userService.SetShoutboxBan(c.Context(), targetID, req.Banned)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	if req.Banned {
		if perr := s.shoutboxService.PurgeUserMessages(c.Context(), targetID); perr != nil {
			return respondServiceError(c, perr)
		}
		s.publishUserEvent(targetID, EventShoutboxUserBanned, map[string]interface{}{
			"user_id": targetID,
		})
	}

	return c.JSON(user)
}

// AdminCreateCategory handles POST /api/admin/categories
func (s *Server) AdminCreateCategory(c *fiber.Ctx) error {
	in, err := parseCategoryInput(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, serr := s.categoryService.CreateCategory(c.Context(), in)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	cache.InvalidateCategories(c.Context())

	return c.Status(fiber.StatusCreated).JSON(category)
}

// AdminUpdateCategory handles PUT /api/admin/categories/:id
func (s *Server) AdminUpdateCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in, perr := parseCategoryInput(c)
	if perr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, serr := s.categoryService.UpdateCategory(c.Context(), categoryID, in)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	cache.InvalidateCategories(c.Context())
	cache.BumpThreadListVersion(c.Context())

	return c.JSON(category)
}

// AdminDeleteCategory handles DELETE /api/admin/categories/:id
func (s *Server) AdminDeleteCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if serr := s.categoryService.DeleteCategory(c.Context(), categoryID); serr != nil {
		return respondServiceError(c, serr)
	}

	cache.InvalidateCategories(c.Context())
	cache.BumpThreadListVersion(c.Context())

	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// AdminCreateAnnouncement handles POST /api/admin/announcements. Announcements
// are threads in the reserved category, broadcast to every connected client.
func (s *Server) AdminCreateAnnouncement(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Pinned  bool   `json:"pinned"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	adminID := currentUserID(c)
	thread, err := s.threadService.CreateThread(c.Context(), service.CreateThreadInput{
		UserID:       adminID,
		CategorySlug: models.AnnouncementsSlug,
		Title:        req.Title,
		Content:      req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if req.Pinned {
		if perr := s.threadService.SetPinned(c.Context(), adminID, thread.ID, true); perr != nil {
			return respondServiceError(c, perr)
		}
		thread.IsPinned = true
	}

	cache.BumpThreadListVersion(c.Context())
	s.publishBroadcastEvent(EventAnnouncementCreated, map[string]interface{}{
		"thread_id": thread.ID,
		"slug":      thread.Slug,
		"title":     thread.Title,
	})

	return c.Status(fiber.StatusCreated).JSON(thread)
}

func parseCategoryInput(c *fiber.Ctx) (service.CategoryInput, error) {
	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		SortOrder   int    `json:"sort_order"`
		AdminOnly   bool   `json:"admin_only"`
		GroupLabel  string `json:"group_label"`
	}
	if err := c.BodyParser(&req); err != nil {
		return service.CategoryInput{}, err
	}
	return service.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
		AdminOnly:   req.AdminOnly,
		GroupLabel:  req.GroupLabel,
	}, nil
}
