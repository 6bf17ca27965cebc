package server

import (
	"forumhub/internal/cache"
	"forumhub/internal/models"
	"forumhub/internal/repository"
	"forumhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories. Admin-only categories are hidden
// from everyone below moderator.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	err := cache.Aside(c.Context(), cache.CategoriesKey, &categories, cache.CategoriesTTL, func() error {
		var loadErr error
		categories, loadErr = s.categoryService.ListCategories(c.Context())
		return loadErr
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	staff := false
	if userID, ok := s.optionalUserID(c); ok {
		staff, _ = s.isStaffByUserID(c.Context(), userID)
	}
	if !staff {
		visible := make([]models.Category, 0, len(categories))
		for _, category := range categories {
			if !category.AdminOnly || category.Slug == models.AnnouncementsSlug {
				visible = append(visible, category)
			}
		}
		categories = visible
	}

	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategoryThreads handles GET /api/categories/:slug/threads
func (s *Server) GetCategoryThreads(c *fiber.Ctx) error {
	slug := c.Params("slug")
	sort := c.Query("sort", repository.SortLatest)
	page := parsePage(c)
	userID, _ := s.optionalUserID(c)

	in := service.ListThreadsInput{
		CategorySlug:  slug,
		Sort:          sort,
		Page:          page,
		CurrentUserID: userID,
	}

	// Listings are only cached for anonymous viewers; per-user reaction
	// state would otherwise leak between sessions.
	if userID == 0 {
		var threadPage service.ThreadPage
		key := cache.ThreadListKey(c.Context(), slug, sort, page)
		err := cache.Aside(c.Context(), key, &threadPage, cache.ListTTL, func() error {
			result, loadErr := s.threadService.ListThreads(c.Context(), in)
			if loadErr != nil {
				return loadErr
			}
			threadPage = *result
			return nil
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(threadPage)
	}

	threadPage, err := s.threadService.ListThreads(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(threadPage)
}

// GetThread handles GET /api/threads/:slug
func (s *Server) GetThread(c *fiber.Ctx) error {
	slug := c.Params("slug")
	userID, _ := s.optionalUserID(c)

	// Anonymous detail views are served cache-aside. Views recorded on
	// cache misses only; the counter catches up when the entry expires.
	if userID == 0 {
		var thread models.Thread
		err := cache.Aside(c.Context(), cache.ThreadKey(slug), &thread, cache.ThreadTTL, func() error {
			loaded, loadErr := s.threadService.GetThread(c.Context(), slug, 0)
			if loadErr != nil {
				return loadErr
			}
			thread = *loaded
			return nil
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(thread)
	}

	thread, err := s.threadService.GetThread(c.Context(), slug, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(thread)
}

// CreateThread handles POST /api/threads
func (s *Server) CreateThread(c *fiber.Ctx) error {
	var req struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		CategorySlug string `json:"category_slug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.CreateThread(c.Context(), service.CreateThreadInput{
		UserID:       currentUserID(c),
		CategorySlug: req.CategorySlug,
		Title:        req.Title,
		Content:      req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.BumpThreadListVersion(c.Context())

	return c.Status(fiber.StatusCreated).JSON(thread)
}

// UpdateThread handles PUT /api/threads/:id
func (s *Server) UpdateThread(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, uerr := s.threadService.UpdateThread(c.Context(), service.UpdateThreadInput{
		UserID:   currentUserID(c),
		ThreadID: threadID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if uerr != nil {
		return respondServiceError(c, uerr)
	}

	cache.InvalidateThread(c.Context(), thread.Slug)

	return c.JSON(thread)
}

// DeleteThread handles DELETE /api/threads/:id
func (s *Server) DeleteThread(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if derr := s.threadService.DeleteThread(c.Context(), currentUserID(c), threadID); derr != nil {
		return respondServiceError(c, derr)
	}

	cache.BumpThreadListVersion(c.Context())

	return c.JSON(fiber.Map{"message": "Thread deleted"})
}

// PinThread handles POST /api/threads/:id/pin
func (s *Server) PinThread(c *fiber.Ctx) error {
	return s.setThreadFlag(c, "pinned")
}

// LockThread handles POST /api/threads/:id/lock
func (s *Server) LockThread(c *fiber.Ctx) error {
	return s.setThreadFlag(c, "locked")
}

func (s *Server) setThreadFlag(c *fiber.Ctx, flag string) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Value bool `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := currentUserID(c)
	var serr error
	switch flag {
	case "pinned":
		serr = s.threadService.SetPinned(c.Context(), userID, threadID, req.Value)
	case "locked":
		serr = s.threadService.SetLocked(c.Context(), userID, threadID, req.Value)
	}
	if serr != nil {
		return respondServiceError(c, serr)
	}

	cache.BumpThreadListVersion(c.Context())

	return c.JSON(fiber.Map{flag: req.Value})
}

// SearchThreads handles GET /api/search
func (s *Server) SearchThreads(c *fiber.Ctx) error {
	query := c.Query("q")
	page := parsePage(c)
	userID, _ := s.optionalUserID(c)

	threads, err := s.threadService.Search(c.Context(), query, page, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"threads": threads,
		"query":   query,
		"page":    page,
	})
}

// GetAnnouncements handles GET /api/announcements
func (s *Server) GetAnnouncements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 5)
	threads, err := s.threadService.Announcements(c.Context(), limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"announcements": threads})
}
