package server

import (
	"forumhub/internal/cache"
	"forumhub/internal/models"
	"forumhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThreadPosts handles GET /api/threads/:id/posts
func (s *Server) GetThreadPosts(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePage(c)
	userID, _ := s.optionalUserID(c)

	postPage, perr := s.postService.ListPosts(c.Context(), threadID, page, userID)
	if perr != nil {
		return respondServiceError(c, perr)
	}
	return c.JSON(postPage)
}

// CreatePost handles POST /api/threads/:id/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, cerr := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   currentUserID(c),
		ThreadID: threadID,
		Content:  req.Content,
	})
	if cerr != nil {
		return respondServiceError(c, cerr)
	}

	s.invalidateThreadByID(c, threadID)
	s.notifyThreadReply(c, threadID, post)

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, uerr := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Content: req.Content,
	})
	if uerr != nil {
		return respondServiceError(c, uerr)
	}

	s.invalidateThreadByID(c, post.ThreadID)

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, derr := s.postService.DeletePost(c.Context(), currentUserID(c), postID)
	if derr != nil {
		return respondServiceError(c, derr)
	}

	s.invalidateThreadByID(c, post.ThreadID)

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// ToggleThreadReaction handles POST /api/threads/:id/reactions
func (s *Server) ToggleThreadReaction(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, terr := s.reactionService.ToggleThreadReaction(c.Context(), currentUserID(c), threadID)
	if terr != nil {
		return respondServiceError(c, terr)
	}

	s.invalidateThreadByID(c, threadID)

	return c.JSON(result)
}

// TogglePostReaction handles POST /api/posts/:id/reactions
func (s *Server) TogglePostReaction(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, terr := s.reactionService.TogglePostReaction(c.Context(), currentUserID(c), postID)
	if terr != nil {
		return respondServiceError(c, terr)
	}
	return c.JSON(result)
}

// invalidateThreadByID drops the cached detail for the thread, resolving the
// slug first since cache keys are slug based.
func (s *Server) invalidateThreadByID(c *fiber.Ctx, threadID uint) {
	thread, err := s.threadRepo.GetByID(c.Context(), threadID, 0)
	if err != nil || thread == nil {
		return
	}
	cache.InvalidateThread(c.Context(), thread.Slug)
}
