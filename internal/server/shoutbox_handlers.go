package server

import (
	"forumhub/internal/featureflags"
	"forumhub/internal/models"
	"forumhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetShoutboxFeed handles GET /api/shoutbox
func (s *Server) GetShoutboxFeed(c *fiber.Ctx) error {
	if !s.shoutboxEnabled(c) {
		return c.JSON(disabledShoutboxFeed(c.Query("channel", models.ShoutboxChannelGeneral)))
	}

	channel := c.Query("channel", models.ShoutboxChannelGeneral)
	feed, err := s.shoutboxService.GetFeed(c.Context(), channel)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// PostShout handles POST /api/shoutbox
func (s *Server) PostShout(c *fiber.Ctx) error {
	if !s.shoutboxEnabled(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Shoutbox is not available yet"))
	}

	var req struct {
		Channel string `json:"channel"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Channel == "" {
		req.Channel = models.ShoutboxChannelGeneral
	}

	msg, err := s.shoutboxService.PostMessage(c.Context(), service.PostMessageInput{
		UserID:  currentUserID(c),
		Channel: req.Channel,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishShout(msg)

	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (s *Server) shoutboxEnabled(c *fiber.Ctx) bool {
	userID, _ := s.optionalUserID(c)
	return s.flagEnabledDefaultOn(featureflags.FlagShoutbox, userID)
}

// flagEnabledDefaultOn evaluates a feature flag, treating an unconfigured
// flag as enabled. Features ship on and are turned off via config.
func (s *Server) flagEnabledDefaultOn(name string, userID uint) bool {
	if s.featureFlags == nil {
		return true
	}
	if _, configured := s.featureFlags.Raw()[name]; !configured {
		return true
	}
	return s.featureFlags.Enabled(name, userID)
}

func disabledShoutboxFeed(channel string) *service.ShoutboxFeed {
	return &service.ShoutboxFeed{
		Channel:   channel,
		Messages:  []models.ShoutboxMessage{},
		Available: false,
	}
}
