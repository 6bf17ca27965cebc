package server

import (
	"context"

	"forumhub/internal/models"
	"forumhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StartConversation handles POST /api/conversations
func (s *Server) StartConversation(c *fiber.Ctx) error {
	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	conv, err := s.chatService.StartConversation(c.Context(), currentUserID(c), req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conv)
}

// GetConversations handles GET /api/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	conversations, err := s.chatService.ListConversations(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}

// GetMessages handles GET /api/conversations/:id/messages. Viewing a
// conversation marks the other side's messages read.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePage(c)

	messages, merr := s.chatService.GetMessages(c.Context(), currentUserID(c), convID, page)
	if merr != nil {
		return respondServiceError(c, merr)
	}
	return c.JSON(fiber.Map{
		"messages": messages,
		"page":     page,
	})
}

// SendMessage handles POST /api/conversations/:id/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	convID, err := s.parseID(c, "id")
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

	senderID := currentUserID(c)
	msg, serr := s.chatService.SendMessage(c.Context(), service.SendMessageInput{
		UserID:         senderID,
		ConversationID: convID,
		Content:        req.Content,
	})
	if serr != nil {
		return respondServiceError(c, serr)
	}

	s.publishConversationMessage(msg, s.conversationRecipient(c.Context(), convID, senderID))

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// MarkConversationRead handles POST /api/conversations/:id/read
func (s *Server) MarkConversationRead(c *fiber.Ctx) error {
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if merr := s.chatService.MarkRead(c.Context(), currentUserID(c), convID); merr != nil {
		return respondServiceError(c, merr)
	}
	return c.JSON(fiber.Map{"message": "Conversation marked read"})
}

// GetUnreadCount handles GET /api/me/unread
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.chatService.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// conversationRecipient resolves the other participant of a two-party
// conversation for notification delivery.
func (s *Server) conversationRecipient(ctx context.Context, convID, senderID uint) uint {
	conv, err := s.chatRepo.GetConversation(ctx, convID)
	if err != nil || conv == nil {
		return 0
	}
	for _, participant := range conv.Participants {
		if participant.ID != senderID {
			return participant.ID
		}
	}
	return 0
}
