package service

import (
	"context"
	"strings"

	"forumhub/internal/models"
	"forumhub/internal/repository"
	"forumhub/internal/validation"
)

// MessagesPerPage is the direct-message window size.
const MessagesPerPage = 50

// ChatService provides direct messaging between two users.
type ChatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

// NewChatService returns a new ChatService.
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, userRepo: userRepo}
}

// StartConversation finds or creates the conversation between the caller
// and another user.
func (s *ChatService) StartConversation(ctx context.Context, userID, otherUserID uint) (*models.Conversation, error) {
	if userID == otherUserID {
		return nil, models.NewValidationError("You cannot message yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}

	conv, _, err := s.chatRepo.FindOrCreateConversation(ctx, userID, otherUserID)
	return conv, err
}

// ListConversations returns the caller's inbox, most recently active first.
func (s *ChatService) ListConversations(ctx context.Context, userID uint) ([]*models.Conversation, error) {
	return s.chatRepo.GetUserConversations(ctx, userID)
}

// GetMessages returns a window of messages in a conversation the caller
// participates in, and marks the conversation read for them.
func (s *ChatService) GetMessages(ctx context.Context, userID, convID uint, page int) ([]*models.DirectMessage, error) {
	if err := s.requireParticipant(ctx, convID, userID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	messages, err := s.chatRepo.GetMessages(ctx, convID, MessagesPerPage, (page-1)*MessagesPerPage)
	if err != nil {
		return nil, err
	}

	if err := s.chatRepo.MarkConversationRead(ctx, convID, userID); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessageInput is the input for sending a direct message.
type SendMessageInput struct {
	UserID         uint
	ConversationID uint
	Content        string
}

func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.DirectMessage, error) {
	if err := validation.ValidateMessageContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.requireParticipant(ctx, in.ConversationID, in.UserID); err != nil {
		return nil, err
	}

	msg := &models.DirectMessage{
		ConversationID: in.ConversationID,
		SenderID:       in.UserID,
		Content:        strings.TrimSpace(in.Content),
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkRead marks every message from the other party as read.
func (s *ChatService) MarkRead(ctx context.Context, userID, convID uint) error {
	if err := s.requireParticipant(ctx, convID, userID); err != nil {
		return err
	}
	return s.chatRepo.MarkConversationRead(ctx, convID, userID)
}

// UnreadCount returns the caller's total unread message count across
// all conversations.
func (s *ChatService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.chatRepo.TotalUnreadCount(ctx, userID)
}

func (s *ChatService) requireParticipant(ctx context.Context, convID, userID uint) error {
	ok, err := s.chatRepo.IsParticipant(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("You are not part of this conversation")
	}
	return nil
}
