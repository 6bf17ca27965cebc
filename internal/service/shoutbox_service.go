package service

import (
	"context"
	"strings"

	"forumhub/internal/models"
	"forumhub/internal/repository"
	"forumhub/internal/validation"
)

// ShoutboxWindowSize is how many recent messages a channel serves.
const ShoutboxWindowSize = 50

// ShoutboxService provides live channel chat over a rolling message window.
type ShoutboxService struct {
	shoutboxRepo repository.ShoutboxRepository
	userRepo     repository.UserRepository
}

// ShoutboxFeed is the served window for one channel. Available is false
// when the backing table has not been provisioned yet, which the API
// surfaces as a soft "coming soon" state rather than an error.
type ShoutboxFeed struct {
	Channel   string                   `json:"channel"`
	Messages  []models.ShoutboxMessage `json:"messages"`
	Available bool                     `json:"available"`
}

// NewShoutboxService returns a new ShoutboxService.
func NewShoutboxService(shoutboxRepo repository.ShoutboxRepository, userRepo repository.UserRepository) *ShoutboxService {
	return &ShoutboxService{shoutboxRepo: shoutboxRepo, userRepo: userRepo}
}

// GetFeed returns the recent window for a channel.
func (s *ShoutboxService) GetFeed(ctx context.Context, channel string) (*ShoutboxFeed, error) {
	if !models.ValidShoutboxChannel(channel) {
		return nil, models.NewValidationError("Unknown shoutbox channel")
	}

	messages, err := s.shoutboxRepo.Recent(ctx, channel, ShoutboxWindowSize)
	if err != nil {
		if repository.IsSchemaMissing(err) {
			return &ShoutboxFeed{Channel: channel, Messages: []models.ShoutboxMessage{}, Available: false}, nil
		}
		return nil, err
	}

	return &ShoutboxFeed{Channel: channel, Messages: messages, Available: true}, nil
}

// PostMessageInput is the input for posting a shoutbox message.
type PostMessageInput struct {
	UserID  uint
	Channel string
	Content string
}

func (s *ShoutboxService) PostMessage(ctx context.Context, in PostMessageInput) (*models.ShoutboxMessage, error) {
	if !models.ValidShoutboxChannel(in.Channel) {
		return nil, models.NewValidationError("Unknown shoutbox channel")
	}
	if err := validation.ValidateShoutboxContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.ShoutboxBanned {
		return nil, models.NewForbiddenError("You are banned from the shoutbox")
	}

	msg := &models.ShoutboxMessage{
		UserID:  in.UserID,
		Content: strings.TrimSpace(in.Content),
		Channel: in.Channel,
	}
	if err := s.shoutboxRepo.Create(ctx, msg); err != nil {
		if repository.IsSchemaMissing(err) {
			return nil, models.NewValidationError("Shoutbox is not available yet")
		}
		return nil, err
	}
	return msg, nil
}

// PurgeUserMessages removes every shoutbox message a user has posted.
// Used by moderation when banning a user from the shoutbox.
func (s *ShoutboxService) PurgeUserMessages(ctx context.Context, userID uint) error {
	return s.shoutboxRepo.DeleteForUser(ctx, userID)
}
