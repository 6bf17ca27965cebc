package repository

import (
	"context"
	"strings"

	"forumhub/internal/models"

	"gorm.io/gorm"
)

// ShoutboxRepository defines persistence operations for shoutbox messages.
type ShoutboxRepository interface {
	Create(ctx context.Context, msg *models.ShoutboxMessage) error
	Recent(ctx context.Context, channel string, limit int) ([]models.ShoutboxMessage, error)
	DeleteForUser(ctx context.Context, userID uint) error
}

type shoutboxRepository struct {
	db *gorm.DB
}

// NewShoutboxRepository creates a new shoutbox repository
func NewShoutboxRepository(db *gorm.DB) ShoutboxRepository {
	return &shoutboxRepository{db: db}
}

func (r *shoutboxRepository) Create(ctx context.Context, msg *models.ShoutboxMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Preload("User").First(msg, msg.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Recent returns the newest messages for a channel in chronological order.
// It fetches newest-first to use the channel index, then reverses.
func (r *shoutboxRepository) Recent(ctx context.Context, channel string, limit int) ([]models.ShoutboxMessage, error) {
	var messages []models.ShoutboxMessage
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("channel = ?", channel).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteForUser removes all of a user's shoutbox messages, used when a
// moderator bans a user from the shoutbox.
func (r *shoutboxRepository) DeleteForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ShoutboxMessage{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// IsSchemaMissing reports whether err indicates the backing table has not
// been created yet. The shoutbox treats that as a soft "coming soon" state
// instead of an error.
func IsSchemaMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "42p01")
}
