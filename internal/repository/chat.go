package repository

import (
	"context"
	"errors"
	"time"

	"forumhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository defines persistence operations for direct messaging.
type ChatRepository interface {
	FindOrCreateConversation(ctx context.Context, userID, otherUserID uint) (*models.Conversation, bool, error)
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	GetUserConversations(ctx context.Context, userID uint) ([]*models.Conversation, error)
	IsParticipant(ctx context.Context, convID, userID uint) (bool, error)
	CreateMessage(ctx context.Context, msg *models.DirectMessage) error
	GetMessages(ctx context.Context, convID uint, limit, offset int) ([]*models.DirectMessage, error)
	MarkConversationRead(ctx context.Context, convID, readerID uint) error
	UnreadCount(ctx context.Context, convID, userID uint) (int64, error)
	TotalUnreadCount(ctx context.Context, userID uint) (int64, error)
}

// chatRepository implements ChatRepository
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// FindOrCreateConversation returns the existing two-party conversation
// between the users, creating it when none exists. The second return value
// reports whether a new conversation was created.
func (r *chatRepository) FindOrCreateConversation(ctx context.Context, userID, otherUserID uint) (*models.Conversation, bool, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants a ON conversations.id = a.conversation_id AND a.user_id = ?", userID).
		Joins("JOIN conversation_participants b ON conversations.id = b.conversation_id AND b.user_id = ?", otherUserID).
		Preload("Participants").
		First(&conv).Error
	if err == nil {
		return &conv, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, models.NewInternalError(err)
	}

	conv = models.Conversation{CreatedBy: userID}
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		for _, uid := range []uint{userID, otherUserID} {
			participant := models.ConversationParticipant{
				ConversationID: conv.ID,
				UserID:         uid,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, false, models.NewInternalError(txErr)
	}

	if err := r.db.WithContext(ctx).Preload("Participants").First(&conv, conv.ID).Error; err != nil {
		return nil, false, models.NewInternalError(err)
	}
	return &conv, true, nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := readDB(r.db).WithContext(ctx).
		Preload("Participants").
		First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Conversation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

// GetUserConversations lists conversations most recently active first, with
// the last message preloaded and the viewer's unread count computed as a
// subquery in the same SELECT, not one count query per conversation.
func (r *chatRepository) GetUserConversations(ctx context.Context, userID uint) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	err := readDB(r.db).WithContext(ctx).
		Select("conversations.*, "+
			"(SELECT COUNT(*) FROM direct_messages dm "+
			"WHERE dm.conversation_id = conversations.id "+
			"AND dm.sender_id <> ? AND dm.is_read = ?) AS unread_count",
			userID, false).
		Joins("JOIN conversation_participants cp ON conversations.id = cp.conversation_id").
		Where("cp.user_id = ?", userID).
		Preload("Participants").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(1)
		}).
		Preload("Messages.Sender").
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return conversations, nil
}

func (r *chatRepository) IsParticipant(ctx context.Context, convID, userID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.DirectMessage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		// Bump the conversation so it sorts to the top of the inbox.
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Preload("Sender").First(msg, msg.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) GetMessages(ctx context.Context, convID uint, limit, offset int) ([]*models.DirectMessage, error) {
	var messages []*models.DirectMessage
	err := readDB(r.db).WithContext(ctx).
		Where("conversation_id = ?", convID).
		Preload("Sender").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// Fetched DESC to get the latest window; clients expect chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// MarkConversationRead marks every message from the other party as read.
func (r *chatRepository) MarkConversationRead(ctx context.Context, convID, readerID uint) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&models.DirectMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convID, readerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) UnreadCount(ctx context.Context, convID, userID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.DirectMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convID, userID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// TotalUnreadCount returns the user's unread message count across all
// conversations, used for the inbox badge.
func (r *chatRepository) TotalUnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.DirectMessage{}).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = direct_messages.conversation_id AND cp.user_id = ?", userID).
		Where("direct_messages.sender_id <> ? AND direct_messages.is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
