package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation represents a private two-party message thread.
type Conversation struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedBy    uint            `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
	Participants []User          `gorm:"many2many:conversation_participants;" json:"participants,omitempty"`
	Messages     []DirectMessage `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`

	// UnreadCount is computed per viewer at query time, never persisted
	UnreadCount int `gorm:"->" json:"unread_count"`
}

// ConversationParticipant is the join table between conversations and users.
type ConversationParticipant struct {
	ConversationID uint      `gorm:"primaryKey" json:"conversation_id"`
	UserID         uint      `gorm:"primaryKey" json:"user_id"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// DirectMessage represents a message inside a conversation. IsRead is
// flipped by the recipient when they view the conversation.
type DirectMessage struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ConversationID uint           `gorm:"not null;index" json:"conversation_id"`
	Conversation   *Conversation  `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
	SenderID       uint           `gorm:"not null;index" json:"sender_id"`
	Sender         *User          `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	IsRead         bool           `gorm:"default:false" json:"is_read"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
