package models

import (
	"time"
)

// Shoutbox channels.
const (
	ShoutboxChannelGeneral     = "general"
	ShoutboxChannelMarketplace = "marketplace"
)

// ValidShoutboxChannel reports whether name is a known shoutbox channel.
func ValidShoutboxChannel(name string) bool {
	return name == ShoutboxChannelGeneral || name == ShoutboxChannelMarketplace
}

// ShoutboxMessage is an ephemeral live-chat message scoped to a channel.
// Only the most recent window per channel is ever served.
type ShoutboxMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Channel   string    `gorm:"not null;index;default:'general'" json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}
