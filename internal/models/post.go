package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a reply within a thread.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	ThreadID  uint           `gorm:"not null;index" json:"thread_id"`
	Thread    *Thread        `gorm:"foreignKey:ThreadID" json:"thread,omitempty"`
	IsEdited  bool           `gorm:"default:false" json:"is_edited"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// ReactionCount is not persisted; computed at query time
	ReactionCount int `gorm:"->" json:"reaction_count"`
	// UserReacted indicates whether the requesting user reacted to this post (computed)
	UserReacted bool `gorm:"->" json:"user_reacted"`
}
