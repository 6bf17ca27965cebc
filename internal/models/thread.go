package models

import (
	"time"

	"gorm.io/gorm"
)

// Thread represents a top-level discussion post within a category.
type Thread struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"not null" json:"title"`
	Slug       string         `gorm:"unique;not null" json:"slug"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	AuthorID   uint           `gorm:"not null;index" json:"author_id"`
	Author     User           `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID uint           `gorm:"not null;index" json:"category_id"`
	Category   Category       `gorm:"foreignKey:CategoryID" json:"category"`
	IsPinned   bool           `gorm:"default:false" json:"is_pinned"`
	IsLocked   bool           `gorm:"default:false" json:"is_locked"`
	ViewCount  int            `gorm:"default:0" json:"view_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// ReplyCount is not persisted; computed at query time
	ReplyCount int `gorm:"->" json:"reply_count"`
	// ReactionCount is not persisted; computed at query time
	ReactionCount int `gorm:"->" json:"reaction_count"`
	// UserReacted indicates whether the requesting user reacted to this thread (computed)
	UserReacted bool `gorm:"->" json:"user_reacted"`

	Posts []Post `gorm:"foreignKey:ThreadID" json:"posts,omitempty"`
}
