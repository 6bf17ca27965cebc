package models

import (
	"time"

	"gorm.io/gorm"
)

// AnnouncementsSlug is the reserved slug of the built-in announcements category.
const AnnouncementsSlug = "announcements"

// Category represents a forum category that threads are filed under.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"unique;not null" json:"slug"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Color       string         `json:"color"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	AdminOnly   bool           `gorm:"default:false" json:"admin_only"`
	GroupLabel  string         `json:"group_label"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// ThreadCount is not persisted; computed at query time
	ThreadCount int `gorm:"->" json:"thread_count"`
}
