// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleModerator, RoleMember:
		return true
	}
	return false
}

// User represents a forum member profile.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"unique;not null" json:"username"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	DisplayName    string         `json:"display_name"`
	AvatarURL      string         `json:"avatar_url"`
	Bio            string         `json:"bio"`
	Role           string         `gorm:"default:'member';index" json:"role"`
	ShoutboxBanned bool           `gorm:"default:false" json:"shoutbox_banned"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Threads        []Thread       `gorm:"foreignKey:AuthorID" json:"threads,omitempty"`
}

// IsStaff reports whether the user may moderate content (admin or moderator).
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}
