package models

import (
	"time"
)

// ReactionTypeLike is the only reaction type currently supported.
const ReactionTypeLike = "like"

// Reaction represents a like on a thread or a post. Exactly one of
// PostID and ThreadID is set. A single unique index over the nullable
// pair would never conflict (NULLs compare distinct in unique indexes),
// so each target gets its own partial unique index. Those indexes are
// what make the toggle operation atomic: a concurrent duplicate insert
// conflicts instead of creating a second row.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_thread_reaction,where:post_id IS NULL;uniqueIndex:idx_user_post_reaction,where:thread_id IS NULL" json:"user_id"`
	PostID    *uint     `gorm:"uniqueIndex:idx_user_post_reaction;index" json:"post_id,omitempty"`
	ThreadID  *uint     `gorm:"uniqueIndex:idx_user_thread_reaction;index" json:"thread_id,omitempty"`
	Type      string    `gorm:"default:'like'" json:"type"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
