package repository

import (
	"context"

	"forumhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines persistence operations for reactions.
type ReactionRepository interface {
	ToggleThread(ctx context.Context, userID, threadID uint) (bool, error)
	TogglePost(ctx context.Context, userID, postID uint) (bool, error)
	CountForThread(ctx context.Context, threadID uint) (int64, error)
	CountForPost(ctx context.Context, postID uint) (int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// ToggleThread flips the caller's reaction on a thread. Returns true when
// the reaction now exists, false when it was removed.
func (r *reactionRepository) ToggleThread(ctx context.Context, userID, threadID uint) (bool, error) {
	reaction := models.Reaction{
		UserID:   userID,
		ThreadID: &threadID,
		Type:     models.ReactionTypeLike,
	}
	onConflict := clause.OnConflict{
		Columns:     []clause.Column{{Name: "user_id"}, {Name: "thread_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "post_id IS NULL"}}},
		DoNothing:   true,
	}
	return r.toggle(ctx, &reaction, onConflict, "thread_id = ?", threadID)
}

// TogglePost flips the caller's reaction on a post. Returns true when the
// reaction now exists, false when it was removed.
func (r *reactionRepository) TogglePost(ctx context.Context, userID, postID uint) (bool, error) {
	reaction := models.Reaction{
		UserID: userID,
		PostID: &postID,
		Type:   models.ReactionTypeLike,
	}
	onConflict := clause.OnConflict{
		Columns:     []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "thread_id IS NULL"}}},
		DoNothing:   true,
	}
	return r.toggle(ctx, &reaction, onConflict, "post_id = ?", postID)
}

// toggle inserts with ON CONFLICT DO NOTHING so concurrent toggles cannot
// create duplicates. The conflict target must name the partial unique
// index for the reaction's target type; a conflicting insert means the
// reaction already existed, in which case it is removed.
func (r *reactionRepository) toggle(ctx context.Context, reaction *models.Reaction, onConflict clause.OnConflict, targetCond string, targetID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(onConflict).
		Create(reaction)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", reaction.UserID).
		Where(targetCond, targetID).
		Delete(&models.Reaction{}).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return false, nil
}

func (r *reactionRepository) CountForThread(ctx context.Context, threadID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Reaction{}).
		Where("thread_id = ?", threadID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *reactionRepository) CountForPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Reaction{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
