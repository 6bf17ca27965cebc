package repository

import (
	"context"
	"errors"
	"strings"

	"forumhub/internal/cache"
	"forumhub/internal/models"
	"forumhub/internal/observability"

	"gorm.io/gorm"
)

// Thread sort orders accepted by ListByCategory.
const (
	SortLatest     = "latest"
	SortPopular    = "popular"
	SortReplies    = "replies"
	SortUnanswered = "unanswered"
)

// ThreadRepository defines persistence operations for threads.
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Thread, error)
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Thread, error)
	ListByCategory(ctx context.Context, categoryID uint, sort string, limit, offset int, currentUserID uint) ([]*models.Thread, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Thread, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Thread, error)
	Update(ctx context.Context, thread *models.Thread) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	SetLocked(ctx context.Context, id uint, locked bool) error
}

type threadRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db, log: observability.NewRepoLogger("threads")}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A thread with this slug already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"thread_id": thread.ID, "slug": thread.Slug})
	cache.BumpThreadListVersion(ctx)
	return nil
}

func (r *threadRepository) GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Thread, error) {
	var thread models.Thread
	err := r.applyThreadDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Category").
		Where("slug = ?", slug).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &thread, nil
}

func (r *threadRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Thread, error) {
	var thread models.Thread
	err := r.applyThreadDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Category").
		First(&thread, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &thread, nil
}

// ListByCategory returns one page of threads in a category plus the total
// count for pagination. Pinned threads always sort first.
func (r *threadRepository) ListByCategory(ctx context.Context, categoryID uint, sort string, limit, offset int, currentUserID uint) ([]*models.Thread, int64, error) {
	defer observability.TrackQuery("list", "threads")()

	var total int64
	countQuery := readDB(r.db).WithContext(ctx).
		Model(&models.Thread{}).
		Where("category_id = ?", categoryID)
	if sort == SortUnanswered {
		countQuery = countQuery.Where(
			"(SELECT COUNT(*) FROM posts WHERE posts.thread_id = threads.id AND posts.deleted_at IS NULL) = 0")
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var threads []*models.Thread
	base := r.applyThreadDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Where("category_id = ?", categoryID)
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return threads, total, nil
}

func (r *threadRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Thread, error) {
	var threads []*models.Thread
	err := r.applyThreadDetails(readDB(r.db).WithContext(ctx), 0).
		Preload("Category").
		Where("author_id = ?", authorID).
		Order("threads.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return threads, nil
}

func (r *threadRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Thread, error) {
	defer observability.TrackQuery("search", "threads")()

	var threads []*models.Thread
	like := "%" + strings.ToLower(query) + "%"
	err := r.applyThreadDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Category").
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like).
		Order("threads.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return threads, nil
}

// applySort appends the ORDER BY (and optional WHERE) clause for the requested
// sort type. reply_count and reaction_count are SELECT aliases from
// applyThreadDetails, referenced in ORDER BY within the same query level.
func (r *threadRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortPopular:
		return db.Order("is_pinned DESC, view_count DESC, threads.created_at DESC")
	case SortReplies:
		return db.Order("is_pinned DESC, reply_count DESC, threads.created_at DESC")
	case SortUnanswered:
		return db.
			Where("(SELECT COUNT(*) FROM posts WHERE posts.thread_id = threads.id AND posts.deleted_at IS NULL) = 0").
			Order("is_pinned DESC, threads.created_at DESC")
	default: // "latest" and anything unrecognized
		return db.Order("is_pinned DESC, threads.created_at DESC")
	}
}

// applyThreadDetails adds subqueries to fetch counts and reacted status in a single query.
func (r *threadRepository) applyThreadDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "threads.*, " +
		"(SELECT COUNT(*) FROM posts WHERE posts.thread_id = threads.id AND posts.deleted_at IS NULL) as reply_count, " +
		"(SELECT COUNT(*) FROM reactions WHERE reactions.thread_id = threads.id) as reaction_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM reactions WHERE reactions.thread_id = threads.id AND reactions.user_id = ?) as user_reacted", currentUserID)
	}

	return db.Select(selectQuery + ", false as user_reacted")
}

func (r *threadRepository) Update(ctx context.Context, thread *models.Thread) error {
	if err := r.db.WithContext(ctx).Save(thread).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateThread(ctx, thread.Slug)
	return nil
}

func (r *threadRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Thread{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"thread_id": id})
	cache.BumpThreadListVersion(ctx)
	return nil
}

// IncrementViewCount bumps the view counter atomically in the database,
// so concurrent views never lose an increment.
func (r *threadRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *threadRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return r.setFlag(ctx, id, "is_pinned", pinned)
}

func (r *threadRepository) SetLocked(ctx context.Context, id uint, locked bool) error {
	return r.setFlag(ctx, id, "is_locked", locked)
}

func (r *threadRepository) setFlag(ctx context.Context, id uint, column string, value bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Thread", id)
	}
	cache.BumpThreadListVersion(ctx)
	return nil
}
