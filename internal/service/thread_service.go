// Package service provides application business logic (threads, posts, chat, users, etc.).
package service

import (
	"context"
	"strings"
	"time"

	"forumhub/internal/models"
	"forumhub/internal/observability"
	"forumhub/internal/repository"
	"forumhub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// ThreadsPerPage is the category listing page size.
const ThreadsPerPage = 10

// ThreadService provides thread listing, creation and moderation logic.
type ThreadService struct {
	threadRepo   repository.ThreadRepository
	categoryRepo repository.CategoryRepository
	isStaff      func(ctx context.Context, userID uint) (bool, error)
}

// CreateThreadInput is the input for creating a thread.
type CreateThreadInput struct {
	UserID       uint
	CategorySlug string
	Title        string
	Content      string
}

// UpdateThreadInput is the input for editing a thread.
type UpdateThreadInput struct {
	UserID   uint
	ThreadID uint
	Title    string
	Content  string
}

// ListThreadsInput is the input for a category page listing.
type ListThreadsInput struct {
	CategorySlug  string
	Sort          string
	Page          int
	CurrentUserID uint
}

// ThreadPage is one page of a category listing.
type ThreadPage struct {
	Threads    []*models.Thread `json:"threads"`
	Category   *models.Category `json:"category"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int64            `json:"total"`
}

// NewThreadService returns a new ThreadService.
func NewThreadService(
	threadRepo repository.ThreadRepository,
	categoryRepo repository.CategoryRepository,
	isStaff func(ctx context.Context, userID uint) (bool, error),
) *ThreadService {
	return &ThreadService{
		threadRepo:   threadRepo,
		categoryRepo: categoryRepo,
		isStaff:      isStaff,
	}
}

func (s *ThreadService) CreateThread(ctx context.Context, in CreateThreadInput) (*models.Thread, error) {
	span, ctx := observability.NewSpan(ctx, "thread.create")
	defer span.End()

	if err := validation.ValidateThreadTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateThreadContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
	if err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.String("forum.category", category.Slug))

	if category.AdminOnly || category.Slug == models.AnnouncementsSlug {
		staff, err := s.requireStaff(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, models.NewForbiddenError("Only staff can post in this category")
		}
	}

	thread := &models.Thread{
		Title:      strings.TrimSpace(in.Title),
		Slug:       threadSlug(in.Title, time.Now()),
		Content:    strings.TrimSpace(in.Content),
		AuthorID:   in.UserID,
		CategoryID: category.ID,
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		span.SetError(err)
		return nil, err
	}

	return s.threadRepo.GetByID(ctx, thread.ID, in.UserID)
}

// ListThreads returns one page of a category listing.
func (s *ThreadService) ListThreads(ctx context.Context, in ListThreadsInput) (*ThreadPage, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
	if err != nil {
		return nil, err
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * ThreadsPerPage

	threads, total, err := s.threadRepo.ListByCategory(ctx, category.ID, in.Sort, ThreadsPerPage, offset, in.CurrentUserID)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + ThreadsPerPage - 1) / ThreadsPerPage)
	if totalPages < 1 {
		totalPages = 1
	}

	return &ThreadPage{
		Threads:    threads,
		Category:   category,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// GetThread fetches a thread by slug and records the view.
func (s *ThreadService) GetThread(ctx context.Context, slug string, currentUserID uint) (*models.Thread, error) {
	thread, err := s.threadRepo.GetBySlug(ctx, slug, currentUserID)
	if err != nil {
		return nil, err
	}

	if err := s.threadRepo.IncrementViewCount(ctx, thread.ID); err == nil {
		thread.ViewCount++
		observability.ThreadViewsTotal.WithLabelValues(thread.Category.Slug).Inc()
	}

	return thread, nil
}

func (s *ThreadService) UpdateThread(ctx context.Context, in UpdateThreadInput) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, in.ThreadID, in.UserID)
	if err != nil {
		return nil, err
	}

	if thread.AuthorID != in.UserID {
		staff, err := s.requireStaff(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, models.NewForbiddenError("You can only edit your own threads")
		}
	}
	if thread.IsLocked && thread.AuthorID == in.UserID {
		staff, err := s.requireStaff(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, models.NewForbiddenError("This thread is locked")
		}
	}

	if err := validation.ValidateThreadTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateThreadContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	thread.Title = strings.TrimSpace(in.Title)
	thread.Content = strings.TrimSpace(in.Content)
	if err := s.threadRepo.Update(ctx, thread); err != nil {
		return nil, err
	}

	return s.threadRepo.GetByID(ctx, thread.ID, in.UserID)
}

func (s *ThreadService) DeleteThread(ctx context.Context, userID, threadID uint) error {
	thread, err := s.threadRepo.GetByID(ctx, threadID, 0)
	if err != nil {
		return err
	}

	if thread.AuthorID != userID {
		staff, err := s.requireStaff(ctx, userID)
		if err != nil {
			return err
		}
		if !staff {
			return models.NewForbiddenError("You can only delete your own threads")
		}
	}

	return s.threadRepo.Delete(ctx, threadID)
}

// SetPinned pins or unpins a thread. Staff only.
func (s *ThreadService) SetPinned(ctx context.Context, userID, threadID uint, pinned bool) error {
	staff, err := s.requireStaff(ctx, userID)
	if err != nil {
		return err
	}
	if !staff {
		return models.NewForbiddenError("Only staff can pin threads")
	}
	return s.threadRepo.SetPinned(ctx, threadID, pinned)
}

// SetLocked locks or unlocks a thread. Staff only.
func (s *ThreadService) SetLocked(ctx context.Context, userID, threadID uint, locked bool) error {
	staff, err := s.requireStaff(ctx, userID)
	if err != nil {
		return err
	}
	if !staff {
		return models.NewForbiddenError("Only staff can lock threads")
	}
	return s.threadRepo.SetLocked(ctx, threadID, locked)
}

// Search finds threads matching the query across titles and bodies.
func (s *ThreadService) Search(ctx context.Context, query string, page int, currentUserID uint) ([]*models.Thread, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, models.NewValidationError("Search query must be at least 2 characters")
	}
	if page < 1 {
		page = 1
	}
	return s.threadRepo.Search(ctx, query, ThreadsPerPage, (page-1)*ThreadsPerPage, currentUserID)
}

// Announcements lists the newest threads in the reserved announcements category.
func (s *ThreadService) Announcements(ctx context.Context, limit int) ([]*models.Thread, error) {
	if limit <= 0 || limit > ThreadsPerPage {
		limit = ThreadsPerPage
	}
	category, err := s.categoryRepo.GetBySlug(ctx, models.AnnouncementsSlug)
	if err != nil {
		return nil, err
	}
	threads, _, err := s.threadRepo.ListByCategory(ctx, category.ID, repository.SortLatest, limit, 0, 0)
	return threads, err
}

func (s *ThreadService) requireStaff(ctx context.Context, userID uint) (bool, error) {
	if s.isStaff == nil {
		return false, nil
	}
	return s.isStaff(ctx, userID)
}
