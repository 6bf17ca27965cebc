package service

import (
	"context"
	"strings"

	"forumhub/internal/models"
	"forumhub/internal/repository"
	"forumhub/internal/validation"
)

// PostsPerPage is the thread reply page size.
const PostsPerPage = 20

// PostService provides reply creation, editing and listing logic.
type PostService struct {
	postRepo   repository.PostRepository
	threadRepo repository.ThreadRepository
	isStaff    func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput is the input for posting a reply.
type CreatePostInput struct {
	UserID   uint
	ThreadID uint
	Content  string
}

// UpdatePostInput is the input for editing a reply.
type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

// PostPage is one page of replies within a thread.
type PostPage struct {
	Posts      []*models.Post `json:"posts"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int64          `json:"total"`
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	threadRepo repository.ThreadRepository,
	isStaff func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		threadRepo: threadRepo,
		isStaff:    isStaff,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	thread, err := s.threadRepo.GetByID(ctx, in.ThreadID, 0)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		staff, err := s.requireStaff(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, models.NewForbiddenError("This thread is locked")
		}
	}

	post := &models.Post{
		Content:  strings.TrimSpace(in.Content),
		AuthorID: in.UserID,
		ThreadID: in.ThreadID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns one page of replies in chronological order.
func (s *PostService) ListPosts(ctx context.Context, threadID uint, page int, currentUserID uint) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	posts, total, err := s.postRepo.ListByThread(ctx, threadID, PostsPerPage, (page-1)*PostsPerPage, currentUserID)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + PostsPerPage - 1) / PostsPerPage)
	if totalPages < 1 {
		totalPages = 1
	}

	return &PostPage{
		Posts:      posts,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// UpdatePost edits a reply. Editing is author-only; moderators remove
// bad content rather than rewriting it.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post.Content = strings.TrimSpace(in.Content)
	post.IsEdited = true
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a reply and returns it, so callers can invalidate
// caches keyed by the parent thread.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		staff, err := s.requireStaff(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, models.NewForbiddenError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) requireStaff(ctx context.Context, userID uint) (bool, error) {
	if s.isStaff == nil {
		return false, nil
	}
	return s.isStaff(ctx, userID)
}
