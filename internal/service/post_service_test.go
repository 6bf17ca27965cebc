package service

import (
	"context"
	"strings"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint, uint) (*models.Post, error)
	listByThreadFn func(context.Context, uint, int, int, uint) ([]*models.Post, int64, error)
	listByAuthorFn func(context.Context, uint, int, int) ([]*models.Post, error)
	updateFn       func(context.Context, *models.Post) error
	deleteFn       func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) ListByThread(ctx context.Context, threadID uint, limit, offset int, currentUserID uint) ([]*models.Post, int64, error) {
	return s.listByThreadFn(ctx, threadID, limit, offset, currentUserID)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1}, nil
		},
		listByThreadFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		updateFn:       func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("content too short", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopThreadRepo(), staffNever)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, ThreadID: 1, Content: "hey"})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopThreadRepo(), staffNever)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, ThreadID: 1, Content: strings.Repeat("x", 50001)})
		assertValidationError(t, err)
	})

	t.Run("locked thread rejects members", func(t *testing.T) {
		t.Parallel()
		threadRepo := noopThreadRepo()
		threadRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Thread, error) {
			return &models.Thread{ID: id, IsLocked: true}, nil
		}
		svc := NewPostService(noopPostRepo(), threadRepo, staffNever)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, ThreadID: 1, Content: "a perfectly fine reply"})
		assertForbiddenError(t, err)
	})

	t.Run("locked thread allows staff", func(t *testing.T) {
		t.Parallel()
		threadRepo := noopThreadRepo()
		threadRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Thread, error) {
			return &models.Thread{ID: id, IsLocked: true}, nil
		}
		svc := NewPostService(noopPostRepo(), threadRepo, staffAlways)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, ThreadID: 1, Content: "a perfectly fine reply"})
		require.NoError(t, err)
	})

	t.Run("trims content and sets author", func(t *testing.T) {
		t.Parallel()
		var created *models.Post
		postRepo := noopPostRepo()
		postRepo.createFn = func(_ context.Context, post *models.Post) error {
			created = post
			return nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), staffNever)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 4, ThreadID: 9, Content: "  a perfectly fine reply  "})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "a perfectly fine reply", created.Content)
		assert.Equal(t, uint(4), created.AuthorID)
		assert.Equal(t, uint(9), created.ThreadID)
	})
}

func TestPostService_ListPosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotLimit, gotOffset int
	postRepo := noopPostRepo()
	postRepo.listByThreadFn = func(_ context.Context, _ uint, limit, offset int, _ uint) ([]*models.Post, int64, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Post{{ID: 1}}, 41, nil
	}
	svc := NewPostService(postRepo, noopThreadRepo(), staffNever)

	page, err := svc.ListPosts(ctx, 1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, PostsPerPage, gotLimit)
	assert.Equal(t, PostsPerPage, gotOffset)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(41), page.Total)
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("author edit marks edited", func(t *testing.T) {
		t.Parallel()
		var updated *models.Post
		postRepo := noopPostRepo()
		postRepo.updateFn = func(_ context.Context, post *models.Post) error {
			updated = post
			return nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), staffNever)

		post, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 3, Content: "revised reply body"})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, post.IsEdited)
		assert.Equal(t, "revised reply body", post.Content)
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopThreadRepo(), staffNever)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 2, PostID: 3, Content: "revised reply body"})
		assertForbiddenError(t, err)
	})

	t.Run("editing stays author-only even for staff", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopThreadRepo(), staffAlways)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 2, PostID: 3, Content: "revised reply body"})
		assertForbiddenError(t, err)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("author can delete", func(t *testing.T) {
		t.Parallel()
		var deletedID uint
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, ThreadID: 9}, nil
		}
		postRepo.deleteFn = func(_ context.Context, id uint) error {
			deletedID = id
			return nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), staffNever)
		post, err := svc.DeletePost(ctx, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, uint(3), deletedID)
		assert.Equal(t, uint(9), post.ThreadID, "deleted post is returned for cache invalidation")
	})

	t.Run("non-author non-staff is rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopThreadRepo(), staffNever)
		_, err := svc.DeletePost(ctx, 2, 3)
		assertForbiddenError(t, err)
	})

	t.Run("staff can delete others", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopThreadRepo(), staffAlways)
		_, err := svc.DeletePost(ctx, 2, 3)
		require.NoError(t, err)
	})
}
