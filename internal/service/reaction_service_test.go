package service

import (
	"context"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	toggleThreadFn   func(context.Context, uint, uint) (bool, error)
	togglePostFn     func(context.Context, uint, uint) (bool, error)
	countForThreadFn func(context.Context, uint) (int64, error)
	countForPostFn   func(context.Context, uint) (int64, error)
}

func (s *reactionRepoStub) ToggleThread(ctx context.Context, userID, threadID uint) (bool, error) {
	return s.toggleThreadFn(ctx, userID, threadID)
}
func (s *reactionRepoStub) TogglePost(ctx context.Context, userID, postID uint) (bool, error) {
	return s.togglePostFn(ctx, userID, postID)
}
func (s *reactionRepoStub) CountForThread(ctx context.Context, threadID uint) (int64, error) {
	return s.countForThreadFn(ctx, threadID)
}
func (s *reactionRepoStub) CountForPost(ctx context.Context, postID uint) (int64, error) {
	return s.countForPostFn(ctx, postID)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		toggleThreadFn:   func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		togglePostFn:     func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		countForThreadFn: func(_ context.Context, _ uint) (int64, error) { return 1, nil },
		countForPostFn:   func(_ context.Context, _ uint) (int64, error) { return 1, nil },
	}
}

func TestReactionService_ToggleThreadReaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("toggle on returns reacted with count", func(t *testing.T) {
		t.Parallel()
		reactionRepo := noopReactionRepo()
		reactionRepo.countForThreadFn = func(_ context.Context, _ uint) (int64, error) { return 7, nil }
		svc := NewReactionService(reactionRepo, noopThreadRepo(), noopPostRepo())

		result, err := svc.ToggleThreadReaction(ctx, 1, 5)
		require.NoError(t, err)
		assert.True(t, result.Reacted)
		assert.Equal(t, int64(7), result.Count)
	})

	t.Run("toggle off returns not reacted", func(t *testing.T) {
		t.Parallel()
		reactionRepo := noopReactionRepo()
		reactionRepo.toggleThreadFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		reactionRepo.countForThreadFn = func(_ context.Context, _ uint) (int64, error) { return 0, nil }
		svc := NewReactionService(reactionRepo, noopThreadRepo(), noopPostRepo())

		result, err := svc.ToggleThreadReaction(ctx, 1, 5)
		require.NoError(t, err)
		assert.False(t, result.Reacted)
		assert.Equal(t, int64(0), result.Count)
	})

	t.Run("missing thread propagates repo error", func(t *testing.T) {
		t.Parallel()
		repoErr := models.NewNotFoundError("Thread", 5)
		threadRepo := noopThreadRepo()
		threadRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Thread, error) {
			return nil, repoErr
		}
		svc := NewReactionService(noopReactionRepo(), threadRepo, noopPostRepo())
		_, err := svc.ToggleThreadReaction(ctx, 1, 5)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestReactionService_TogglePostReaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("toggle reaches repo with target", func(t *testing.T) {
		t.Parallel()
		var gotUserID, gotPostID uint
		reactionRepo := noopReactionRepo()
		reactionRepo.togglePostFn = func(_ context.Context, userID, postID uint) (bool, error) {
			gotUserID, gotPostID = userID, postID
			return true, nil
		}
		svc := NewReactionService(reactionRepo, noopThreadRepo(), noopPostRepo())

		result, err := svc.TogglePostReaction(ctx, 2, 8)
		require.NoError(t, err)
		assert.True(t, result.Reacted)
		assert.Equal(t, uint(2), gotUserID)
		assert.Equal(t, uint(8), gotPostID)
	})

	t.Run("missing post propagates repo error", func(t *testing.T) {
		t.Parallel()
		repoErr := models.NewNotFoundError("Post", 8)
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return nil, repoErr
		}
		svc := NewReactionService(noopReactionRepo(), noopThreadRepo(), postRepo)
		_, err := svc.TogglePostReaction(ctx, 2, 8)
		assert.ErrorIs(t, err, repoErr)
	})
}
