package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shoutboxRepoStub is a stub for repository.ShoutboxRepository.
type shoutboxRepoStub struct {
	createFn        func(context.Context, *models.ShoutboxMessage) error
	recentFn        func(context.Context, string, int) ([]models.ShoutboxMessage, error)
	deleteForUserFn func(context.Context, uint) error
}

func (s *shoutboxRepoStub) Create(ctx context.Context, msg *models.ShoutboxMessage) error {
	return s.createFn(ctx, msg)
}
func (s *shoutboxRepoStub) Recent(ctx context.Context, channel string, limit int) ([]models.ShoutboxMessage, error) {
	return s.recentFn(ctx, channel, limit)
}
func (s *shoutboxRepoStub) DeleteForUser(ctx context.Context, userID uint) error {
	return s.deleteForUserFn(ctx, userID)
}

func noopShoutboxRepo() *shoutboxRepoStub {
	return &shoutboxRepoStub{
		createFn: func(_ context.Context, _ *models.ShoutboxMessage) error { return nil },
		recentFn: func(_ context.Context, _ string, _ int) ([]models.ShoutboxMessage, error) {
			return []models.ShoutboxMessage{}, nil
		},
		deleteForUserFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// schemaMissingErr mimics the driver error for an unprovisioned table.
var schemaMissingErr = errors.New(`pq: relation "shoutbox_messages" does not exist`)

func TestShoutboxService_GetFeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown channel", func(t *testing.T) {
		t.Parallel()
		svc := NewShoutboxService(noopShoutboxRepo(), noopUserRepo())
		_, err := svc.GetFeed(ctx, "lounge")
		assertValidationError(t, err)
	})

	t.Run("serves the recent window", func(t *testing.T) {
		t.Parallel()
		var gotChannel string
		var gotLimit int
		repo := noopShoutboxRepo()
		repo.recentFn = func(_ context.Context, channel string, limit int) ([]models.ShoutboxMessage, error) {
			gotChannel, gotLimit = channel, limit
			return []models.ShoutboxMessage{{ID: 1}}, nil
		}
		svc := NewShoutboxService(repo, noopUserRepo())

		feed, err := svc.GetFeed(ctx, models.ShoutboxChannelMarketplace)
		require.NoError(t, err)
		assert.True(t, feed.Available)
		assert.Equal(t, models.ShoutboxChannelMarketplace, gotChannel)
		assert.Equal(t, ShoutboxWindowSize, gotLimit)
		assert.Len(t, feed.Messages, 1)
	})

	t.Run("missing table surfaces as unavailable", func(t *testing.T) {
		t.Parallel()
		repo := noopShoutboxRepo()
		repo.recentFn = func(_ context.Context, _ string, _ int) ([]models.ShoutboxMessage, error) {
			return nil, schemaMissingErr
		}
		svc := NewShoutboxService(repo, noopUserRepo())

		feed, err := svc.GetFeed(ctx, models.ShoutboxChannelGeneral)
		require.NoError(t, err)
		assert.False(t, feed.Available)
		assert.NotNil(t, feed.Messages)
		assert.Empty(t, feed.Messages)
	})

	t.Run("other errors propagate", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("connection refused")
		repo := noopShoutboxRepo()
		repo.recentFn = func(_ context.Context, _ string, _ int) ([]models.ShoutboxMessage, error) {
			return nil, repoErr
		}
		svc := NewShoutboxService(repo, noopUserRepo())
		_, err := svc.GetFeed(ctx, models.ShoutboxChannelGeneral)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestShoutboxService_PostMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown channel", func(t *testing.T) {
		t.Parallel()
		svc := NewShoutboxService(noopShoutboxRepo(), noopUserRepo())
		_, err := svc.PostMessage(ctx, PostMessageInput{UserID: 1, Channel: "lounge", Content: "hi"})
		assertValidationError(t, err)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		svc := NewShoutboxService(noopShoutboxRepo(), noopUserRepo())
		_, err := svc.PostMessage(ctx, PostMessageInput{UserID: 1, Channel: models.ShoutboxChannelGeneral, Content: "   "})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		svc := NewShoutboxService(noopShoutboxRepo(), noopUserRepo())
		_, err := svc.PostMessage(ctx, PostMessageInput{
			UserID: 1, Channel: models.ShoutboxChannelGeneral, Content: strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})

	t.Run("banned users are rejected", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, ShoutboxBanned: true}, nil
		}
		svc := NewShoutboxService(noopShoutboxRepo(), userRepo)
		_, err := svc.PostMessage(ctx, PostMessageInput{
			UserID: 1, Channel: models.ShoutboxChannelGeneral, Content: "hello there",
		})
		assertForbiddenError(t, err)
	})

	t.Run("posts trimmed message", func(t *testing.T) {
		t.Parallel()
		var created *models.ShoutboxMessage
		repo := noopShoutboxRepo()
		repo.createFn = func(_ context.Context, msg *models.ShoutboxMessage) error {
			created = msg
			return nil
		}
		svc := NewShoutboxService(repo, noopUserRepo())

		msg, err := svc.PostMessage(ctx, PostMessageInput{
			UserID: 4, Channel: models.ShoutboxChannelMarketplace, Content: "  selling a spare keyboard  ",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "selling a spare keyboard", msg.Content)
		assert.Equal(t, models.ShoutboxChannelMarketplace, msg.Channel)
		assert.Equal(t, uint(4), msg.UserID)
	})

	t.Run("missing table rejects post", func(t *testing.T) {
		t.Parallel()
		repo := noopShoutboxRepo()
		repo.createFn = func(_ context.Context, _ *models.ShoutboxMessage) error {
			return schemaMissingErr
		}
		svc := NewShoutboxService(repo, noopUserRepo())
		_, err := svc.PostMessage(ctx, PostMessageInput{
			UserID: 1, Channel: models.ShoutboxChannelGeneral, Content: "hello there",
		})
		assertValidationError(t, err)
	})
}

func TestShoutboxService_PurgeUserMessages(t *testing.T) {
	t.Parallel()

	var purgedID uint
	repo := noopShoutboxRepo()
	repo.deleteForUserFn = func(_ context.Context, userID uint) error {
		purgedID = userID
		return nil
	}
	svc := NewShoutboxService(repo, noopUserRepo())

	require.NoError(t, svc.PurgeUserMessages(context.Background(), 9))
	assert.Equal(t, uint(9), purgedID)
}
