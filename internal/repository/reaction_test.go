package repository

import (
	"context"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository_ToggleThread(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "General", "general")
	thread := seedThread(t, db, user, category, "Some thread", "some-thread")

	added, err := repo.ToggleThread(ctx, user.ID, thread.ID)
	require.NoError(t, err)
	assert.True(t, added, "first toggle should add the reaction")

	count, err := repo.CountForThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	added, err = repo.ToggleThread(ctx, user.ID, thread.ID)
	require.NoError(t, err)
	assert.False(t, added, "second toggle should remove the reaction")

	count, err = repo.CountForThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestReactionRepository_TogglePost(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	category := seedCategory(t, db, "General", "general")
	thread := seedThread(t, db, user, category, "Some thread", "some-thread")
	post := seedPost(t, db, user, thread, "a reply worth liking")

	added, err := repo.TogglePost(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.TogglePost(ctx, other.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, added, "different users react independently")

	count, err := repo.CountForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestReactionRepository_RepeatedTogglesNeverDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "General", "general")
	thread := seedThread(t, db, user, category, "Some thread", "some-thread")

	// An odd number of toggles must leave exactly one row, never an
	// accumulating pile of duplicates.
	for i := 0; i < 5; i++ {
		_, err := repo.ToggleThread(ctx, user.ID, thread.ID)
		require.NoError(t, err)
	}

	var reactions []models.Reaction
	require.NoError(t, db.Find(&reactions).Error)
	assert.Len(t, reactions, 1)
}

func TestReactionRepository_ThreadAndPostReactionsIndependent(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, "General", "general")
	thread := seedThread(t, db, user, category, "Some thread", "some-thread")
	post := seedPost(t, db, user, thread, "a reply")

	_, err := repo.ToggleThread(ctx, user.ID, thread.ID)
	require.NoError(t, err)
	_, err = repo.TogglePost(ctx, user.ID, post.ID)
	require.NoError(t, err)

	var reactions []models.Reaction
	require.NoError(t, db.Find(&reactions).Error)
	assert.Len(t, reactions, 2)
}
