package repository

import (
	"context"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, models.RoleMember, user.Role)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)

	// Unknown username is nil without error, for existence checks.
	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Email: "a@example.com", Password: "x"}))

	err := repo.Create(ctx, &models.User{Username: "alice", Email: "b@example.com", Password: "x"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserRepository_SetRole(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")

	require.NoError(t, repo.SetRole(ctx, user.ID, models.RoleModerator))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, got.Role)
	assert.True(t, got.IsStaff())

	err = repo.SetRole(ctx, 9999, models.RoleAdmin)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserRepository_SetShoutboxBan(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "spammer")

	require.NoError(t, repo.SetShoutboxBan(ctx, user.ID, true))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.ShoutboxBanned)
}
