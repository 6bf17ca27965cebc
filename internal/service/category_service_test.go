package service

import (
	"context"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(noopCategoryRepo())
		_, err := svc.CreateCategory(ctx, CategoryInput{Slug: "general"})
		assertValidationError(t, err)
	})

	t.Run("invalid slug", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(noopCategoryRepo())
		_, err := svc.CreateCategory(ctx, CategoryInput{Name: "General", Slug: "Not A Slug!"})
		assertValidationError(t, err)
	})

	t.Run("reserved slug", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(noopCategoryRepo())
		_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Admin", Slug: "admin"})
		assertValidationError(t, err)
	})

	t.Run("creates with trimmed fields", func(t *testing.T) {
		t.Parallel()
		var created *models.Category
		repo := noopCategoryRepo()
		repo.createFn = func(_ context.Context, category *models.Category) error {
			created = category
			return nil
		}
		svc := NewCategoryService(repo)

		category, err := svc.CreateCategory(ctx, CategoryInput{
			Name: "  General Discussion  ", Slug: "general", Description: " everything else ",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "General Discussion", category.Name)
		assert.Equal(t, "everything else", category.Description)
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("announcements slug is immutable", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "Announcements", Slug: models.AnnouncementsSlug}, nil
		}
		svc := NewCategoryService(repo)

		_, err := svc.UpdateCategory(ctx, 1, CategoryInput{Name: "News", Slug: "news"})
		assertValidationError(t, err)
	})

	t.Run("updates fields", func(t *testing.T) {
		t.Parallel()
		var updated *models.Category
		repo := noopCategoryRepo()
		repo.updateFn = func(_ context.Context, category *models.Category) error {
			updated = category
			return nil
		}
		svc := NewCategoryService(repo)

		category, err := svc.UpdateCategory(ctx, 1, CategoryInput{
			Name: "Hardware", Slug: "hardware", SortOrder: 3, AdminOnly: true,
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Hardware", category.Name)
		assert.Equal(t, 3, category.SortOrder)
		assert.True(t, category.AdminOnly)
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("announcements cannot be deleted", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Slug: models.AnnouncementsSlug}, nil
		}
		svc := NewCategoryService(repo)
		assertValidationError(t, svc.DeleteCategory(ctx, 1))
	})

	t.Run("other categories delete", func(t *testing.T) {
		t.Parallel()
		var deletedID uint
		repo := noopCategoryRepo()
		repo.deleteFn = func(_ context.Context, id uint) error {
			deletedID = id
			return nil
		}
		svc := NewCategoryService(repo)
		require.NoError(t, svc.DeleteCategory(ctx, 4))
		assert.Equal(t, uint(4), deletedID)
	})
}
