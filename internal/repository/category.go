package repository

import (
	"context"
	"errors"

	"forumhub/internal/cache"
	"forumhub/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns all categories ordered for display, with thread counts
// computed in the same query.
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category

	err := cache.Aside(ctx, cache.CategoriesKey, &categories, cache.CategoriesTTL, func() error {
		if err := applyCategoryDetails(readDB(r.db).WithContext(ctx)).
			Order("sort_order ASC, name ASC").
			Find(&categories).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := applyCategoryDetails(readDB(r.db).WithContext(ctx)).
		Where("slug = ?", slug).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := readDB(r.db).WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A category with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A category with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	cache.BumpThreadListVersion(ctx)
	return nil
}

// applyCategoryDetails adds the thread count subquery to the SELECT.
func applyCategoryDetails(db *gorm.DB) *gorm.DB {
	return db.Select("categories.*, " +
		"(SELECT COUNT(*) FROM threads WHERE threads.category_id = categories.id AND threads.deleted_at IS NULL) as thread_count")
}
