package service

import (
	"context"
	"strings"

	"forumhub/internal/models"
	"forumhub/internal/repository"
	"forumhub/internal/validation"
)

// CategoryService provides category listing and admin management logic.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// CategoryInput is the input for creating or updating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	Color       string
	SortOrder   int
	AdminOnly   bool
	GroupLabel  string
}

// NewCategoryService returns a new CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: strings.TrimSpace(in.Description),
		Icon:        in.Icon,
		Color:       in.Color,
		SortOrder:   in.SortOrder,
		AdminOnly:   in.AdminOnly,
		GroupLabel:  strings.TrimSpace(in.GroupLabel),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	if category.Slug == models.AnnouncementsSlug && in.Slug != models.AnnouncementsSlug {
		return nil, models.NewValidationError("The announcements category slug cannot be changed")
	}

	category.Name = strings.TrimSpace(in.Name)
	category.Slug = in.Slug
	category.Description = strings.TrimSpace(in.Description)
	category.Icon = in.Icon
	category.Color = in.Color
	category.SortOrder = in.SortOrder
	category.AdminOnly = in.AdminOnly
	category.GroupLabel = strings.TrimSpace(in.GroupLabel)

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. The announcements category is
// built in and cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category.Slug == models.AnnouncementsSlug {
		return models.NewValidationError("The announcements category cannot be deleted")
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *CategoryService) validateInput(in CategoryInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return models.NewValidationError("Category name is required")
	}
	if err := validation.ValidateCategorySlug(in.Slug); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}
