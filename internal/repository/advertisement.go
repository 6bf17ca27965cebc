package repository

import (
	"context"
	"errors"

	"forumhub/internal/cache"
	"forumhub/internal/models"

	"gorm.io/gorm"
)

// AdvertisementRepository defines persistence operations for banner ads.
type AdvertisementRepository interface {
	ListActive(ctx context.Context) ([]models.Advertisement, error)
	List(ctx context.Context) ([]models.Advertisement, error)
	GetByID(ctx context.Context, id uint) (*models.Advertisement, error)
	Create(ctx context.Context, ad *models.Advertisement) error
	Update(ctx context.Context, ad *models.Advertisement) error
	Delete(ctx context.Context, id uint) error
}

type advertisementRepository struct {
	db *gorm.DB
}

// NewAdvertisementRepository creates a new advertisement repository
func NewAdvertisementRepository(db *gorm.DB) AdvertisementRepository {
	return &advertisementRepository{db: db}
}

// ListActive returns the ads currently eligible for display, cached since
// they change rarely and render on every page.
func (r *advertisementRepository) ListActive(ctx context.Context) ([]models.Advertisement, error) {
	var ads []models.Advertisement

	err := cache.Aside(ctx, cache.AdvertisementsKey, &ads, cache.AdsTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).
			Where("is_active = ?", true).
			Order("sort_order ASC, created_at DESC").
			Find(&ads).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *advertisementRepository) List(ctx context.Context) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	if err := readDB(r.db).WithContext(ctx).
		Order("sort_order ASC, created_at DESC").
		Find(&ads).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ads, nil
}

func (r *advertisementRepository) GetByID(ctx context.Context, id uint) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := readDB(r.db).WithContext(ctx).First(&ad, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Advertisement", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &ad, nil
}

func (r *advertisementRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	if err := r.db.WithContext(ctx).Create(ad).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdvertisements(ctx)
	return nil
}

func (r *advertisementRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	if err := r.db.WithContext(ctx).Save(ad).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdvertisements(ctx)
	return nil
}

func (r *advertisementRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Advertisement{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdvertisements(ctx)
	return nil
}
