package service

import (
	"context"
	"strings"

	"forumhub/internal/models"
	"forumhub/internal/repository"
)

// AdvertisementService provides banner ad serving and admin management.
type AdvertisementService struct {
	adRepo repository.AdvertisementRepository
}

// AdvertisementInput is the input for creating or updating an ad.
type AdvertisementInput struct {
	Title       string
	ImageURL    string
	LinkURL     string
	Description string
	IsActive    bool
	SortOrder   int
}

// NewAdvertisementService returns a new AdvertisementService.
func NewAdvertisementService(adRepo repository.AdvertisementRepository) *AdvertisementService {
	return &AdvertisementService{adRepo: adRepo}
}

// ListActive returns the ads currently being served.
func (s *AdvertisementService) ListActive(ctx context.Context) ([]models.Advertisement, error) {
	return s.adRepo.ListActive(ctx)
}

// ListAll returns every ad, including inactive ones. Admin only.
func (s *AdvertisementService) ListAll(ctx context.Context) ([]models.Advertisement, error) {
	return s.adRepo.List(ctx)
}

func (s *AdvertisementService) CreateAdvertisement(ctx context.Context, in AdvertisementInput) (*models.Advertisement, error) {
	if err := validateAdInput(in); err != nil {
		return nil, err
	}

	ad := &models.Advertisement{
		Title:       strings.TrimSpace(in.Title),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		LinkURL:     strings.TrimSpace(in.LinkURL),
		Description: strings.TrimSpace(in.Description),
		IsActive:    in.IsActive,
		SortOrder:   in.SortOrder,
	}
	if err := s.adRepo.Create(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdvertisementService) UpdateAdvertisement(ctx context.Context, id uint, in AdvertisementInput) (*models.Advertisement, error) {
	ad, err := s.adRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateAdInput(in); err != nil {
		return nil, err
	}

	ad.Title = strings.TrimSpace(in.Title)
	ad.ImageURL = strings.TrimSpace(in.ImageURL)
	ad.LinkURL = strings.TrimSpace(in.LinkURL)
	ad.Description = strings.TrimSpace(in.Description)
	ad.IsActive = in.IsActive
	ad.SortOrder = in.SortOrder

	if err := s.adRepo.Update(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdvertisementService) DeleteAdvertisement(ctx context.Context, id uint) error {
	if _, err := s.adRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.adRepo.Delete(ctx, id)
}

func validateAdInput(in AdvertisementInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return models.NewValidationError("Advertisement title is required")
	}
	if link := strings.TrimSpace(in.LinkURL); link != "" &&
		!strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return models.NewValidationError("Link URL must be an absolute http(s) URL")
	}
	return nil
}
