package server

import (
	"forumhub/internal/cache"
	"forumhub/internal/featureflags"
	"forumhub/internal/models"
	"forumhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetActiveAdvertisements handles GET /api/advertisements
func (s *Server) GetActiveAdvertisements(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)
	if !s.flagEnabledDefaultOn(featureflags.FlagAdvertisements, userID) {
		return c.JSON(fiber.Map{"advertisements": []models.Advertisement{}})
	}

	var ads []models.Advertisement
	err := cache.Aside(c.Context(), cache.AdvertisementsKey, &ads, cache.AdsTTL, func() error {
		var loadErr error
		ads, loadErr = s.adService.ListActive(c.Context())
		return loadErr
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"advertisements": ads})
}

// AdminListAdvertisements handles GET /api/admin/advertisements
func (s *Server) AdminListAdvertisements(c *fiber.Ctx) error {
	ads, err := s.adService.ListAll(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"advertisements": ads})
}

// AdminCreateAdvertisement handles POST /api/admin/advertisements
func (s *Server) AdminCreateAdvertisement(c *fiber.Ctx) error {
	in, err := parseAdvertisementInput(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ad, serr := s.adService.CreateAdvertisement(c.Context(), in)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	cache.InvalidateAdvertisements(c.Context())

	return c.Status(fiber.StatusCreated).JSON(ad)
}

// AdminUpdateAdvertisement handles PUT /api/admin/advertisements/:id
func (s *Server) AdminUpdateAdvertisement(c *fiber.Ctx) error {
	adID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in, perr := parseAdvertisementInput(c)
	if perr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ad, serr := s.adService.UpdateAdvertisement(c.Context(), adID, in)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	cache.InvalidateAdvertisements(c.Context())

	return c.JSON(ad)
}

// AdminDeleteAdvertisement handles DELETE /api/admin/advertisements/:id
func (s *Server) AdminDeleteAdvertisement(c *fiber.Ctx) error {
	adID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if serr := s.adService.DeleteAdvertisement(c.Context(), adID); serr != nil {
		return respondServiceError(c, serr)
	}

	cache.InvalidateAdvertisements(c.Context())

	return c.JSON(fiber.Map{"message": "Advertisement deleted"})
}

func parseAdvertisementInput(c *fiber.Ctx) (service.AdvertisementInput, error) {
	var req struct {
		Title       string `json:"title"`
		ImageURL    string `json:"image_url"`
		LinkURL     string `json:"link_url"`
		Description string `json:"description"`
		IsActive    bool   `json:"is_active"`
		SortOrder   int    `json:"sort_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return service.AdvertisementInput{}, err
	}
	return service.AdvertisementInput{
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		Description: req.Description,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
	}, nil
}
