package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/metrics"
	"github.com/CDurepos/scholarsphere-sub000/internal/recommend"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

type RecommendHandler struct {
	service *recommend.Service
}

func NewRecommendHandler(service *recommend.Service) *RecommendHandler {
	return &RecommendHandler{service: service}
}

// GetRecommendations serves GET /faculty/:faculty_id/recommendations.
// Affinity scores are recomputed before every read.
func (h *RecommendHandler) GetRecommendations(c *fiber.Ctx) error {
	filters := recommend.Filters{
		ForFacultyID: c.Params("faculty_id"),
		FirstName:    c.Query("first_name"),
		LastName:     c.Query("last_name"),
		Department:   c.Query("department"),
		Institution:  c.Query("institution"),
	}

	recommendations, err := h.service.Recommend(c.Context(), filters)
	if err != nil {
		logger.Error("Failed to compute recommendations",
			zap.String("faculty_id", filters.ForFacultyID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute recommendations",
		})
	}

	metrics.RecommendationsServed.Inc()

	if recommendations == nil {
		recommendations = []models.Recommendation{}
	}
	return c.JSON(fiber.Map{"recommendations": recommendations})
}

// Recommend serves GET /recommend. All filters arrive as query parameters;
// unrecognized parameters are dropped. With no filters at all the whole
// ranked affinity table comes back, so callers should filter.
func (h *RecommendHandler) Recommend(c *fiber.Ctx) error {
	filters := recommend.Filters{
		ForFacultyID: c.Query("faculty_id"),
		FirstName:    c.Query("first_name"),
		LastName:     c.Query("last_name"),
		Department:   c.Query("department"),
		Institution:  c.Query("institution"),
	}

	recommendations, err := h.service.Recommend(c.Context(), filters)
	if err != nil {
		logger.Error("Failed to compute recommendations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute recommendations",
		})
	}

	metrics.RecommendationsServed.Inc()

	if recommendations == nil {
		recommendations = []models.Recommendation{}
	}
	return c.JSON(fiber.Map{"recommendations": recommendations})
}

// RefreshAffinity serves POST /recommendations/refresh, recomputing every
// affinity signal without reading results.
func (h *RecommendHandler) RefreshAffinity(c *fiber.Ctx) error {
	if err := h.service.Refresh(c.Context()); err != nil {
		logger.Error("Affinity refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Affinity refresh failed",
		})
	}

	return c.JSON(fiber.Map{"refreshed": true})
}
