package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/cache/redis"
	"github.com/CDurepos/scholarsphere-sub000/internal/keywords"
	"github.com/CDurepos/scholarsphere-sub000/internal/metrics"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

type KeywordHandler struct {
	service *keywords.Service
	cache   *redis.Client
}

func NewKeywordHandler(service *keywords.Service, cache *redis.Client) *KeywordHandler {
	return &KeywordHandler{service: service, cache: cache}
}

// GenerateKeywords serves GET /faculty/:faculty_id/generate-keyword. One
// call is one budgeted generation attempt; a failed attempt does not
// consume budget.
func (h *KeywordHandler) GenerateKeywords(c *fiber.Ctx) error {
	facultyID := c.Params("faculty_id")

	generated, err := h.service.Generate(c.Context(), facultyID)
	if err != nil {
		switch {
		case errors.Is(err, keywords.ErrRateLimited):
			metrics.KeywordGenerations.WithLabelValues("rate_limited").Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Keyword generation limit reached. Try again later.",
			})
		case errors.Is(err, keywords.ErrNotFound):
			metrics.KeywordGenerations.WithLabelValues("not_found").Inc()
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Faculty member not found",
			})
		case errors.Is(err, keywords.ErrNoBiography):
			metrics.KeywordGenerations.WithLabelValues("no_biography").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Faculty member has no biography to generate keywords from",
			})
		}
		metrics.KeywordGenerations.WithLabelValues("error").Inc()
		logger.Error("Keyword generation failed",
			zap.String("faculty_id", facultyID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Keyword generation failed",
		})
	}

	metrics.KeywordGenerations.WithLabelValues("success").Inc()
	invalidateSearchCache(c, h.cache)

	return c.JSON(fiber.Map{
		"faculty_id": facultyID,
		"keywords":   generated,
	})
}
