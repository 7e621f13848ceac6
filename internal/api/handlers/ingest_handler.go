package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/cache/redis"
	"github.com/CDurepos/scholarsphere-sub000/internal/ingestion"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

type IngestHandler struct {
	processor *ingestion.Processor
	cache     *redis.Client
}

func NewIngestHandler(processor *ingestion.Processor, cache *redis.Client) *IngestHandler {
	return &IngestHandler{processor: processor, cache: cache}
}

// IngestProfile serves POST /ingest, accepting one scraped faculty page.
func (h *IngestHandler) IngestProfile(c *fiber.Ctx) error {
	var req ingestion.ScrapedProfile
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.SourceURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "source_url is required",
		})
	}

	facultyID, err := h.processor.Process(c.Context(), req)
	if err != nil {
		if errors.Is(err, ingestion.ErrNoName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Scraped profile has no usable name",
			})
		}
		logger.Error("Profile ingestion failed",
			zap.String("source_url", req.SourceURL),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Profile ingestion failed",
		})
	}

	invalidateSearchCache(c, h.cache)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"faculty_id": facultyID,
	})
}
