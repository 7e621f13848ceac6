package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/institution"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

type InstitutionHandler struct {
	service *institution.Service
}

func NewInstitutionHandler(service *institution.Service) *InstitutionHandler {
	return &InstitutionHandler{service: service}
}

// ListInstitutions serves GET /institutions, backing the scraper's
// institution picker with the bundled reference list.
func (h *InstitutionHandler) ListInstitutions(c *fiber.Ctx) error {
	names, err := h.service.KnownNames()
	if err != nil {
		logger.Error("Failed to list institutions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list institutions",
		})
	}

	if names == nil {
		names = []string{}
	}
	return c.JSON(fiber.Map{"institutions": names})
}
