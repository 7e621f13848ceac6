package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/cache/redis"
	"github.com/CDurepos/scholarsphere-sub000/internal/faculty"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

type FacultyHandler struct {
	service *faculty.Service
	cache   *redis.Client
}

func NewFacultyHandler(service *faculty.Service, cache *redis.Client) *FacultyHandler {
	return &FacultyHandler{service: service, cache: cache}
}

func (h *FacultyHandler) CreateFaculty(c *fiber.Ctx) error {
	var req faculty.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	facultyID, err := h.service.Create(c.Context(), req)
	if err != nil {
		if errors.Is(err, faculty.ErrMissingName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "first_name is required",
			})
		}
		logger.Error("Failed to create faculty profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create faculty profile",
		})
	}

	invalidateSearchCache(c, h.cache)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"faculty_id": facultyID,
	})
}

func (h *FacultyHandler) GetFaculty(c *fiber.Ctx) error {
	facultyID := c.Params("faculty_id")

	profile, err := h.service.Get(c.Context(), facultyID)
	if err != nil {
		if errors.Is(err, faculty.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Faculty member not found",
			})
		}
		logger.Error("Failed to get faculty profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get faculty profile",
		})
	}

	return c.JSON(fiber.Map{
		"faculty_id":         profile.FacultyID,
		"first_name":         profile.FirstName,
		"last_name":          profile.LastName,
		"biography":          profile.Biography,
		"orcid":              profile.ORCID,
		"google_scholar_url": profile.GoogleScholarURL,
		"research_gate_url":  profile.ResearchGateURL,
		"emails":             profile.Emails,
		"phones":             profile.Phones,
		"departments":        profile.Departments,
		"titles":             profile.Titles,
		"institution_name":   profile.InstitutionName,
	})
}

func (h *FacultyHandler) UpdateFaculty(c *fiber.Ctx) error {
	facultyID := c.Params("faculty_id")

	var req faculty.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := h.service.Update(c.Context(), facultyID, req)
	if err != nil {
		switch {
		case errors.Is(err, faculty.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Faculty member not found",
			})
		case errors.Is(err, faculty.ErrMissingName):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "first_name is required",
			})
		}
		logger.Error("Failed to update faculty profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update faculty profile",
		})
	}

	invalidateSearchCache(c, h.cache)

	return c.JSON(fiber.Map{
		"faculty_id": facultyID,
		"updated":    true,
	})
}
