package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/auth"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

type AuthHandler struct {
	service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// IssueSignupToken serves POST /auth/signup-token. Intended for the
// scraping operators' tooling, which hands the token to the faculty member
// claiming their profile.
func (h *AuthHandler) IssueSignupToken(c *fiber.Ctx) error {
	var req struct {
		FacultyID string `json:"faculty_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.FacultyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "faculty_id is required",
		})
	}

	token, err := h.service.IssueSignupToken(c.Context(), req.FacultyID)
	if err != nil {
		switch {
		case errors.Is(err, sqlite.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Faculty member not found",
			})
		case errors.Is(err, auth.ErrAlreadyClaimed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Profile already claimed",
			})
		}
		logger.Error("Failed to issue signup token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue signup token",
		})
	}

	return c.JSON(fiber.Map{"signup_token": token})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		FacultyID   string `json:"faculty_id"`
		SignupToken string `json:"signup_token"`
		Username    string `json:"username"`
		Password    string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := h.service.Register(c.Context(), req.FacultyID, req.SignupToken, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Username already taken",
			})
		case errors.Is(err, auth.ErrAlreadyClaimed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Profile already claimed",
			})
		case errors.Is(err, auth.ErrWeakPassword):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Password must be at least 8 characters",
			})
		}
		logger.Warn("Registration rejected", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Registration failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"registered": true})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username   string `json:"username"`
		Password   string `json:"password"`
		RememberMe bool   `json:"remember_me"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	pair, err := h.service.Login(c.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid username or password",
			})
		}
		logger.Error("Login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	return c.JSON(pair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token is required",
		})
	}

	pair, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidSession) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session is invalid or expired",
			})
		}
		logger.Error("Token refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Token refresh failed",
		})
	}

	return c.JSON(pair)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token is required",
		})
	}

	if err := h.service.Logout(c.Context(), req.RefreshToken); err != nil {
		logger.Error("Logout failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Logout failed",
		})
	}

	return c.JSON(fiber.Map{"logged_out": true})
}
