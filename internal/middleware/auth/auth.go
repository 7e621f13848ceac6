// Package auth provides the bearer-token middleware protecting
// profile-owner routes.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

// Verifier validates an access token and returns the faculty identifier it
// was issued for.
type Verifier interface {
	VerifyAccess(accessToken string) (string, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// authenticated faculty identifier in c.Locals("faculty_id").
func Middleware(verifier Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or malformed authorization header",
			})
		}

		facultyID, err := verifier.VerifyAccess(tokenString)
		if err != nil {
			logger.Debug("Access token rejected",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("faculty_id", facultyID)
		return c.Next()
	}
}

// RequireSelf ensures the authenticated faculty member matches the route's
// :faculty_id parameter. Must run after Middleware.
func RequireSelf() fiber.Handler {
	return func(c *fiber.Ctx) error {
		facultyID, _ := c.Locals("faculty_id").(string)
		if facultyID == "" || facultyID != c.Params("faculty_id") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Not authorized for this profile",
			})
		}
		return c.Next()
	}
}
