// Package security sets conservative browser-security headers on every
// response. The API serves JSON only, so the content-security policy locks
// everything to 'self' except the origins a deployment explicitly allows.
package security

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type HeadersConfig struct {
	AllowedOrigins []string
	IsDevelopment  bool
}

func HeadersMiddleware(cfg HeadersConfig) fiber.Handler {
	policy := contentSecurityPolicy(cfg.AllowedOrigins)

	return func(c *fiber.Ctx) error {
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", policy)

		// HSTS only outside development; local HTTP would otherwise get
		// pinned to HTTPS for a year.
		if !cfg.IsDevelopment {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		return c.Next()
	}
}

func contentSecurityPolicy(allowedOrigins []string) string {
	connectSrc := append([]string{"'self'"}, allowedOrigins...)

	directives := []string{
		"default-src 'self'",
		"img-src 'self' data: https:",
		"connect-src " + strings.Join(connectSrc, " "),
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}
