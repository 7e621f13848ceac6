package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/cache/redis"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

// invalidateSearchCache drops cached search responses after a write that
// changes what searches would return. A nil cache or a failed invalidation
// never fails the request.
func invalidateSearchCache(c *fiber.Ctx, cache *redis.Client) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateSearches(c.Context()); err != nil {
		logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}
