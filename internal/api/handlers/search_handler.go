package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/cache/redis"
	"github.com/CDurepos/scholarsphere-sub000/internal/metrics"
	"github.com/CDurepos/scholarsphere-sub000/internal/search"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

type SearchHandler struct {
	service  *search.Service
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewSearchHandler accepts a nil cache; searches then always hit the
// database.
func NewSearchHandler(service *search.Service, cache *redis.Client, cacheTTL time.Duration) *SearchHandler {
	return &SearchHandler{service: service, cache: cache, cacheTTL: cacheTTL}
}

// SearchFaculty serves GET /search/faculty. The query parameter is a
// comma-separated term list matched against names, departments and
// institutions; recognized field parameters
// (first_name, last_name, department, institution) narrow instead; the
// keywords parameter is a comma-separated list that either drives a
// keyword-only search or reranks the other results by keyword overlap.
// Unrecognized parameters are dropped.
func (h *SearchHandler) SearchFaculty(c *fiber.Ctx) error {
	q := c.Query("query")
	keywords := c.Query("keywords")
	filters := sqlite.SearchFilters{
		FirstName:   c.Query("first_name"),
		LastName:    c.Query("last_name"),
		Department:  c.Query("department"),
		Institution: c.Query("institution"),
	}

	if q == "" && keywords == "" && filters == (sqlite.SearchFilters{}) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query, keywords or a filter field is required",
		})
	}

	cacheKey := redis.Key(q, keywords,
		filters.FirstName, filters.LastName, filters.Department, filters.Institution)
	if h.cache != nil {
		var cached []models.SearchResult
		hit, err := h.cache.GetSearch(c.Context(), cacheKey, &cached)
		if err != nil {
			logger.Warn("Search cache lookup failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("search").Inc()
			return c.JSON(fiber.Map{"results": cached, "cached": true})
		}
		metrics.CacheMisses.WithLabelValues("search").Inc()
	}

	var (
		results []models.SearchResult
		err     error
		kind    string
	)
	switch {
	case q != "":
		kind = "text"
		results, err = h.service.SearchFaculty(c.Context(), q)
	case filters != (sqlite.SearchFilters{}):
		kind = "filters"
		results, err = h.service.SearchByFilters(c.Context(), filters)
	default:
		kind = "keywords"
		results, err = h.service.SearchByKeywords(c.Context(), keywords)
	}
	if err == nil && kind != "keywords" && keywords != "" {
		kind = "reranked"
		results, err = h.service.Rerank(c.Context(), results, keywords)
	}
	if err != nil {
		metrics.SearchTotal.WithLabelValues(kind, "error").Inc()
		logger.Error("Faculty search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	metrics.SearchTotal.WithLabelValues(kind, "success").Inc()

	if h.cache != nil {
		if err := h.cache.SetSearch(c.Context(), cacheKey, results, h.cacheTTL); err != nil {
			logger.Warn("Failed to cache search response", zap.Error(err))
		}
	}

	if results == nil {
		results = []models.SearchResult{}
	}
	return c.JSON(fiber.Map{"results": results})
}

// AutocompleteKeywords serves GET /keywords/autocomplete.
func (h *SearchHandler) AutocompleteKeywords(c *fiber.Ctx) error {
	prefix := c.Query("prefix")
	limit := c.QueryInt("limit", 10)

	suggestions, err := h.service.Autocomplete(c.Context(), prefix, limit)
	if err != nil {
		logger.Error("Keyword autocomplete failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Autocomplete failed",
		})
	}

	if suggestions == nil {
		suggestions = []string{}
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}
