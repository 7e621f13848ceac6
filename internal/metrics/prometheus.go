package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholarsphere_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarsphere_search_total",
			Help: "Total faculty searches served",
		},
		[]string{"kind", "status"},
	)

	KeywordGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarsphere_keyword_generations_total",
			Help: "Keyword generation attempts by outcome",
		},
		[]string{"status"},
	)

	AffinityScanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholarsphere_affinity_scan_duration_seconds",
			Help:    "Affinity signal scan duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"signal"},
	)

	RecommendationsServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scholarsphere_recommendations_served_total",
			Help: "Total recommendation requests served",
		},
	)

	ProfilesIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarsphere_profiles_ingested_total",
			Help: "Scraped faculty profiles ingested by outcome",
		},
		[]string{"status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarsphere_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarsphere_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(KeywordGenerations)
	prometheus.MustRegister(AffinityScanDuration)
	prometheus.MustRegister(RecommendationsServed)
	prometheus.MustRegister(ProfilesIngested)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
