package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/api/handlers"
	"github.com/CDurepos/scholarsphere-sub000/internal/auth"
	"github.com/CDurepos/scholarsphere-sub000/internal/cache/redis"
	"github.com/CDurepos/scholarsphere-sub000/internal/faculty"
	"github.com/CDurepos/scholarsphere-sub000/internal/ingestion"
	"github.com/CDurepos/scholarsphere-sub000/internal/institution"
	"github.com/CDurepos/scholarsphere-sub000/internal/keywords"
	"github.com/CDurepos/scholarsphere-sub000/internal/llm"
	"github.com/CDurepos/scholarsphere-sub000/internal/metrics"
	authmw "github.com/CDurepos/scholarsphere-sub000/internal/middleware/auth"
	"github.com/CDurepos/scholarsphere-sub000/internal/middleware/ratelimit"
	"github.com/CDurepos/scholarsphere-sub000/internal/middleware/security"
	"github.com/CDurepos/scholarsphere-sub000/internal/recommend"
	"github.com/CDurepos/scholarsphere-sub000/internal/search"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/config"
	appLogger "github.com/CDurepos/scholarsphere-sub000/pkg/logger"
	"github.com/CDurepos/scholarsphere-sub000/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ScholarSphere API server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err := sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without search cache", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.TimeoutSec,
		cfg.LLM.NumKeywords,
	)

	tokenManager := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpireMin, cfg.Auth.SignupTokenExpireMin)

	institutionService := institution.NewService(sqliteClient, cfg.Data.InstitutionsPath)
	facultyService := faculty.NewService(sqliteClient, institutionService)
	keywordService := keywords.NewService(sqliteClient, llmClient, cfg.RateLimit.GenerationsPerHour)
	recommendService := recommend.NewService(sqliteClient)
	searchService := search.NewService(sqliteClient)
	authService := auth.NewService(sqliteClient, tokenManager, cfg.Auth.RefreshTokenExpireDays, cfg.Auth.RememberMeExpireDays)
	processor := ingestion.NewProcessor(facultyService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(limiter.Middleware())
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		metrics.RequestDuration.WithLabelValues(c.Route().Path, c.Method()).Observe(time.Since(start).Seconds())
		return err
	})

	facultyHandler := handlers.NewFacultyHandler(facultyService, cacheClient)
	searchHandler := handlers.NewSearchHandler(searchService, cacheClient, time.Duration(cfg.Redis.CacheTTL)*time.Second)
	recommendHandler := handlers.NewRecommendHandler(recommendService)
	keywordHandler := handlers.NewKeywordHandler(keywordService, cacheClient)
	authHandler := handlers.NewAuthHandler(authService)
	institutionHandler := handlers.NewInstitutionHandler(institutionService)
	ingestHandler := handlers.NewIngestHandler(processor, cacheClient)

	api := app.Group("/api/v1")

	api.Post("/auth/signup-token", authHandler.IssueSignupToken)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.Refresh)
	api.Post("/auth/logout", authHandler.Logout)

	api.Post("/ingest", authmw.Middleware(authService), ingestHandler.IngestProfile)
	api.Post("/faculty", facultyHandler.CreateFaculty)
	api.Get("/faculty/:faculty_id", facultyHandler.GetFaculty)
	api.Put("/faculty/:faculty_id", authmw.Middleware(authService), authmw.RequireSelf(), facultyHandler.UpdateFaculty)

	api.Get("/recommend", recommendHandler.Recommend)
	api.Get("/faculty/:faculty_id/recommendations", recommendHandler.GetRecommendations)
	api.Post("/recommendations/refresh", recommendHandler.RefreshAffinity)

	api.Get("/faculty/:faculty_id/generate-keyword", authmw.Middleware(authService), keywordHandler.GenerateKeywords)

	api.Get("/search/faculty", searchHandler.SearchFaculty)
	api.Get("/keywords/autocomplete", searchHandler.AutocompleteKeywords)
	api.Get("/institutions", institutionHandler.ListInstitutions)

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
