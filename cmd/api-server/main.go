package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"bookboo/database"
	"bookboo/internal/cache"
	"bookboo/internal/config"
	"bookboo/internal/httpapi/handler"
	"bookboo/internal/httpapi/middleware"
	"bookboo/internal/httpapi/repository"
	"bookboo/internal/httpapi/service"
	"bookboo/internal/recommend"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	recCache, err := cache.NewRecommendationCache(cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		logger.Warn("redis unavailable, recommendation caching disabled", "error", err)
		recCache, _ = cache.NewRecommendationCache("", "", 0)
	}
	defer recCache.Close()

	// Repositories
	bookRepo := repository.NewBookRepo(db)
	collectionRepo := repository.NewCollectionRepo(db)
	userRepo := repository.NewUserRepo(db)

	// Services
	bookSvc := service.NewBookService(bookRepo, cfg.PublicBaseURL)
	collectionSvc := service.NewCollectionService(collectionRepo, bookRepo)
	recommendSvc := service.NewRecommendationService(
		recommend.NewClient(cfg.RecommendationServiceURL), bookRepo, recCache)
	webhookSvc := service.NewWebhookService(cfg.WebhookSecret, cfg.WebhookTolerance, userRepo)

	verifier := middleware.NewVerifier(cfg.JWTSecret)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	api := r.Group("/api")
	handler.NewBookHandler(bookSvc).RegisterRoutes(api.Group("/book"))
	handler.NewCollectionHandler(collectionSvc, verifier).RegisterRoutes(api)
	handler.NewRecommendationHandler(recommendSvc).RegisterRoutes(api)
	handler.NewWebhookHandler(webhookSvc, logger).RegisterRoutes(api)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
