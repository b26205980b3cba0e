package main

import (
	"fmt"
	"time"

	"shortspan/internal/config"
	"shortspan/internal/controllers"
	"shortspan/internal/database"
	"shortspan/internal/jwt"
	"shortspan/internal/logger"
	"shortspan/internal/middleware"
	"shortspan/internal/repository"
	"shortspan/internal/service"
	"shortspan/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	// Select the store backend. This is a one-time startup decision; a
	// failing backend is fatal here rather than silently degraded later.
	kv, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to initialize store")
	}
	log.Info().Str("backend", cfg.StoreBackend).Msg("store ready")

	// Connect to the admin accounts database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize repositories and services
	adminRepo := repository.NewAdminRepository(db)

	jwtService := jwt.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTL)*time.Hour,
	)

	linkService := service.NewLinkService(kv, log)
	adminService := service.NewAdminService(kv, log)
	authService := service.NewAuthService(adminRepo, jwtService)

	// Initialize controllers
	shortenerController := controllers.NewShortenerController(linkService, log, cfg.BaseURL, cfg.FrontendURL)
	adminController := controllers.NewAdminController(adminService, log)
	authController := controllers.NewAuthController(authService)
	qrcodeController := controllers.NewQRCodeController(cfg.BaseURL)
	systemController := controllers.NewSystemController(kv, cfg.StoreBackend)

	// Initialize rate limiters
	generalRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	authRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst)
	shortenRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitShortenRPS), cfg.RateLimitShortenBurst)
	redirectRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRedirectRPS), cfg.RateLimitRedirectBurst)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	// Health check endpoint (no rate limiting)
	router.GET("/health", systemController.Health)

	// Redirect endpoint with lenient rate limiting
	router.GET("/go/:id", redirectRateLimiter.LimitMiddleware(), shortenerController.Redirect)

	// API v1 routes group with general rate limiting
	api := router.Group("/api/v1")
	api.Use(generalRateLimiter.LimitMiddleware())
	{
		// Public shortening with stricter rate limiting
		api.POST("/shorten", shortenRateLimiter.LimitMiddleware(), shortenerController.CreateShortLink)

		// QR code rendering for an existing short link
		api.GET("/qrcode/:id", qrcodeController.GenerateQRCode)

		// Store connectivity status
		api.GET("/store/status", systemController.StoreStatus)

		// Auth routes with stricter rate limiting
		auth := api.Group("/auth")
		auth.Use(authRateLimiter.LimitMiddleware())
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
		}

		// Admin console routes - require a valid session token
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		{
			admin.GET("/urls", adminController.GetURLs)
			admin.DELETE("/urls", adminController.DeleteURL)
			admin.GET("/metrics", adminController.GetMetrics)
		}
	}

	log.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newStore builds the configured store backend
func newStore(cfg *config.Config) (store.KVStore, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendRedis:
		return store.NewRedisStore(cfg.RedisURL)
	case config.StoreBackendMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
