package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"freshmind/internal/config"
	custommiddleware "freshmind/internal/middleware"
	"freshmind/internal/repository"
	"freshmind/internal/service"
	"freshmind/internal/store"
	"freshmind/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Rate limit for the chat endpoint; every turn costs a model call.
const (
	chatRequestsPerMinute = 10
	chatRateLimitWindow   = time.Minute
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, catalog *store.Catalog, ledger *store.Ledger) *Server {
	// Create router
	router := chi.NewRouter()

	isDevelopment := cfg.Server.Env != "production"

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, isDevelopment))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.SessionMiddleware(
		cfg.Session.Secret,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
		!isDevelopment,
		logger,
	))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	chatMessageRepo := repository.NewChatMessageRepository(db)
	profileRepo := repository.NewProfileRepository(redisClient, time.Duration(cfg.Session.ProfileTTL)*time.Hour)

	// Initialize services
	catalogService := service.NewCatalogService(catalog, ledger)
	profileService := service.NewProfileService(profileRepo, userRepo)
	insightsService := service.NewInsightsService(catalog, userRepo, purchaseRepo)
	chatbotService := service.NewChatbotService(
		cfg.Chatbot.BaseURL,
		cfg.Chatbot.DefaultModel,
		time.Duration(cfg.Chatbot.TimeoutSeconds)*time.Second,
		catalog,
		purchaseRepo,
		chatMessageRepo,
		logger,
	)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, profileService, logger)
	profileHandler := transport.NewProfileHandler(profileService, logger)
	insightsHandler := transport.NewInsightsHandler(insightsService, logger)
	chatbotHandler := transport.NewChatbotHandler(chatbotService, profileService, logger)

	// Rate limiter for the chat endpoint
	chatRateLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: chatRequestsPerMinute,
		Window:            chatRateLimitWindow,
		KeyPrefix:         "ratelimit:chat",
	}, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router)
	profileHandler.RegisterRoutes(router)
	insightsHandler.RegisterRoutes(router)
	chatbotHandler.RegisterRoutes(router, chatRateLimiter)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
