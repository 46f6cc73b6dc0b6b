package server

import (
	"fmt"
	"net/http"
	"time"

	"furnish-must/internal/config"
	"furnish-must/internal/database"
	custommiddleware "furnish-must/internal/middleware"
	"furnish-must/internal/repository"
	"furnish-must/internal/service"
	"furnish-must/internal/storage"
	"furnish-must/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, images storage.ImageStore) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, !cfg.IsProduction()))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"database": db.Health(r.Context()),
		})
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())
	orderRepo := repository.NewOrderRepository(db.DB())
	adminRepo := repository.NewAdminRepository(db.DB())

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, productRepo, logger)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	adminService := service.NewAdminService(adminRepo, cfg.Session.Secret, cfg.Session.TTL)

	// Rate limiting is optional: without Redis the write endpoints run
	// unthrottled.
	var redisClient *redis.Client
	var loginLimiter, orderLimiter func(http.Handler) http.Handler
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		loginLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 10,
			Window:            time.Minute,
			KeyPrefix:         "rl:login",
		}, logger)
		orderLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 30,
			Window:            time.Minute,
			KeyPrefix:         "rl:orders",
		}, logger)
	}

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, categoryService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	adminHandler := transport.NewAdminHandler(
		adminService,
		categoryService,
		catalogService,
		orderService,
		images,
		cfg.IsProduction(),
		logger,
	)

	// Create session middleware for the admin subtree
	sessionMiddleware := custommiddleware.SessionMiddleware(adminService, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router, orderLimiter)
	adminHandler.RegisterRoutes(router, sessionMiddleware, loginLimiter)

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

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
