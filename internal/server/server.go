package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"cosme-review/internal/config"
	"cosme-review/internal/events"
	custommiddleware "cosme-review/internal/middleware"
	"cosme-review/internal/repository"
	"cosme-review/internal/service"
	"cosme-review/internal/storage"
	"cosme-review/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options carries the optional server dependencies. Any of them may be nil;
// the corresponding feature is then disabled.
type Options struct {
	RedisClient *redis.Client
	ImageStore  storage.ImageStore
	Publisher   events.Publisher
}

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	db        *sql.DB
	publisher events.Publisher
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, opts Options) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))

	if opts.RedisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(opts.RedisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 100,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	productRepo := repository.NewProductRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	rankingRepo := repository.NewRankingRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret)
	profileService := service.NewProfileService(profileRepo)
	catalogService := service.NewCatalogService(productRepo, opts.Publisher, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, profileRepo, favoriteRepo, opts.Publisher, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, reviewRepo)
	rankingService := service.NewRankingService(rankingRepo)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	optionalAuth := custommiddleware.OptionalAuthMiddleware(cfg.JWT.Secret, logger)
	requireStaff := custommiddleware.RequireStaff(logger)

	// Initialize handlers and register routes
	transport.NewUserHandler(userService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewProfileHandler(profileService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewProductHandler(catalogService, logger).RegisterRoutes(router, authMiddleware, requireStaff)
	transport.NewReviewHandler(reviewService, logger).RegisterRoutes(router, authMiddleware, optionalAuth)
	transport.NewFavoriteHandler(favoriteService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewRankingHandler(rankingService, logger).RegisterRoutes(router)
	transport.NewHomeHandler(rankingService, reviewService, logger).RegisterRoutes(router, optionalAuth)

	if opts.ImageStore != nil {
		transport.NewUploadHandler(opts.ImageStore, logger).RegisterRoutes(router, authMiddleware)
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		db:        db,
		publisher: opts.Publisher,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
