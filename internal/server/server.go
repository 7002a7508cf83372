package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"catalog-admin/internal/config"
	"catalog-admin/internal/database"
	custommiddleware "catalog-admin/internal/middleware"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/service"
	"catalog-admin/internal/storage"
	"catalog-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers into a router.
// redisClient may be nil when rate limiting is disabled. Uploaded images are
// written to and served from fs.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client, fs afero.Fs) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	router.Get("/health", s.health)

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db.DB())
	productRepo := repository.NewProductRepository(db.DB())

	// Initialize services
	uploader := storage.NewDiskUploader(fs, cfg.Upload.Dir, cfg.Upload.PublicPrefix)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, uploader)

	// Initialize handlers
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	productHandler := transport.NewProductHandler(productService, logger, cfg.Upload.MaxBytes)

	router.Route("/api", func(r chi.Router) {
		if cfg.RateLimit.Enabled && redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
				KeyPrefix:         "ratelimit:api",
			}, logger))
		}

		categoryHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r)
	})

	mountUploads(router, fs, uploader.Dir(), cfg.Upload.PublicPrefix)

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// mountUploads serves the upload directory read-only at its public prefix.
func mountUploads(r chi.Router, fs afero.Fs, dir, publicPrefix string) {
	prefix := "/" + strings.Trim(publicPrefix, "/")
	files := afero.NewHttpFs(afero.NewReadOnlyFs(fs)).Dir(dir)
	handler := http.StripPrefix(prefix, http.FileServer(files))

	r.Get(prefix+"/*", handler.ServeHTTP)
}

type healthResponse struct {
	Status   string            `json:"status"`
	Database map[string]string `json:"database"`
	Redis    string            `json:"redis,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Database: s.db.Health(),
	}
	if resp.Database["status"] != "up" {
		resp.Status = "degraded"
	}

	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			s.logger.Warn("Redis health check failed", zap.Error(err))
			resp.Redis = "down"
		} else {
			resp.Redis = "up"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	custommiddleware.RespondWithJSON(w, status, resp)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
