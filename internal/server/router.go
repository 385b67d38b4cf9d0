// Package server assembles the HTTP router of the upload service
package server

import (
	"net/http"
	"time"

	"github.com/foomo/video-upload/internal/config"
	"github.com/foomo/video-upload/internal/handlers"
	"github.com/foomo/video-upload/internal/middlewares"
	"github.com/foomo/video-upload/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// NewRouter builds the router with middleware, API routes, stored uploads and the form
func NewRouter(cfg *config.Config, logger *zap.Logger, uploadService handlers.UploadService, uploadsDir string) chi.Router {
	uploadHandler := handlers.NewUploadHandler(uploadService, logger, uploadsDir)
	healthHandler := handlers.NewHealthHandler(logger)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger))
	r.Use(middlewares.RecoveryMiddleware(logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	if cfg.Server.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
	}
	r.Use(middlewares.RequestSizeLimitMiddleware(cfg.Upload.MaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(cfg.Server.BaseURL+"/swagger/doc.json"),
	))

	healthHandler.RegisterRoutes(r)
	uploadHandler.RegisterRoutes(r)

	// Upload form
	r.Method(http.MethodGet, "/*", web.Handler())

	return r
}
