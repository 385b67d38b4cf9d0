package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/foomo/video-upload/docs"
	"github.com/foomo/video-upload/internal/config"
	"github.com/foomo/video-upload/internal/logger"
	"github.com/foomo/video-upload/internal/recorder"
	"github.com/foomo/video-upload/internal/server"
	"github.com/foomo/video-upload/internal/services"
	"github.com/foomo/video-upload/internal/storage"
	"go.uber.org/zap"
)

// @title Foomo Upload API
// @version 1.0
// @description API for uploading videos with their thumbnails

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Foomo Upload Service",
		zap.String("public_root", cfg.Upload.PublicRoot),
		zap.Bool("external_store", cfg.ExternalAPI.URL != ""),
	)

	// Initialize storage
	fileStorage := storage.NewLocalStorage(cfg.Upload.PublicRoot)
	if err := fileStorage.EnsureDirs(); err != nil {
		logger.Logger.Fatal("Failed to create upload directories", zap.Error(err))
	}

	// Initialize recorder of upload records
	uploadRecorder := recorder.New(cfg.ExternalAPI.URL, cfg.ExternalAPI.APIKey, cfg.ExternalAPI.Timeout, logger.Logger)

	// Initialize services
	uploadService := services.NewUploadService(fileStorage, uploadRecorder, logger.Logger)

	// Setup router
	r := server.NewRouter(cfg, logger.Logger, uploadService, fileStorage.UploadsDir())

	// Start server
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
		// No read or write timeout: large uploads run until the client is done
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
