// Package recorder forwards completed upload records to an external store
package recorder

import (
	"context"
	"net/http"
	"time"

	"github.com/foomo/video-upload/internal/models"
	"go.uber.org/zap"
)

// UploadRecorder records a completed upload somewhere outside this service
type UploadRecorder interface {
	// Record hands the record over to the store.
	//
	// If the store rejects the record or cannot be reached, the error is returned.
	Record(ctx context.Context, record *models.UploadRecord) error
}

// logRecorder only logs the record; it is used when no external store is configured
type logRecorder struct {
	logger *zap.Logger
}

// NewLogRecorder creates a recorder writing records to the log
func NewLogRecorder(logger *zap.Logger) *logRecorder {
	return &logRecorder{logger: logger}
}

// Record logs the record at info level
func (r *logRecorder) Record(ctx context.Context, record *models.UploadRecord) error {
	r.logger.Info("upload recorded",
		zap.String("title", record.Title),
		zap.String("video_url", record.VideoURL),
		zap.String("thumbnail_url", record.ThumbnailURL),
		zap.String("uploaded_at", record.UploadedAt),
		zap.Int64("file_size", record.FileSize),
		zap.String("video_type", record.VideoType),
	)
	return nil
}

// New returns the HTTP recorder when an endpoint is configured and the log recorder otherwise
func New(endpoint, apiKey string, timeout time.Duration, logger *zap.Logger) UploadRecorder {
	if endpoint == "" {
		return NewLogRecorder(logger)
	}
	return NewHTTPRecorder(endpoint, apiKey, &http.Client{Timeout: timeout}, logger)
}
