package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/foomo/video-upload/internal/models"
	"github.com/foomo/video-upload/internal/storage"
	"go.uber.org/zap"
)

// ErrMissingFields is returned when any of title, description, video or thumbnail is absent
var ErrMissingFields = errors.New("missing required fields")

// uploadedAtLayout is ISO-8601 in UTC with millisecond precision
const uploadedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// PersistenceError reports a failed filesystem step of an upload
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Storage defines the interface for asset storage operations
type Storage interface {
	// EnsureDirs creates the asset directories if they are missing
	EnsureDirs() error

	// Create creates a new file under its final name and returns a WriteCloser
	Create(filename string, kind models.AssetKind) (io.WriteCloser, error)

	// URLPath returns the web-relative path of a stored file
	URLPath(filename string, kind models.AssetKind) string
}

// UploadRecorder defines the interface of the external store receiving upload records
type UploadRecorder interface {
	Record(ctx context.Context, record *models.UploadRecord) error
}

// UploadResult is the outcome of a successful upload
type UploadResult struct {
	Record    *models.UploadRecord
	Video     *models.StoredAsset
	Thumbnail *models.StoredAsset
}

// UploadService handles business logic for video uploads
type UploadService struct {
	storage  Storage
	recorder UploadRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewUploadService creates a new upload service
func NewUploadService(storage Storage, recorder UploadRecorder, logger *zap.Logger) *UploadService {
	return &UploadService{
		storage:  storage,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Upload validates the submission, writes the video and the thumbnail and records the upload.
//
// ErrMissingFields is returned before touching the filesystem when a part is absent.
// Filesystem failures are returned as *PersistenceError. A video written before a failing
// thumbnail write is left in place.
func (s *UploadService) Upload(ctx context.Context, sub *models.Submission) (*UploadResult, error) {
	if !isComplete(sub) {
		return nil, ErrMissingFields
	}

	if err := s.storage.EnsureDirs(); err != nil {
		return nil, &PersistenceError{Op: "create upload directories", Err: err}
	}

	now := s.now()

	video, err := s.store(sub.Video, models.AssetKindVideo, now)
	if err != nil {
		return nil, err
	}

	thumbnail, err := s.store(sub.Thumbnail, models.AssetKindThumbnail, now)
	if err != nil {
		return nil, err
	}

	record := &models.UploadRecord{
		Title:        sub.Title,
		Description:  sub.Description,
		VideoURL:     video.RelativePath,
		ThumbnailURL: thumbnail.RelativePath,
		UploadedAt:   s.now().UTC().Format(uploadedAtLayout),
		FileSize:     video.OriginalSize,
		VideoType:    video.MimeType,
	}

	s.logger.Info("upload data",
		zap.String("title", record.Title),
		zap.String("description", record.Description),
		zap.String("video_url", record.VideoURL),
		zap.String("thumbnail_url", record.ThumbnailURL),
		zap.String("uploaded_at", record.UploadedAt),
		zap.Int64("file_size", record.FileSize),
		zap.String("video_type", record.VideoType),
	)

	// The files are already saved, so a failing store must not turn the upload into an error
	if err := s.recorder.Record(ctx, record); err != nil {
		s.logger.Error("failed to record upload", zap.Error(err), zap.String("video_url", record.VideoURL))
	}

	return &UploadResult{
		Record:    record,
		Video:     video,
		Thumbnail: thumbnail,
	}, nil
}

// store writes one file part and describes the stored asset
func (s *UploadService) store(file *models.UploadFile, kind models.AssetKind, now time.Time) (*models.StoredAsset, error) {
	filename := storage.GenerateFileName(kind, storage.ExtensionOf(file.Filename), now)

	// Create SizeWriter to track bytes
	sizeWriter := storage.NewSizeWriter()
	teeReader := io.TeeReader(file.Reader, sizeWriter)

	writeCloser, err := s.storage.Create(filename, kind)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("create %s file", kind), Err: err}
	}

	if _, err := io.Copy(writeCloser, teeReader); err != nil {
		writeCloser.Close()
		return nil, &PersistenceError{Op: fmt.Sprintf("write %s file", kind), Err: err}
	}
	if err := writeCloser.Close(); err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("close %s file", kind), Err: err}
	}

	return &models.StoredAsset{
		GeneratedFilename: filename,
		RelativePath:      s.storage.URLPath(filename, kind),
		OriginalSize:      sizeWriter.Size(),
		MimeType:          file.ContentType,
		Kind:              kind,
	}, nil
}

// isComplete reports whether all four parts of the submission are present
func isComplete(sub *models.Submission) bool {
	if sub == nil {
		return false
	}
	return sub.Title != "" &&
		sub.Description != "" &&
		sub.Video != nil && sub.Video.Reader != nil &&
		sub.Thumbnail != nil && sub.Thumbnail.Reader != nil
}
