package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/foomo/video-upload/internal/models"
	"github.com/foomo/video-upload/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	// maxMemory is the part of a multipart body kept in memory; the rest is spooled to temp files
	maxMemory = 32 << 20

	msgUploadSucceeded = "Video uploaded successfully"
	msgMissingFields   = "Missing required fields"
	msgUploadFailed    = "Failed to upload video"
	msgBodyTooLarge    = "request body too large"
)

// UploadService defines the interface for upload service operations
type UploadService interface {
	// Method Upload stores the video and thumbnail of a submission and records the upload.
	//
	// "submission" parameter holds the title, description and both files.
	//
	// services.ErrMissingFields is returned when any part is absent; other errors mean the files
	// could not be persisted.
	Upload(ctx context.Context, submission *models.Submission) (*services.UploadResult, error)
}

// UploadHandler handles upload-related HTTP requests
type UploadHandler struct {
	BaseHandler
	uploadService UploadService
	uploadsDir    string
}

// NewUploadHandler creates a new upload handler serving stored files from uploadsDir
func NewUploadHandler(uploadService UploadService, logger *zap.Logger, uploadsDir string) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		uploadService: uploadService,
		uploadsDir:    uploadsDir,
	}
}

// RegisterRoutes registers all upload handler routes
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/upload", h.Upload)
	r.Get("/uploads/*", h.ServeUpload)
}

// Upload handles POST /api/upload
// @Summary Upload a video
// @Description Save a video and its thumbnail to the content directory and return the upload record
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Video title"
// @Param description formData string true "Video description"
// @Param video formData file true "Video file"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse "Missing required fields"
// @Failure 413 {object} models.ErrorResponse "Request body too large"
// @Failure 500 {object} models.ErrorResponse "Failed to upload video"
// @Router /api/upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.Logger.Info("upload body too large", zap.Int64("limit", maxBytesErr.Limit))
			h.RespondError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		h.Logger.Error("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, msgUploadFailed)
		return
	}
	defer r.MultipartForm.RemoveAll()

	video, err := formFile(r, "video")
	if err != nil {
		h.Logger.Error("failed to open video part", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, msgUploadFailed)
		return
	}
	if video != nil {
		defer video.Close()
	}

	thumbnail, err := formFile(r, "thumbnail")
	if err != nil {
		h.Logger.Error("failed to open thumbnail part", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, msgUploadFailed)
		return
	}
	if thumbnail != nil {
		defer thumbnail.Close()
	}

	submission := &models.Submission{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Video:       video.uploadFile(),
		Thumbnail:   thumbnail.uploadFile(),
	}

	result, err := h.uploadService.Upload(r.Context(), submission)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			h.Logger.Info("upload rejected", zap.Error(err))
			h.RespondError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		h.Logger.Error("failed to upload video", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, msgUploadFailed)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.UploadResponse{
		Success: true,
		Message: msgUploadSucceeded,
		Data:    result.Record,
	})
}

// ServeUpload handles GET /uploads/*
// @Summary Download a stored file
// @Description Serve a stored video or thumbnail as a static asset. Range requests are supported.
// @Tags upload
// @Produce application/octet-stream
// @Param path path string true "videos/<name> or thumbnails/<name>"
// @Success 200 "File content"
// @Success 206 "Partial file content (for range requests)"
// @Failure 404 "File not found"
// @Router /uploads/{path} [get]
func (h *UploadHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	// Directory listings are not exposed
	if name == "" || strings.HasSuffix(name, "/") {
		http.NotFound(w, r)
		return
	}
	http.StripPrefix("/uploads", http.FileServer(http.Dir(h.uploadsDir))).ServeHTTP(w, r)
}

// filePart is an opened multipart file
type filePart struct {
	io.ReadCloser
	filename    string
	contentType string
	size        int64
}

// uploadFile converts the part to a submission file; a nil part stays nil
func (p *filePart) uploadFile() *models.UploadFile {
	if p == nil {
		return nil
	}
	return &models.UploadFile{
		Filename:    p.filename,
		ContentType: p.contentType,
		Size:        p.size,
		Reader:      p.ReadCloser,
	}
}

// formFile opens the named file part, returning nil without error when it is absent
func formFile(r *http.Request, field string) (*filePart, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &filePart{
		ReadCloser:  file,
		filename:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
		size:        header.Size,
	}, nil
}
