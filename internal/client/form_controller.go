// Package client implements the upload form: field state, file selection with previews,
// and a single multipart submission to POST /api/upload.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"

	"github.com/foomo/video-upload/internal/models"
	"go.uber.org/zap"
)

// Status messages shown to the user
const (
	MsgSelectFiles   = "Please select both video and thumbnail files."
	MsgUploadSuccess = "Video uploaded successfully!"
	MsgUploadFailed  = "Upload failed."
	MsgNetworkError  = "An error occurred during upload."
)

var (
	// ErrFilesNotSelected is returned by Submit when the video or the thumbnail is missing
	ErrFilesNotSelected = errors.New("both video and thumbnail files must be selected")
	// ErrSubmissionInProgress is returned by Submit while a previous submission is running
	ErrSubmissionInProgress = errors.New("submission already in progress")
	// ErrUnknownField is returned by UpdateField for names other than title and description
	ErrUnknownField = errors.New("unknown form field")
)

// UploadError is returned when the server answered with a non-2xx status
type UploadError struct {
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload rejected with status %d: %s", e.StatusCode, e.Message)
}

// NetworkError is returned when the request did not complete or the response was unreadable
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "upload request failed: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusKind distinguishes success and error banners
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the outcome shown after a submission attempt
type Status struct {
	Kind    StatusKind
	Message string
}

// State is a snapshot of the form
type State struct {
	Title            string
	Description      string
	Video            *File
	Thumbnail        *File
	VideoPreview     string
	ThumbnailPreview string
	Busy             bool
	Status           *Status
}

// FormController owns the state of one upload form instance
type FormController struct {
	mu         sync.Mutex
	endpoint   string
	httpClient *http.Client
	previews   *PreviewRegistry
	logger     *zap.Logger

	title            string
	description      string
	video            *File
	thumbnail        *File
	videoPreview     string
	thumbnailPreview string
	busy             bool
	status           *Status
}

// NewFormController creates a form posting to endpoint, e.g. "http://localhost:3000/api/upload"
func NewFormController(endpoint string, httpClient *http.Client, logger *zap.Logger) *FormController {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FormController{
		endpoint:   endpoint,
		httpClient: httpClient,
		previews:   NewPreviewRegistry(),
		logger:     logger,
	}
}

// Previews returns the registry backing the preview URLs of this form
func (c *FormController) Previews() *PreviewRegistry {
	return c.previews
}

// UpdateField sets the title or the description
func (c *FormController) UpdateField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "title":
		c.title = value
	case "description":
		c.description = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// SelectFile stores the file for the given kind and returns its new preview URL.
// The preview URL previously issued for that kind is revoked.
func (c *FormController) SelectFile(kind models.AssetKind, f *File) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown file kind %q", kind)
	}
	if f == nil {
		return "", errors.New("no file selected")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	url := c.previews.Create(f)
	switch kind {
	case models.AssetKindVideo:
		c.previews.Revoke(c.videoPreview)
		c.video, c.videoPreview = f, url
	case models.AssetKindThumbnail:
		c.previews.Revoke(c.thumbnailPreview)
		c.thumbnail, c.thumbnailPreview = f, url
	}
	return url, nil
}

// State returns a snapshot of the form
func (c *FormController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Title:            c.title,
		Description:      c.description,
		Video:            c.video,
		Thumbnail:        c.thumbnail,
		VideoPreview:     c.videoPreview,
		ThumbnailPreview: c.thumbnailPreview,
		Busy:             c.busy,
		Status:           c.status,
	}
}

// Submit sends the form as one multipart request.
//
// On a 2xx response the form is reset and the server's record is returned. On any other outcome
// the fields and files are kept so the user can retry, and the status carries the error message.
func (c *FormController) Submit(ctx context.Context) (*models.UploadRecord, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	if c.video == nil || c.thumbnail == nil {
		c.status = &Status{Kind: StatusError, Message: MsgSelectFiles}
		c.mu.Unlock()
		return nil, ErrFilesNotSelected
	}
	c.busy = true
	c.status = nil
	title, description, video, thumbnail := c.title, c.description, c.video, c.thumbnail
	c.mu.Unlock()

	record, err := c.send(ctx, title, description, video, thumbnail)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if err != nil {
		var uploadErr *UploadError
		if errors.As(err, &uploadErr) {
			c.status = &Status{Kind: StatusError, Message: uploadErr.Message}
		} else {
			c.status = &Status{Kind: StatusError, Message: MsgNetworkError}
		}
		c.logger.Warn("upload failed", zap.Error(err))
		return nil, err
	}

	c.reset()
	c.status = &Status{Kind: StatusSuccess, Message: MsgUploadSuccess}
	c.logger.Info("upload succeeded", zap.String("video_url", record.VideoURL))
	return record, nil
}

// Close releases every outstanding preview URL of the form
func (c *FormController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previews.Revoke(c.videoPreview)
	c.previews.Revoke(c.thumbnailPreview)
	c.videoPreview, c.thumbnailPreview = "", ""
}

// reset clears fields, files and previews; callers hold c.mu
func (c *FormController) reset() {
	c.previews.Revoke(c.videoPreview)
	c.previews.Revoke(c.thumbnailPreview)
	c.title, c.description = "", ""
	c.video, c.thumbnail = nil, nil
	c.videoPreview, c.thumbnailPreview = "", ""
}

// uploadReply covers both the success and the error body of the upload endpoint
type uploadReply struct {
	models.UploadResponse
	Error string `json:"error"`
}

// send performs the request and interprets the response
func (c *FormController) send(ctx context.Context, title, description string, video, thumbnail *File) (*models.UploadRecord, error) {
	body, contentType, err := encodeForm(title, description, video, thumbnail)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("submitting upload",
		zap.String("endpoint", c.endpoint),
		zap.Int64("video_size", video.Size()),
		zap.Int64("thumbnail_size", thumbnail.Size()),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var reply uploadReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := reply.Error
		if message == "" {
			message = MsgUploadFailed
		}
		return nil, &UploadError{StatusCode: resp.StatusCode, Message: message}
	}

	if reply.Data == nil {
		return &models.UploadRecord{}, nil
	}
	return reply.Data, nil
}

// encodeForm builds the multipart body carrying the four form parts
func encodeForm(title, description string, video, thumbnail *File) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	if err := mw.WriteField("title", title); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("description", description); err != nil {
		return nil, "", err
	}
	if err := writeFilePart(mw, "video", video); err != nil {
		return nil, "", err
	}
	if err := writeFilePart(mw, "thumbnail", thumbnail); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return body, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeFilePart writes a file part keeping the file's declared content type
func writeFilePart(mw *multipart.Writer, field string, f *File) error {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	header.Set("Content-Type", contentType)

	w, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = w.Write(f.Content)
	return err
}
