package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/foomo/video-upload/internal/models"
	"github.com/foomo/video-upload/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// mockStorage is a mock implementation of Storage
type mockStorage struct {
	ensureErr    error
	createErr    map[models.AssetKind]error
	writeErr     error
	closeErr     error
	ensureCalled bool
	created      map[models.AssetKind]*mockWriteCloser
	createdNames map[models.AssetKind]string
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		createErr:    map[models.AssetKind]error{},
		created:      map[models.AssetKind]*mockWriteCloser{},
		createdNames: map[models.AssetKind]string{},
	}
}

func (m *mockStorage) EnsureDirs() error {
	m.ensureCalled = true
	return m.ensureErr
}

func (m *mockStorage) Create(filename string, kind models.AssetKind) (io.WriteCloser, error) {
	if err := m.createErr[kind]; err != nil {
		return nil, err
	}
	wc := &mockWriteCloser{writeErr: m.writeErr, closeErr: m.closeErr}
	m.created[kind] = wc
	m.createdNames[kind] = filename
	return wc, nil
}

func (m *mockStorage) URLPath(filename string, kind models.AssetKind) string {
	return "/" + kind.Dir() + "/" + filename
}

// mockWriteCloser is a mock implementation of io.WriteCloser
type mockWriteCloser struct {
	writeErr error
	closeErr error
	written  []byte
	closed   bool
}

func (m *mockWriteCloser) Write(p []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.written = append(m.written, p...)
	return len(p), nil
}

func (m *mockWriteCloser) Close() error {
	m.closed = true
	return m.closeErr
}

// mockRecorder is a mock implementation of UploadRecorder
type mockRecorder struct {
	err     error
	records []*models.UploadRecord
}

func (m *mockRecorder) Record(ctx context.Context, record *models.UploadRecord) error {
	m.records = append(m.records, record)
	return m.err
}

func validSubmission() *models.Submission {
	return &models.Submission{
		Title:       "Cat",
		Description: "A cat video",
		Video: &models.UploadFile{
			Filename:    "cat.mp4",
			ContentType: "video/mp4",
			Reader:      strings.NewReader("video-content"),
		},
		Thumbnail: &models.UploadFile{
			Filename:    "cat.jpg",
			ContentType: "image/jpeg",
			Reader:      strings.NewReader("thumb"),
		},
	}
}

func TestNewUploadService(t *testing.T) {
	st := newMockStorage()
	rec := &mockRecorder{}
	logger := zap.NewNop()

	svc := NewUploadService(st, rec, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, st, svc.storage)
	assert.Equal(t, rec, svc.recorder)
	assert.NotNil(t, svc.now)
}

func TestUploadService_Upload_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Submission)
	}{
		{name: "missing title", mutate: func(s *models.Submission) { s.Title = "" }},
		{name: "missing description", mutate: func(s *models.Submission) { s.Description = "" }},
		{name: "missing video", mutate: func(s *models.Submission) { s.Video = nil }},
		{name: "missing thumbnail", mutate: func(s *models.Submission) { s.Thumbnail = nil }},
		{name: "video without content", mutate: func(s *models.Submission) { s.Video.Reader = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMockStorage()
			rec := &mockRecorder{}
			svc := NewUploadService(st, rec, zap.NewNop())
			sub := validSubmission()
			tt.mutate(sub)

			result, err := svc.Upload(context.Background(), sub)

			assert.ErrorIs(t, err, ErrMissingFields)
			assert.Nil(t, result)
			assert.False(t, st.ensureCalled)
			assert.Empty(t, st.created)
			assert.Empty(t, rec.records)
		})
	}

	t.Run("nil submission", func(t *testing.T) {
		svc := NewUploadService(newMockStorage(), &mockRecorder{}, zap.NewNop())

		_, err := svc.Upload(context.Background(), nil)

		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestUploadService_Upload_Success(t *testing.T) {
	st := newMockStorage()
	rec := &mockRecorder{}
	svc := NewUploadService(st, rec, zap.NewNop())
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 123000000, time.UTC)
	svc.now = func() time.Time { return fixed }

	result, err := svc.Upload(context.Background(), validSubmission())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, st.ensureCalled)

	assert.Equal(t, "video-content", string(st.created[models.AssetKindVideo].written))
	assert.Equal(t, "thumb", string(st.created[models.AssetKindThumbnail].written))
	assert.True(t, st.created[models.AssetKindVideo].closed)
	assert.True(t, st.created[models.AssetKindThumbnail].closed)

	record := result.Record
	assert.Equal(t, "Cat", record.Title)
	assert.Equal(t, "A cat video", record.Description)
	assert.True(t, strings.HasPrefix(record.VideoURL, "/uploads/videos/video_1714979289123_"))
	assert.True(t, strings.HasSuffix(record.VideoURL, ".mp4"))
	assert.True(t, strings.HasPrefix(record.ThumbnailURL, "/uploads/thumbnails/thumb_1714979289123_"))
	assert.True(t, strings.HasSuffix(record.ThumbnailURL, ".jpg"))
	assert.Equal(t, "2024-05-06T07:08:09.123Z", record.UploadedAt)
	assert.Equal(t, int64(len("video-content")), record.FileSize)
	assert.Equal(t, "video/mp4", record.VideoType)

	assert.Equal(t, st.createdNames[models.AssetKindVideo], result.Video.GeneratedFilename)
	assert.Equal(t, int64(5), result.Thumbnail.OriginalSize)
	assert.Equal(t, "image/jpeg", result.Thumbnail.MimeType)

	require.Len(t, rec.records, 1)
	assert.Equal(t, record, rec.records[0])
}

func TestUploadService_Upload_PersistenceErrors(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(*mockStorage)
		expectedOp   string
		videoCreated bool
	}{
		{
			name:       "directory creation fails",
			setup:      func(m *mockStorage) { m.ensureErr = errors.New("permission denied") },
			expectedOp: "create upload directories",
		},
		{
			name:       "video create fails",
			setup:      func(m *mockStorage) { m.createErr[models.AssetKindVideo] = errors.New("disk full") },
			expectedOp: "create video file",
		},
		{
			name:         "thumbnail create fails after video",
			setup:        func(m *mockStorage) { m.createErr[models.AssetKindThumbnail] = errors.New("disk full") },
			expectedOp:   "create thumbnail file",
			videoCreated: true,
		},
		{
			name:         "write fails",
			setup:        func(m *mockStorage) { m.writeErr = errors.New("io error") },
			expectedOp:   "write video file",
			videoCreated: true,
		},
		{
			name:         "close fails",
			setup:        func(m *mockStorage) { m.closeErr = errors.New("io error") },
			expectedOp:   "close video file",
			videoCreated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMockStorage()
			tt.setup(st)
			rec := &mockRecorder{}
			svc := NewUploadService(st, rec, zap.NewNop())

			result, err := svc.Upload(context.Background(), validSubmission())

			assert.Nil(t, result)
			var perr *PersistenceError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.expectedOp, perr.Op)
			assert.NotErrorIs(t, err, ErrMissingFields)
			_, videoCreated := st.created[models.AssetKindVideo]
			assert.Equal(t, tt.videoCreated, videoCreated)
			assert.Empty(t, rec.records)
		})
	}
}

func TestUploadService_Upload_RecorderFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rec := &mockRecorder{err: errors.New("store unavailable")}
	svc := NewUploadService(newMockStorage(), rec, zap.New(core))

	result, err := svc.Upload(context.Background(), validSubmission())

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 1, logs.FilterMessage("failed to record upload").Len())
	assert.Equal(t, 1, logs.FilterMessage("upload data").Len())
}

func TestUploadService_Upload_LocalStorageRoundTrip(t *testing.T) {
	root := t.TempDir()
	svc := NewUploadService(storage.NewLocalStorage(root), &mockRecorder{}, zap.NewNop())

	videoBytes := bytes.Repeat([]byte{0x00, 0xff, 0x10, 0x7f}, 64*1024)
	thumbBytes := []byte("\x89PNG\r\n\x1a\nthumbnail")
	sub := &models.Submission{
		Title:       "Cat",
		Description: "A cat video",
		Video:       &models.UploadFile{Filename: "cat.MP4", ContentType: "video/mp4", Reader: bytes.NewReader(videoBytes)},
		Thumbnail:   &models.UploadFile{Filename: "cat.png", ContentType: "image/png", Reader: bytes.NewReader(thumbBytes)},
	}

	result, err := svc.Upload(context.Background(), sub)
	require.NoError(t, err)

	gotVideo, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(result.Record.VideoURL)))
	require.NoError(t, err)
	assert.Equal(t, videoBytes, gotVideo)
	assert.True(t, strings.HasSuffix(result.Record.VideoURL, ".MP4"))

	gotThumb, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(result.Record.ThumbnailURL)))
	require.NoError(t, err)
	assert.Equal(t, thumbBytes, gotThumb)
}

func TestUploadService_Upload_SameContentTwiceIsNotDeduplicated(t *testing.T) {
	root := t.TempDir()
	svc := NewUploadService(storage.NewLocalStorage(root), &mockRecorder{}, zap.NewNop())
	fixed := time.UnixMilli(1700000000000)
	svc.now = func() time.Time { return fixed }

	first, err := svc.Upload(context.Background(), validSubmission())
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.NotEqual(t, first.Record.VideoURL, second.Record.VideoURL)
	assert.NotEqual(t, first.Record.ThumbnailURL, second.Record.ThumbnailURL)

	entries, err := os.ReadDir(filepath.Join(root, "uploads", "videos"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
