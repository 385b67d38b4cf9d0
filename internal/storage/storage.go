package storage

import (
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/foomo/video-upload/internal/models"
)

// localStorage implements Storage interface using local filesystem
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance rooted at the public directory
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// dirFor returns the on-disk directory holding assets of the given kind
func (s *localStorage) dirFor(kind models.AssetKind) string {
	return filepath.Join(s.basePath, filepath.FromSlash(kind.Dir()))
}

// generatePath generates the full file path based on filename and kind
func (s *localStorage) generatePath(filename string, kind models.AssetKind) string {
	return filepath.Join(s.dirFor(kind), filepath.Base(filename))
}

// EnsureDirs creates the video and thumbnail directories if they are missing
func (s *localStorage) EnsureDirs() error {
	for _, kind := range []models.AssetKind{models.AssetKindVideo, models.AssetKindThumbnail} {
		if err := os.MkdirAll(s.dirFor(kind), 0755); err != nil {
			return err
		}
	}
	return nil
}

// Create creates the file under its final name and returns a WriteCloser.
// An existing file with the same name is truncated.
func (s *localStorage) Create(filename string, kind models.AssetKind) (io.WriteCloser, error) {
	return os.Create(s.generatePath(filename, kind))
}

// Open opens a stored file for reading
func (s *localStorage) Open(filename string, kind models.AssetKind) (io.ReadCloser, error) {
	return os.Open(s.generatePath(filename, kind))
}

// URLPath returns the web-relative path the asset is served under
func (s *localStorage) URLPath(filename string, kind models.AssetKind) string {
	return "/" + path.Join(kind.Dir(), filename)
}

// UploadsDir returns the directory served as /uploads
func (s *localStorage) UploadsDir() string {
	return filepath.Join(s.basePath, "uploads")
}
