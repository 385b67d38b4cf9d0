package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/foomo/video-upload/internal/models"
	"github.com/google/uuid"
)

// tokenLength is the number of hex characters taken from a random UUID
const tokenLength = 8

// GenerateFileName generates a stored file name for the given kind.
// The result is "<prefix>_<epochMillis>_<token><extension>" where token is random,
// so two uploads in the same millisecond do not collide.
func GenerateFileName(kind models.AssetKind, extension string, now time.Time) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:tokenLength]
	// Ensure extension starts with a dot if it doesn't already
	if extension != "" && extension[0] != '.' {
		extension = "." + extension
	}
	return fmt.Sprintf("%s_%d_%s%s", kind.Prefix(), now.UnixMilli(), token, extension)
}

// ExtensionOf returns the extension of the original filename verbatim, including the dot.
// Names without a dot, or ending in one, have no extension.
func ExtensionOf(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	ext := filename[idx:]
	// Path separators never belong to an extension
	if strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}

// sizeWriter wraps a writer and tracks the total number of bytes written
type sizeWriter struct {
	size int64
}

// Write implements io.Writer interface
// It tracks the size of data written and returns the length and nil error
func (sw *sizeWriter) Write(p []byte) (int, error) {
	n := len(p)
	sw.size += int64(n)
	return n, nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// NewSizeWriter creates a new SizeWriter instance
func NewSizeWriter() *sizeWriter {
	return &sizeWriter{
		size: 0,
	}
}
