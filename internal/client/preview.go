package client

import (
	"sync"

	"github.com/google/uuid"
)

// previewScheme prefixes every preview URL issued by a PreviewRegistry
const previewScheme = "preview:"

// File is a file picked by the user, held in memory until submission
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Size returns the size of the file in bytes
func (f *File) Size() int64 {
	return int64(len(f.Content))
}

// PreviewRegistry issues locally resolvable preview URLs for selected files.
// Every issued URL stays resolvable until it is revoked.
type PreviewRegistry struct {
	mu   sync.Mutex
	urls map[string]*File
}

// NewPreviewRegistry creates an empty registry
func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{urls: make(map[string]*File)}
}

// Create issues a new preview URL for the file
func (r *PreviewRegistry) Create(f *File) string {
	url := previewScheme + uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls[url] = f
	return url
}

// Revoke releases a preview URL; it reports whether the URL was outstanding
func (r *PreviewRegistry) Revoke(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.urls[url]; !ok {
		return false
	}
	delete(r.urls, url)
	return true
}

// Resolve returns the file behind an outstanding preview URL
func (r *PreviewRegistry) Resolve(url string) (*File, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.urls[url]
	return f, ok
}

// Len returns the number of outstanding preview URLs
func (r *PreviewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.urls)
}
