package models

import (
	"io"
	"path"
)

// AssetKind represents the kind of file carried by a submission
type AssetKind string

const (
	AssetKindVideo     AssetKind = "video"
	AssetKindThumbnail AssetKind = "thumbnail"
)

// Prefix returns the filename prefix used for stored assets of this kind
func (k AssetKind) Prefix() string {
	if k == AssetKindThumbnail {
		return "thumb"
	}
	return string(k)
}

// Dir returns the slash-separated directory of this kind relative to the public root
func (k AssetKind) Dir() string {
	switch k {
	case AssetKindThumbnail:
		return path.Join("uploads", "thumbnails")
	default:
		return path.Join("uploads", "videos")
	}
}

// IsValid reports whether the kind is one of the known asset kinds
func (k AssetKind) IsValid() bool {
	return k == AssetKindVideo || k == AssetKindThumbnail
}

// UploadFile is a binary part of a submission
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Submission is the four-part payload sent by the upload form
type Submission struct {
	Title       string
	Description string
	Video       *UploadFile
	Thumbnail   *UploadFile
}

// StoredAsset describes a file written to the content directory
type StoredAsset struct {
	GeneratedFilename string    `json:"generatedFilename"`
	RelativePath      string    `json:"relativePath"`
	OriginalSize      int64     `json:"originalSize"`
	MimeType          string    `json:"mimeType"`
	Kind              AssetKind `json:"kind"`
}

// UploadRecord summarizes a completed upload
type UploadRecord struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	UploadedAt   string `json:"uploadedAt"`
	FileSize     int64  `json:"fileSize"`
	VideoType    string `json:"videoType"`
}

// UploadResponse is the body of a successful POST /api/upload
type UploadResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *UploadRecord `json:"data"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
