// Package web embeds the upload form served at the site root
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var EmbedFS embed.FS

// GetFileSystem returns the embedded static directory as an http.FileSystem
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(EmbedFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// Handler serves the embedded form and its assets
func Handler() http.Handler {
	return http.FileServer(GetFileSystem())
}
