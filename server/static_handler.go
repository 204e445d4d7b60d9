package server

import (
	"io"
	"net/http"
	"path"
	"strings"

	"wavecrate/logger"
	"wavecrate/storage"
)

// BlobHandler serves raw uploaded blobs under /uploads/ straight from
// the blob store. Used when the store is not local disk; a plain
// http.FileServer covers the disk case.
type BlobHandler struct {
	store storage.BlobStore
}

// NewBlobHandler creates a BlobHandler over the given store.
func NewBlobHandler(store storage.BlobStore) *BlobHandler {
	return &BlobHandler{store: store}
}

// ServeHTTP implements http.Handler.
func (h *BlobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/uploads/")
	if name == "" {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	object, err := h.store.Open(r.Context(), name)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer object.Close()

	w.Header().Set("Content-Type", detectContentType(name))
	w.Header().Set("Cache-Control", "public, max-age=31536000")

	if _, err := io.Copy(w, object); err != nil {
		logger.Error("Error serving blob", logger.String("name", name), logger.ErrorField(err))
	}
}

// detectContentType maps a blob's extension to its media type.
func detectContentType(name string) string {
	switch path.Ext(name) {
	case ".mp3", ".mpeg":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
