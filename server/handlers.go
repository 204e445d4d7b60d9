package server

import (
	"encoding/json"
	"net/http"

	"wavecrate/cache"
	"wavecrate/config"
	"wavecrate/repository"
	"wavecrate/storage"
)

// APIHandler carries the injected dependencies for all HTTP handlers.
type APIHandler struct {
	songRepo     repository.SongRepository
	playlistRepo repository.PlaylistRepository
	store        storage.BlobStore
	cache        *cache.PlaylistCache
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	songRepo repository.SongRepository,
	playlistRepo repository.PlaylistRepository,
	store storage.BlobStore,
	playlistCache *cache.PlaylistCache,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		songRepo:     songRepo,
		playlistRepo: playlistRepo,
		store:        store,
		cache:        playlistCache,
		cfg:          cfg,
	}
}

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes the error taxonomy's JSON shape: validation 400,
// lookup miss 404, everything else 500 with the underlying message.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
