package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"wavecrate/logger"
	"wavecrate/model"
)

// CreatePlaylistHandler creates a named playlist. The unique index on
// name rejects duplicates; that failure surfaces as a 500 like any
// other database error.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	playlist := &model.Playlist{Name: req.Name}
	if _, err := h.playlistRepo.CreatePlaylist(r.Context(), playlist); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("Playlist created",
		logger.Int64("playlistId", playlist.ID),
		logger.String("name", playlist.Name))
	respondJSON(w, http.StatusOK, playlist)
}

// ListPlaylistsHandler returns every playlist.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlistRepo.GetAllPlaylists(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, playlists)
}

// AddSongToPlaylistHandler resolves the playlist by name and the song
// by title, 404ing distinctly on either miss, then records the
// membership. A song already in the playlist is a no-op success.
func (h *APIHandler) AddSongToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistName := mux.Vars(r)["playlistName"]

	var req struct {
		SongTitle string `json:"songTitle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongTitle == "" {
		respondError(w, http.StatusBadRequest, "Song title is required")
		return
	}

	playlist, err := h.playlistRepo.GetPlaylistByName(ctx, playlistName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	song, err := h.songRepo.GetSongByTitle(ctx, req.SongTitle)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}

	if err := h.playlistRepo.AddSong(ctx, playlist.ID, song.ID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.cache.Invalidate(ctx, playlistName)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Added %q to %q", req.SongTitle, playlistName),
	})
}

// GetPlaylistSongsHandler lists the songs in a playlist, serving from
// the cache when the listing is fresh.
func (h *APIHandler) GetPlaylistSongsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistName := mux.Vars(r)["playlistName"]

	playlist, err := h.playlistRepo.GetPlaylistByName(ctx, playlistName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	if songs, ok := h.cache.GetSongs(ctx, playlistName); ok {
		respondJSON(w, http.StatusOK, songs)
		return
	}

	songs, err := h.playlistRepo.GetPlaylistSongs(ctx, playlist.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.cache.SetSongs(ctx, playlistName, songs)

	respondJSON(w, http.StatusOK, songs)
}

// DeletePlaylistHandler removes a playlist and its membership rows.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := mux.Vars(r)["name"]

	playlist, err := h.playlistRepo.GetPlaylistByName(ctx, name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	if err := h.playlistRepo.DeletePlaylist(ctx, playlist.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete playlist")
		return
	}
	h.cache.Invalidate(ctx, name)

	logger.Info("Playlist deleted",
		logger.Int64("playlistId", playlist.ID),
		logger.String("name", name))
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Playlist %q has been deleted successfully!", name),
	})
}

// RemoveSongFromPlaylistHandler deletes one membership row, with
// distinct 404s for an unknown playlist versus an unknown song.
func (h *APIHandler) RemoveSongFromPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	playlistName := vars["playlistName"]
	songTitle := vars["songTitle"]

	playlist, err := h.playlistRepo.GetPlaylistByName(ctx, playlistName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	song, err := h.songRepo.GetSongByTitle(ctx, songTitle)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}

	if err := h.playlistRepo.RemoveSong(ctx, playlist.ID, song.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete song from playlist")
		return
	}
	h.cache.Invalidate(ctx, playlistName)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Song %q has been removed from the playlist %q successfully!", songTitle, playlistName),
	})
}
