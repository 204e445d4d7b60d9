package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"wavecrate/logger"
	"wavecrate/model"
)

// UploadSongsHandler ingests a validated batch of audio files. For each
// file the blob is written first, then the catalog is checked for an
// existing song under the same filename: duplicates are silently
// skipped (their blob write has already overwritten the old one), new
// filenames get a catalog row. Returns the inserted rows.
func (h *APIHandler) UploadSongsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files := r.MultipartForm.File[uploadFormField]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "No file(s) uploaded")
		return
	}

	uploaded := make([]*model.Song, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			respondError(w, http.StatusInternalServerError,
				fmt.Sprintf("Failed to read uploaded file %q: %v", header.Filename, err))
			return
		}

		err = h.store.Save(ctx, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
		file.Close()
		if err != nil {
			logger.Error("Failed to persist blob",
				logger.String("filename", header.Filename),
				logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError,
				fmt.Sprintf("Failed to store file %q: %v", header.Filename, err))
			return
		}

		existing, err := h.songRepo.GetSongByFilename(ctx, header.Filename)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Database insertion failed: "+err.Error())
			return
		}
		if existing != nil {
			logger.Info("Skipping duplicate upload",
				logger.String("filename", header.Filename),
				logger.Int64("songId", existing.ID))
			continue
		}

		song := &model.Song{
			Title:    strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
			Filename: header.Filename,
		}
		if _, err := h.songRepo.CreateSong(ctx, song); err != nil {
			respondError(w, http.StatusInternalServerError, "Database insertion failed: "+err.Error())
			return
		}

		logger.Info("Song ingested",
			logger.Int64("songId", song.ID),
			logger.String("title", song.Title),
			logger.String("filename", song.Filename))
		uploaded = append(uploaded, song)
	}

	if len(uploaded) == 0 {
		respondError(w, http.StatusBadRequest, "Uploaded song(s) already exist")
		return
	}

	respondJSON(w, http.StatusOK, uploaded)
}

// SearchSongsHandler returns songs whose title contains the `title`
// query parameter, case-insensitively. No parameter returns all songs.
func (h *APIHandler) SearchSongsHandler(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	songs, err := h.songRepo.SearchSongsByTitle(r.Context(), title)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, songs)
}

// DeleteSongHandler removes a song by exact title: catalog row first,
// then the blob. Membership rows fall to the FK cascade.
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	title := mux.Vars(r)["title"]

	song, err := h.songRepo.GetSongByTitle(ctx, title)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}

	if err := h.songRepo.DeleteSongByID(ctx, song.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete song")
		return
	}

	// Remove tolerates an already-absent blob; a real I/O failure still
	// fails the request even though the row is gone (spec accepts the
	// resulting inconsistency for manual cleanup).
	if err := h.store.Remove(ctx, song.Filename); err != nil {
		logger.Error("Failed to remove blob after row delete",
			logger.String("filename", song.Filename),
			logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete song")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Song with title %q has been deleted successfully!", title),
	})
}
