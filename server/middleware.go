package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"wavecrate/logger"
)

const (
	maxUploadFiles    = 100
	maxUploadFileSize = 5 << 20 // 5 MB per file
	uploadFormField   = "file"
)

// allowedAudioTypes mirrors the audio/(mpeg|wav|flac|mp3) upload filter.
var allowedAudioTypes = map[string]bool{
	"audio/mpeg": true,
	"audio/wav":  true,
	"audio/flac": true,
	"audio/mp3":  true,
}

// corsMiddleware sets permissive CORS headers and short-circuits
// preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with a UUID, echoed in the
// X-Request-ID response header and attached to the access log line.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger.Debug("Request received",
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("remoteAddr", r.RemoteAddr))

		next.ServeHTTP(w, r)
	})
}

// uploadValidationMiddleware parses the multipart form and rejects the
// whole batch with a 400 when any file fails the type or size checks,
// before the handler body runs. No row is inserted for a rejected batch.
func (h *APIHandler) uploadValidationMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			logger.Warn("Failed to parse upload form", logger.ErrorField(err))
			respondError(w, http.StatusBadRequest, "Failed to parse upload form")
			return
		}

		files := r.MultipartForm.File[uploadFormField]
		if len(files) > maxUploadFiles {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("Too many files. Maximum is %d per request", maxUploadFiles))
			return
		}

		for _, header := range files {
			if header.Size > maxUploadFileSize {
				logger.Warn("Upload rejected: file too large",
					logger.String("filename", header.Filename),
					logger.Int64("size", header.Size))
				respondError(w, http.StatusBadRequest, "File is too large. Maximum size is 5MB.")
				return
			}

			contentType := header.Header.Get("Content-Type")
			if !allowedAudioTypes[contentType] {
				logger.Warn("Upload rejected: disallowed type",
					logger.String("filename", header.Filename),
					logger.String("contentType", contentType))
				respondError(w, http.StatusBadRequest, "Only audio files are allowed!")
				return
			}
		}

		next(w, r)
	}
}
