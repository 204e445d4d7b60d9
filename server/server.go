package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"wavecrate/cache"
	"wavecrate/config"
	"wavecrate/db"
	"wavecrate/logger"
	"wavecrate/repository"
	"wavecrate/storage"
)

// NewRouter wires the endpoints onto a gorilla/mux router. The literal
// /playlists/delete route is registered before the {playlistName}
// routes so "delete" never binds as a playlist name for that path
// shape. uploads may be nil when static serving is not wanted.
func NewRouter(h *APIHandler, uploads http.Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestIDMiddleware)

	router.HandleFunc("/upload", h.uploadValidationMiddleware(h.UploadSongsHandler)).Methods(http.MethodPost)
	router.HandleFunc("/songs/search", h.SearchSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/delete/{title}", h.DeleteSongHandler).Methods(http.MethodDelete)

	router.HandleFunc("/playlists", h.CreatePlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/playlists", h.ListPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/playlists/delete/{name}", h.DeletePlaylistHandler).Methods(http.MethodDelete)
	router.HandleFunc("/playlists/{playlistName}/add", h.AddSongToPlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{playlistName}/songs", h.GetPlaylistSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{playlistName}/songs/delete/{songTitle}", h.RemoveSongFromPlaylistHandler).Methods(http.MethodDelete)

	if uploads != nil {
		router.PathPrefix("/uploads/").Handler(uploads)
	}

	return router
}

// Start initializes dependencies and runs the HTTP server until a
// shutdown signal arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	pool, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg); err != nil {
		logger.Fatal("Failed to migrate database schema", logger.ErrorField(err))
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	songRepo := repository.NewMySQLSongRepository(pool)
	playlistRepo := repository.NewMySQLPlaylistRepository(pool)
	playlistCache := cache.NewPlaylistCache(redisClient, 5*time.Minute)

	var store storage.BlobStore
	var diskStore *storage.DiskStore
	switch cfg.MediaStore {
	case "minio":
		store, err = storage.NewMinioStore(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize MinIO store", logger.ErrorField(err))
		}
	default:
		diskStore, err = storage.NewDiskStore(cfg.UploadDir)
		if err != nil {
			logger.Fatal("Failed to initialize upload directory", logger.ErrorField(err))
		}
		store = diskStore
	}

	apiHandler := NewAPIHandler(songRepo, playlistRepo, store, playlistCache, cfg)

	// Static serving of the raw upload directory.
	var uploadsHandler http.Handler
	if diskStore != nil {
		uploadsHandler = http.StripPrefix("/uploads/", http.FileServer(http.Dir(diskStore.Root())))
	} else {
		uploadsHandler = NewBlobHandler(store)
	}

	router := NewRouter(apiHandler, uploadsHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Orphan-blob sweeper only makes sense over the local directory.
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	if diskStore != nil {
		sweeper := storage.NewSweeper(diskStore.Root(), songRepo, 10*time.Minute)
		go func() {
			if err := sweeper.Run(sweepCtx); err != nil && err != context.Canceled {
				logger.Warn("Sweeper stopped", logger.ErrorField(err))
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
