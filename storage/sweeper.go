package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"wavecrate/logger"
	"wavecrate/repository"
)

// Sweeper watches the upload directory for blobs that have no catalog
// row. A crash between blob write and row insert leaves such orphans
// behind; the sweeper reports them for manual cleanup, it never
// deletes anything itself.
type Sweeper struct {
	dir      string
	songs    repository.SongRepository
	interval time.Duration
}

// NewSweeper creates a sweeper over dir backed by the song catalog.
func NewSweeper(dir string, songs repository.SongRepository, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{dir: dir, songs: songs, interval: interval}
}

// Run blocks until ctx is done, reacting to filesystem events and
// running a full scan on every interval tick.
func (s *Sweeper) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
				// Give the ingestion handler time to insert the row.
				time.AfterFunc(30*time.Second, func() {
					s.check(context.Background(), filepath.Base(event.Name))
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Sweeper watcher error", logger.ErrorField(err))
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan walks the whole directory and checks every blob.
func (s *Sweeper) scan(ctx context.Context) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Warn("Sweeper failed to read upload directory",
			logger.String("dir", s.dir),
			logger.ErrorField(err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		s.check(ctx, entry.Name())
	}
}

// check logs the blob as an orphan when no song row claims it.
func (s *Sweeper) check(ctx context.Context, filename string) {
	if _, err := os.Stat(filepath.Join(s.dir, filename)); err != nil {
		return // already gone
	}

	song, err := s.songs.GetSongByFilename(ctx, filename)
	if err != nil {
		logger.Warn("Sweeper catalog lookup failed",
			logger.String("filename", filename),
			logger.ErrorField(err))
		return
	}
	if song == nil {
		logger.Warn("Orphan blob: file present with no catalog row",
			logger.String("filename", filename),
			logger.String("dir", s.dir))
	}
}
