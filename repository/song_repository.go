package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"wavecrate/model"
)

// SongRepository defines the catalog operations on songs.
type SongRepository interface {
	// CreateSong inserts a new song row and returns its ID.
	CreateSong(ctx context.Context, song *model.Song) (int64, error)

	// GetSongByFilename looks a song up by its blob-store key.
	// Returns (nil, nil) when no song has that filename.
	GetSongByFilename(ctx context.Context, filename string) (*model.Song, error)

	// GetSongByTitle looks a song up by exact title.
	// Returns (nil, nil) when no song has that title.
	GetSongByTitle(ctx context.Context, title string) (*model.Song, error)

	// SearchSongsByTitle returns songs whose title contains the given
	// substring, case-insensitively. A blank filter returns all songs.
	SearchSongsByTitle(ctx context.Context, title string) ([]*model.Song, error)

	// DeleteSongByID removes a song row. Membership rows referencing it
	// are removed by the engine's FK cascade.
	DeleteSongByID(ctx context.Context, id int64) error
}

// MySQLSongRepository implements SongRepository for MySQL.
type MySQLSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new MySQL-backed song repository.
func NewMySQLSongRepository(db *sql.DB) *MySQLSongRepository {
	return &MySQLSongRepository{db: db}
}

// CreateSong inserts a new song row and returns its ID.
func (r *MySQLSongRepository) CreateSong(ctx context.Context, song *model.Song) (int64, error) {
	query := `INSERT INTO songs (title, filename, created_at, updated_at) VALUES (?, ?, ?, ?)`

	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, song.Title, song.Filename, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert song %q: %w", song.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for song %q: %w", song.Title, err)
	}
	song.ID = id
	song.CreatedAt = now
	song.UpdatedAt = now
	return id, nil
}

// GetSongByFilename looks a song up by its blob-store key.
func (r *MySQLSongRepository) GetSongByFilename(ctx context.Context, filename string) (*model.Song, error) {
	return r.getSongBy(ctx, "filename", filename)
}

// GetSongByTitle looks a song up by exact title.
func (r *MySQLSongRepository) GetSongByTitle(ctx context.Context, title string) (*model.Song, error) {
	return r.getSongBy(ctx, "title", title)
}

func (r *MySQLSongRepository) getSongBy(ctx context.Context, column, value string) (*model.Song, error) {
	query := fmt.Sprintf(`SELECT id, title, filename, created_at, updated_at FROM songs WHERE %s = ?`, column)

	song := &model.Song{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&song.ID, &song.Title, &song.Filename, &song.CreatedAt, &song.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan song by %s %q: %w", column, value, err)
	}
	return song, nil
}

// SearchSongsByTitle returns songs matching the substring filter, or
// every song when the filter is blank.
func (r *MySQLSongRepository) SearchSongsByTitle(ctx context.Context, title string) ([]*model.Song, error) {
	query := `SELECT id, title, filename, created_at, updated_at FROM songs`
	var args []interface{}

	if strings.TrimSpace(title) != "" {
		query += ` WHERE LOWER(title) LIKE LOWER(?)`
		args = append(args, "%"+title+"%")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0)
	for rows.Next() {
		song := &model.Song{}
		if err := rows.Scan(&song.ID, &song.Title, &song.Filename, &song.CreatedAt, &song.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song in SearchSongsByTitle: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in SearchSongsByTitle: %w", err)
	}

	return songs, nil
}

// DeleteSongByID removes a song row.
func (r *MySQLSongRepository) DeleteSongByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete song %d: %w", id, err)
	}
	return nil
}
