package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wavecrate/model"
)

// PlaylistRepository defines playlist and membership operations.
type PlaylistRepository interface {
	// CreatePlaylist inserts a new playlist and returns its ID. The
	// unique index on name rejects duplicates.
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) (int64, error)

	// GetPlaylistByName looks a playlist up by exact name.
	// Returns (nil, nil) when no playlist has that name.
	GetPlaylistByName(ctx context.Context, name string) (*model.Playlist, error)

	// GetAllPlaylists returns every playlist.
	GetAllPlaylists(ctx context.Context) ([]*model.Playlist, error)

	// DeletePlaylist removes a playlist and its membership rows in one
	// transaction, memberships first.
	DeletePlaylist(ctx context.Context, id int64) error

	// AddSong records a membership. Adding a song already in the
	// playlist is a no-op.
	AddSong(ctx context.Context, playlistID, songID int64) error

	// RemoveSong deletes one membership row.
	RemoveSong(ctx context.Context, playlistID, songID int64) error

	// GetPlaylistSongs returns the songs in a playlist.
	GetPlaylistSongs(ctx context.Context, playlistID int64) ([]*model.Song, error)
}

// MySQLPlaylistRepository implements PlaylistRepository for MySQL.
type MySQLPlaylistRepository struct {
	db *sql.DB
}

// NewMySQLPlaylistRepository creates a new MySQL-backed playlist repository.
func NewMySQLPlaylistRepository(db *sql.DB) *MySQLPlaylistRepository {
	return &MySQLPlaylistRepository{db: db}
}

// CreatePlaylist inserts a new playlist and returns its ID.
func (r *MySQLPlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) (int64, error) {
	query := `INSERT INTO playlists (name, created_at, updated_at) VALUES (?, ?, ?)`

	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, playlist.Name, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert playlist %q: %w", playlist.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for playlist %q: %w", playlist.Name, err)
	}
	playlist.ID = id
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	return id, nil
}

// GetPlaylistByName looks a playlist up by exact name.
func (r *MySQLPlaylistRepository) GetPlaylistByName(ctx context.Context, name string) (*model.Playlist, error) {
	query := `SELECT id, name, created_at, updated_at FROM playlists WHERE name = ?`

	playlist := &model.Playlist{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&playlist.ID, &playlist.Name, &playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan playlist by name %q: %w", name, err)
	}
	return playlist, nil
}

// GetAllPlaylists returns every playlist.
func (r *MySQLPlaylistRepository) GetAllPlaylists(ctx context.Context) ([]*model.Playlist, error) {
	query := `SELECT id, name, created_at, updated_at FROM playlists`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		playlist := &model.Playlist{}
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist in GetAllPlaylists: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetAllPlaylists: %w", err)
	}

	return playlists, nil
}

// DeletePlaylist removes a playlist and its membership rows.
// Memberships go first so an FK constraint can never block the parent
// delete, although the cascade would cover it either way.
func (r *MySQLPlaylistRepository) DeletePlaylist(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for DeletePlaylist: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete memberships of playlist %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete playlist %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit DeletePlaylist for playlist %d: %w", id, err)
	}
	return nil
}

// AddSong records a membership; a repeated add is swallowed by the
// composite primary key.
func (r *MySQLPlaylistRepository) AddSong(ctx context.Context, playlistID, songID int64) error {
	query := `INSERT IGNORE INTO playlist_songs (playlist_id, song_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, playlistID, songID); err != nil {
		return fmt.Errorf("failed to add song %d to playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// RemoveSong deletes one membership row.
func (r *MySQLPlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	query := `DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`
	if _, err := r.db.ExecContext(ctx, query, playlistID, songID); err != nil {
		return fmt.Errorf("failed to remove song %d from playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// GetPlaylistSongs returns the songs in a playlist via the join table.
func (r *MySQLPlaylistRepository) GetPlaylistSongs(ctx context.Context, playlistID int64) ([]*model.Song, error) {
	query := `SELECT s.id, s.title, s.filename, s.created_at, s.updated_at
	           FROM songs s
	           JOIN playlist_songs ps ON s.id = ps.song_id
	           WHERE ps.playlist_id = ?`

	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs of playlist %d: %w", playlistID, err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0)
	for rows.Next() {
		song := &model.Song{}
		if err := rows.Scan(&song.ID, &song.Title, &song.Filename, &song.CreatedAt, &song.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song in GetPlaylistSongs: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetPlaylistSongs: %w", err)
	}

	return songs, nil
}
