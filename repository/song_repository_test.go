package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"wavecrate/model"
)

func TestCreateSong(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLSongRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO songs (title, filename, created_at, updated_at) VALUES (?, ?, ?, ?)`)).
		WithArgs("Road Trip", "Road Trip.mp3", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	song := &model.Song{Title: "Road Trip", Filename: "Road Trip.mp3"}
	id, err := repo.CreateSong(context.Background(), song)
	if err != nil {
		t.Fatalf("CreateSong error: %v", err)
	}
	if id != 7 || song.ID != 7 {
		t.Fatalf("expected ID 7, got id=%d song.ID=%d", id, song.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetSongByFilename(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLSongRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, filename, created_at, updated_at FROM songs WHERE filename = ?`)).
		WithArgs("a.mp3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "filename", "created_at", "updated_at"}).
			AddRow(int64(1), "a", "a.mp3", now, now))

	song, err := repo.GetSongByFilename(context.Background(), "a.mp3")
	if err != nil {
		t.Fatalf("GetSongByFilename error: %v", err)
	}
	if song == nil || song.ID != 1 || song.Title != "a" {
		t.Fatalf("unexpected song: %+v", song)
	}
}

func TestGetSongByFilenameMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLSongRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, filename, created_at, updated_at FROM songs WHERE filename = ?`)).
		WithArgs("missing.mp3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "filename", "created_at", "updated_at"}))

	song, err := repo.GetSongByFilename(context.Background(), "missing.mp3")
	if err != nil {
		t.Fatalf("expected nil error for missing song, got %v", err)
	}
	if song != nil {
		t.Fatalf("expected nil song, got %+v", song)
	}
}

func TestSearchSongsByTitleBlankReturnsAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLSongRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, filename, created_at, updated_at FROM songs`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "filename", "created_at", "updated_at"}).
			AddRow(int64(1), "a", "a.mp3", now, now).
			AddRow(int64(2), "b", "b.wav", now, now))

	songs, err := repo.SearchSongsByTitle(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchSongsByTitle error: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}
}

func TestSearchSongsByTitleFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLSongRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, filename, created_at, updated_at FROM songs WHERE LOWER(title) LIKE LOWER(?)`)).
		WithArgs("%Road%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "filename", "created_at", "updated_at"}).
			AddRow(int64(3), "Road Trip", "Road Trip.mp3", now, now))

	songs, err := repo.SearchSongsByTitle(context.Background(), "Road")
	if err != nil {
		t.Fatalf("SearchSongsByTitle error: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Road Trip" {
		t.Fatalf("unexpected result: %+v", songs)
	}
}

func TestDeleteSongByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLSongRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteSongByID(context.Background(), 5); err != nil {
		t.Fatalf("DeleteSongByID error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchSongsByTitleQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMySQLSongRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, filename, created_at, updated_at FROM songs`)).
		WillReturnError(errors.New("connection lost"))

	if _, err := repo.SearchSongsByTitle(context.Background(), ""); err == nil {
		t.Fatal("expected error, got nil")
	}
}
