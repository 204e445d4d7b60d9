package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"wavecrate/cache"
	"wavecrate/config"
	"wavecrate/model"
)

// In-memory doubles for the repositories and the blob store, in place
// of MySQL and disk/MinIO.

type memSongRepo struct {
	mu     sync.Mutex
	nextID int64
	songs  []*model.Song
}

func (r *memSongRepo) CreateSong(ctx context.Context, song *model.Song) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	song.ID = r.nextID
	clone := *song
	r.songs = append(r.songs, &clone)
	return song.ID, nil
}

func (r *memSongRepo) GetSongByFilename(ctx context.Context, filename string) (*model.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.songs {
		if s.Filename == filename {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memSongRepo) GetSongByTitle(ctx context.Context, title string) (*model.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.songs {
		if s.Title == title {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memSongRepo) SearchSongsByTitle(ctx context.Context, title string) ([]*model.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Song, 0)
	for _, s := range r.songs {
		if strings.TrimSpace(title) == "" || strings.Contains(strings.ToLower(s.Title), strings.ToLower(title)) {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memSongRepo) DeleteSongByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.songs {
		if s.ID == id {
			r.songs = append(r.songs[:i], r.songs[i+1:]...)
			return nil
		}
	}
	return nil
}

type membership struct {
	playlistID, songID int64
}

type memPlaylistRepo struct {
	mu          sync.Mutex
	nextID      int64
	playlists   []*model.Playlist
	memberships []membership
	songs       *memSongRepo
}

func (r *memPlaylistRepo) CreatePlaylist(ctx context.Context, playlist *model.Playlist) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.playlists {
		if p.Name == playlist.Name {
			return 0, fmt.Errorf("Error 1062 (23000): Duplicate entry '%s' for key 'playlists.idx_playlists_name'", playlist.Name)
		}
	}
	r.nextID++
	playlist.ID = r.nextID
	clone := *playlist
	r.playlists = append(r.playlists, &clone)
	return playlist.ID, nil
}

func (r *memPlaylistRepo) GetPlaylistByName(ctx context.Context, name string) (*model.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.playlists {
		if p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memPlaylistRepo) GetAllPlaylists(ctx context.Context) ([]*model.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Playlist, 0, len(r.playlists))
	for _, p := range r.playlists {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memPlaylistRepo) DeletePlaylist(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.memberships[:0]
	for _, m := range r.memberships {
		if m.playlistID != id {
			kept = append(kept, m)
		}
	}
	r.memberships = kept
	for i, p := range r.playlists {
		if p.ID == id {
			r.playlists = append(r.playlists[:i], r.playlists[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memPlaylistRepo) AddSong(ctx context.Context, playlistID, songID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.playlistID == playlistID && m.songID == songID {
			return nil // idempotent
		}
	}
	r.memberships = append(r.memberships, membership{playlistID, songID})
	return nil
}

func (r *memPlaylistRepo) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.memberships {
		if m.playlistID == playlistID && m.songID == songID {
			r.memberships = append(r.memberships[:i], r.memberships[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memPlaylistRepo) GetPlaylistSongs(ctx context.Context, playlistID int64) ([]*model.Song, error) {
	r.mu.Lock()
	memberships := append([]membership(nil), r.memberships...)
	r.mu.Unlock()

	out := make([]*model.Song, 0)
	for _, m := range memberships {
		if m.playlistID != playlistID {
			continue
		}
		for _, s := range r.songs.songs {
			if s.ID == m.songID {
				clone := *s
				out = append(out, &clone)
			}
		}
	}
	return out, nil
}

type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (s *memBlobStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = data
	return nil
}

func (s *memBlobStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memBlobStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[name]
	return ok, nil
}

func (s *memBlobStore) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, name)
	return nil
}

type testEnv struct {
	songs     *memSongRepo
	playlists *memPlaylistRepo
	store     *memBlobStore
	handler   *APIHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	songs := &memSongRepo{}
	playlists := &memPlaylistRepo{songs: songs}
	store := newMemBlobStore()
	handler := NewAPIHandler(songs, playlists, store, cache.NewPlaylistCache(nil, 0), &config.Config{})
	return &testEnv{songs: songs, playlists: playlists, store: store, handler: handler}
}

type uploadFile struct {
	name        string
	contentType string
	content     string
}

// multipartBody builds a multipart request body with one `file` part
// per entry, each carrying its own Content-Type.
func multipartBody(t *testing.T, files []uploadFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFormField, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := part.Write([]byte(f.content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func bytesReader(s string) io.Reader {
	return strings.NewReader(s)
}

// errorMessage decodes the {"error": ...} body.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}
