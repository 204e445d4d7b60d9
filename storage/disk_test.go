package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "song.mp3", strings.NewReader("blob-bytes"), 10, "audio/mpeg"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	exists, err := store.Exists(ctx, "song.mp3")
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v; want true, nil", exists, err)
	}

	rc, err := store.Open(ctx, "song.mp3")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(data) != "blob-bytes" {
		t.Fatalf("read %q, %v; want blob-bytes", data, err)
	}

	if err := store.Remove(ctx, "song.mp3"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	exists, _ = store.Exists(ctx, "song.mp3")
	if exists {
		t.Fatal("blob still present after Remove")
	}
}

func TestDiskStoreOverwrite(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "a.wav", strings.NewReader("first"), 5, "audio/wav"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Same key again: the new bytes replace the old ones.
	if err := store.Save(ctx, "a.wav", strings.NewReader("second"), 6, "audio/wav"); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}

	rc, err := store.Open(ctx, "a.wav")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "second" {
		t.Fatalf("read %q; want second", data)
	}
}

func TestDiskStoreRemoveAbsent(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	if err := store.Remove(context.Background(), "never-uploaded.mp3"); err != nil {
		t.Fatalf("Remove of absent blob should be nil, got %v", err)
	}
}

func TestDiskStoreFlattensPaths(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "../../etc/evil.mp3", strings.NewReader("x"), 1, "audio/mpeg"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The blob must land inside the root under its base name.
	exists, err := store.Exists(ctx, "evil.mp3")
	if err != nil || !exists {
		t.Fatalf("Exists(%q) = %v, %v; want true, nil", filepath.Base("evil.mp3"), exists, err)
	}
}
