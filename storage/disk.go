package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore keeps blobs as plain files in a single directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the store directory if needed and returns a
// DiskStore rooted there.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

// Root returns the store directory.
func (s *DiskStore) Root() string {
	return s.root
}

// path flattens name so a crafted filename cannot escape the root.
func (s *DiskStore) path(name string) string {
	return filepath.Join(s.root, filepath.Base(name))
}

// Save writes the blob, overwriting an existing one under the same name.
func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	out, err := os.Create(s.path(name))
	if err != nil {
		return fmt.Errorf("failed to create blob file %s: %w", name, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return nil
}

// Open returns the blob contents for reading.
func (s *DiskStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", name, err)
	}
	return f, nil
}

// Exists reports whether a blob is present under name.
func (s *DiskStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob %s: %w", name, err)
	}
	return true, nil
}

// Remove deletes the blob; an already-absent blob is fine.
func (s *DiskStore) Remove(ctx context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob %s: %w", name, err)
	}
	return nil
}

var _ BlobStore = (*DiskStore)(nil)
