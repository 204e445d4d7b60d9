package storage

import (
	"context"
	"io"
)

// BlobStore holds uploaded audio blobs keyed by their original
// filename. Implementations: local disk and MinIO.
type BlobStore interface {
	// Save writes a blob under name, overwriting any existing blob
	// with the same key.
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error

	// Open returns the blob contents for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Exists reports whether a blob is present under name.
	Exists(ctx context.Context, name string) (bool, error)

	// Remove deletes a blob. Removing an absent blob is not an error.
	Remove(ctx context.Context, name string) error
}
