package ports

import (
	"context"
	"io"
)

// BlobStore is the file storage used for staged and finalized attachments.
// Paths are slash separated and relative to the store root.
type BlobStore interface {
	// Put writes content to path, creating parent directories as needed.
	Put(ctx context.Context, path string, content io.Reader) error

	// Move renames a blob. The destination is overwritten.
	Move(ctx context.Context, from, to string) error

	// Delete removes a single blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, path string) error

	// DeleteDirectory removes every blob under dir.
	DeleteDirectory(ctx context.Context, dir string) error

	// Exists reports whether a blob is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Open returns a reader over the blob at path. apperrors.ErrNotFound is returned for a missing blob.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// MimeType resolves the content type of the blob at path.
	MimeType(ctx context.Context, path string) (string, error)
}
