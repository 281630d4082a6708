// Package gcs implements ports.BlobStore on a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Store keeps blobs as objects in one bucket. Object names are the blob paths.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

var _ ports.BlobStore = (*Store)(nil)

// New connects to bucket. Application default credentials are used unless
// credentialsJSON is set.
func New(ctx context.Context, bucket string, credentialsJSON string) (*Store, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	handle := client.Bucket(bucket)
	if _, err := handle.Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gcs bucket %q not found or not accessible: %w", bucket, err)
	}

	return &Store{client: client, bucket: handle}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func objectName(p string) string {
	return strings.TrimPrefix(p, "/")
}

// dirPrefix is the listing prefix matching every object below dir.
func dirPrefix(dir string) string {
	return strings.TrimSuffix(objectName(dir), "/") + "/"
}

func (s *Store) Put(ctx context.Context, p string, content io.Reader) error {
	w := s.bucket.Object(objectName(p)).NewWriter(ctx)
	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload %s: %w", p, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload %s: %w", p, err)
	}
	return nil
}

// Move copies the object and deletes the source. GCS has no rename.
func (s *Store) Move(ctx context.Context, from, to string) error {
	src := s.bucket.Object(objectName(from))
	dst := s.bucket.Object(objectName(to))

	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("%w: %s", apperrors.ErrNotFound, from)
		}
		return fmt.Errorf("failed to copy %s to %s: %w", from, to, err)
	}
	if err := src.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete moved object %s: %w", from, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, p string) error {
	if err := s.bucket.Object(objectName(p)).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	return nil
}

func (s *Store) DeleteDirectory(ctx context.Context, dir string) error {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: dirPrefix(dir)})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", dir, err)
		}
		if err := s.bucket.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("failed to delete %s: %w", attrs.Name, err)
		}
	}
}

func (s *Store) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.bucket.Object(objectName(p)).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return true, nil
}

func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	r, err := s.bucket.Object(objectName(p)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, p)
		}
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	return r, nil
}

// MimeType returns the content type recorded on the object.
func (s *Store) MimeType(ctx context.Context, p string) (string, error) {
	attrs, err := s.bucket.Object(objectName(p)).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrNotFound, p)
		}
		return "", fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return attrs.ContentType, nil
}
