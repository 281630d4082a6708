// Package local implements ports.BlobStore on an afero filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// Store keeps blobs as files below the root of fs.
type Store struct {
	fs afero.Fs
}

var _ ports.BlobStore = (*Store)(nil)

// New wraps fs. Tests pass afero.NewMemMapFs().
func New(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOS stores blobs on disk below root, creating it if needed.
func NewOS(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

// clean makes p relative to the store root and removes any parent references.
func clean(p string) (string, error) {
	cleaned := path.Clean("/" + p)[1:]
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty storage path", apperrors.ErrValidation)
	}
	return cleaned, nil
}

func (s *Store) Put(_ context.Context, p string, content io.Reader) error {
	p, err := clean(p)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", p, err)
	}
	f, err := s.fs.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(p)
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return f.Close()
}

func (s *Store) Move(_ context.Context, from, to string) error {
	from, err := clean(from)
	if err != nil {
		return err
	}
	to, err = clean(to)
	if err != nil {
		return err
	}
	if ok, err := s.isFile(from); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, from)
	}
	if err := s.fs.MkdirAll(path.Dir(to), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", to, err)
	}
	if err := s.fs.Rename(from, to); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", from, to, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, p string) error {
	p, err := clean(p)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	return nil
}

func (s *Store) DeleteDirectory(_ context.Context, dir string) error {
	dir, err := clean(dir)
	if err != nil {
		return err
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete directory %s: %w", dir, err)
	}
	return nil
}

func (s *Store) Exists(_ context.Context, p string) (bool, error) {
	p, err := clean(p)
	if err != nil {
		return false, err
	}
	return s.isFile(p)
}

func (s *Store) isFile(p string) (bool, error) {
	info, err := s.fs.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return !info.IsDir(), nil
}

func (s *Store) Open(_ context.Context, p string) (io.ReadCloser, error) {
	p, err := clean(p)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, p)
		}
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	return f, nil
}

// MimeType detects the content type from the first bytes of the file.
func (s *Store) MimeType(ctx context.Context, p string) (string, error) {
	rc, err := s.Open(ctx, p)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	m, err := mimetype.DetectReader(rc)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type of %s: %w", p, err)
	}
	return m.String(), nil
}
