package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultUploadMaxBytes is the largest file accepted by StageUpload unless configured otherwise.
const DefaultUploadMaxBytes int64 = 10 << 20

// sniffLen is how much of an upload is inspected for its content type.
const sniffLen = 3072

// allowedUploadTypes maps accepted extensions to the content types they may be detected as.
// Office formats are also accepted as their container types.
var allowedUploadTypes = map[string][]string{
	"jpg":  {"image/jpeg"},
	"jpeg": {"image/jpeg"},
	"png":  {"image/png"},
	"pdf":  {"application/pdf"},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
	"doc":  {"application/msword", "application/x-ole-storage"},
	"xls":  {"application/vnd.ms-excel", "application/x-ole-storage"},
}

// uploadService implements the UploadSvcFacade interface
type uploadService struct {
	BaseService
	uploadRepo portsrepo.TemporaryUploadRepositoryFacade
	store      ports.BlobStore
	maxBytes   int64
}

// UploadServiceOption is a functional option for configuring the upload service
type UploadServiceOption func(*uploadService)

// WithUploadMaxBytes overrides DefaultUploadMaxBytes.
func WithUploadMaxBytes(n int64) UploadServiceOption {
	return func(s *uploadService) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithUploadClock overrides the service clock.
func WithUploadClock(now func() time.Time) UploadServiceOption {
	return func(s *uploadService) {
		s.now = now
	}
}

// NewUploadService creates the temporary upload staging service.
func NewUploadService(repo portsrepo.TemporaryUploadRepositoryFacade, store ports.BlobStore, options ...UploadServiceOption) portssvc.UploadSvcFacade {
	svc := &uploadService{
		uploadRepo: repo,
		store:      store,
		maxBytes:   DefaultUploadMaxBytes,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.UploadSvcFacade = (*uploadService)(nil)

// SanitizeFilename strips directory components from a client supplied name.
// It returns an empty string when nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(path.Base(name))
	if name == "." || name == "/" || name == ".." || strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}

func (s *uploadService) StageUpload(ctx context.Context, filename string, size int64, content io.Reader) (*domain.TemporaryUpload, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, apperrors.NewValidationError("file", "file name is invalid")
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	accepted, ok := allowedUploadTypes[ext]
	if !ok {
		return nil, apperrors.NewValidationError("file", "file must be one of: jpg, jpeg, png, pdf, docx, doc, xlsx, xls")
	}
	if size > s.maxBytes {
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("file may not be greater than %d bytes", s.maxBytes))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, apperrors.NewValidationError("file", "file is empty")
	}

	detected := mimetype.Detect(head)
	if !mimetypeIsOneOf(detected, accepted) {
		s.LogDebug(ctx, "Upload content type does not match extension",
			slog.String("filename", name), slog.String("detected", detected.String()))
		return nil, apperrors.NewValidationError("file", "file content does not match its extension")
	}

	now := s.Now()
	upload := domain.TemporaryUpload{
		Folder:    uuid.NewString() + "-" + strconv.FormatInt(now.Unix(), 10),
		Filename:  name,
		CreatedAt: now,
	}

	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), content), s.maxBytes)
	if err := s.store.Put(ctx, domain.TempUploadPath(upload.Folder, upload.Filename), body); err != nil {
		s.LogError(ctx, err, "Failed to store upload", slog.String("folder", upload.Folder))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if err := s.uploadRepo.SaveUpload(ctx, upload); err != nil {
		s.LogError(ctx, err, "Failed to record upload", slog.String("folder", upload.Folder))
		if delErr := s.store.DeleteDirectory(ctx, domain.TempUploadDir(upload.Folder)); delErr != nil {
			s.LogError(ctx, delErr, "Failed to clean up upload folder", slog.String("folder", upload.Folder))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Upload staged", slog.String("folder", upload.Folder), slog.String("filename", upload.Filename))
	return &upload, nil
}

func mimetypeIsOneOf(m *mimetype.MIME, accepted []string) bool {
	for detected := m; detected != nil; detected = detected.Parent() {
		for _, a := range accepted {
			if detected.Is(a) {
				return true
			}
		}
	}
	return false
}

func (s *uploadService) RevertUpload(ctx context.Context, folder string) error {
	upload, err := s.uploadRepo.FindUploadByFolder(ctx, folder)
	if err != nil {
		return err
	}

	if err := s.store.DeleteDirectory(ctx, domain.TempUploadDir(upload.Folder)); err != nil {
		s.LogError(ctx, err, "Failed to delete upload folder", slog.String("folder", folder))
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if err := s.uploadRepo.DeleteUpload(ctx, upload.Folder); err != nil {
		return err
	}

	s.LogInfo(ctx, "Upload reverted", slog.String("folder", folder))
	return nil
}

func (s *uploadService) PruneUploads(ctx context.Context, ttl time.Duration) (dto.PruneResult, error) {
	var result dto.PruneResult
	cutoff := s.Now().Add(-ttl)

	uploads, err := s.uploadRepo.ListUploadsOlderThan(ctx, cutoff)
	if err != nil {
		return result, err
	}

	for _, upload := range uploads {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.store.DeleteDirectory(ctx, domain.TempUploadDir(upload.Folder)); err != nil {
			s.LogError(ctx, err, "Failed to delete stale upload folder", slog.String("folder", upload.Folder))
			result.Failed++
			continue
		}
		if err := s.uploadRepo.DeleteUpload(ctx, upload.Folder); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete stale upload record", slog.String("folder", upload.Folder))
			result.Failed++
			continue
		}
		result.Removed++
	}

	s.LogInfo(ctx, "Pruned temporary uploads",
		slog.Time("cutoff", cutoff), slog.Int("removed", result.Removed), slog.Int("failed", result.Failed))
	return result, nil
}
