package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const fallbackMimeType = "application/octet-stream"

// attachmentService implements the AttachmentSvcFacade interface
type attachmentService struct {
	BaseService
	disbursementRepo portsrepo.DisbursementRepositoryFacade
	uploadRepo       portsrepo.TemporaryUploadRepositoryFacade
	store            ports.BlobStore
}

// AttachmentServiceOption is a functional option for configuring the attachment service
type AttachmentServiceOption func(*attachmentService)

// WithAttachmentClock overrides the service clock.
func WithAttachmentClock(now func() time.Time) AttachmentServiceOption {
	return func(s *attachmentService) {
		s.now = now
	}
}

// NewAttachmentService creates the attachment binder and download service.
func NewAttachmentService(disbursementRepo portsrepo.DisbursementRepositoryFacade, uploadRepo portsrepo.TemporaryUploadRepositoryFacade, store ports.BlobStore, options ...AttachmentServiceOption) portssvc.AttachmentSvcFacade {
	svc := &attachmentService{
		disbursementRepo: disbursementRepo,
		uploadRepo:       uploadRepo,
		store:            store,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AttachmentSvcFacade = (*attachmentService)(nil)

// FinalizeAttachments moves each staged upload to its permanent location and records it.
// Database failures abort the batch so the caller's transaction rolls back. Blob moves
// are not undone on rollback.
func (s *attachmentService) FinalizeAttachments(ctx context.Context, tx pgx.Tx, disbursementID string, folders []string) ([]domain.Attachment, []string, error) {
	attachments := make([]domain.Attachment, 0, len(folders))
	var skipped []string

	for _, folder := range folders {
		attachment, err := s.finalizeOne(ctx, tx, disbursementID, folder)
		switch {
		case err == nil:
			attachments = append(attachments, *attachment)
		case errors.Is(err, apperrors.ErrNotFound):
			s.LogWarn(ctx, err, "Temporary upload not found, skipping", slog.String("folder", folder))
			skipped = append(skipped, folder)
		case errors.Is(err, apperrors.ErrStorage):
			s.LogError(ctx, err, "Failed to move attachment, skipping", slog.String("folder", folder))
			skipped = append(skipped, folder)
		default:
			return nil, nil, err
		}
	}

	return attachments, skipped, nil
}

func (s *attachmentService) finalizeOne(ctx context.Context, tx pgx.Tx, disbursementID, folder string) (*domain.Attachment, error) {
	upload, err := s.uploadRepo.FindUploadByFolderInTx(ctx, tx, folder)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	tempPath := domain.TempUploadPath(upload.Folder, upload.Filename)
	finalPath, err := s.availablePath(ctx, now, upload)
	if err != nil {
		return nil, err
	}

	if err := s.store.Move(ctx, tempPath, finalPath); err != nil {
		return nil, fmt.Errorf("%w: move %s: %v", apperrors.ErrStorage, tempPath, err)
	}

	mimeType, err := s.store.MimeType(ctx, finalPath)
	if err != nil || mimeType == "" {
		if err != nil {
			s.LogWarn(ctx, err, "Could not resolve attachment content type", slog.String("path", finalPath))
		}
		mimeType = fallbackMimeType
	}

	attachment := domain.Attachment{
		AttachmentID:   uuid.NewString(),
		DisbursementID: disbursementID,
		FilePath:       finalPath,
		FileName:       upload.Filename,
		FileType:       mimeType,
		CreatedAt:      now,
	}
	if err := s.disbursementRepo.SaveAttachmentInTx(ctx, tx, attachment); err != nil {
		s.discardBlob(ctx, finalPath)
		return nil, err
	}
	if err := s.uploadRepo.DeleteUploadInTx(ctx, tx, upload.Folder); err != nil {
		s.discardBlob(ctx, finalPath)
		return nil, err
	}

	if err := s.store.DeleteDirectory(ctx, domain.TempUploadDir(upload.Folder)); err != nil {
		s.LogWarn(ctx, err, "Failed to delete temporary upload folder", slog.String("folder", upload.Folder))
	}

	return &attachment, nil
}

// discardBlob removes a moved blob whose attachment row was not written. Failures are only logged.
func (s *attachmentService) discardBlob(ctx context.Context, finalPath string) {
	if err := s.store.Delete(ctx, finalPath); err != nil {
		s.LogWarn(ctx, err, "Failed to remove orphaned attachment blob", slog.String("path", finalPath))
	}
}

// availablePath returns the dated location for the upload, prefixing the folder when a
// file of the same name was already finalized that day.
func (s *attachmentService) availablePath(ctx context.Context, now time.Time, upload *domain.TemporaryUpload) (string, error) {
	finalPath := domain.AttachmentPath(now, upload.Filename)
	exists, err := s.store.Exists(ctx, finalPath)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %v", apperrors.ErrStorage, finalPath, err)
	}
	if !exists {
		return finalPath, nil
	}
	return path.Join(path.Dir(finalPath), upload.Folder+"_"+upload.Filename), nil
}

// OpenAttachment resolves the attachment row and opens its blob.
func (s *attachmentService) OpenAttachment(ctx context.Context, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	attachment, err := s.disbursementRepo.FindAttachmentByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	exists, err := s.store.Exists(ctx, attachment.FilePath)
	if err != nil {
		s.LogError(ctx, err, "Failed to check attachment blob", slog.String("attachment_id", attachmentID))
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if !exists {
		s.LogWarn(ctx, apperrors.ErrNotFound, "Attachment blob missing", slog.String("attachment_id", attachmentID), slog.String("path", attachment.FilePath))
		return nil, nil, fmt.Errorf("%w: file not found", apperrors.ErrNotFound)
	}

	rc, err := s.store.Open(ctx, attachment.FilePath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to open attachment blob", slog.String("attachment_id", attachmentID))
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return attachment, rc, nil
}
