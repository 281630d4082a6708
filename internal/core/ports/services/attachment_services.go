package services

import (
	"context"
	"io"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AttachmentBinderSvc finalizes staged uploads into attachments of a disbursement.
type AttachmentBinderSvc interface {
	// FinalizeAttachments binds each staged folder to the disbursement within tx.
	// Folders without a staging record, or whose blob could not be moved, are returned as skipped.
	FinalizeAttachments(ctx context.Context, tx pgx.Tx, disbursementID string, folders []string) ([]domain.Attachment, []string, error)
}

// AttachmentDownloadSvc resolves attachments for download.
type AttachmentDownloadSvc interface {
	// OpenAttachment returns the attachment and a reader over its content. The caller closes the reader.
	OpenAttachment(ctx context.Context, attachmentID string) (*domain.Attachment, io.ReadCloser, error)
}

// AttachmentSvcFacade combines all attachment-related service interfaces
type AttachmentSvcFacade interface {
	AttachmentBinderSvc
	AttachmentDownloadSvc
}
