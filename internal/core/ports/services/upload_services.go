package services

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/dto"
)

// UploadSvcFacade stages and cleans up temporary uploads.
type UploadSvcFacade interface {
	// StageUpload stores content under a new staging folder and records it.
	StageUpload(ctx context.Context, filename string, size int64, content io.Reader) (*domain.TemporaryUpload, error)

	// RevertUpload removes a staged upload and its folder.
	RevertUpload(ctx context.Context, folder string) error

	// PruneUploads removes staged uploads created before now minus ttl.
	PruneUploads(ctx context.Context, ttl time.Duration) (dto.PruneResult, error)
}
