package services

import (
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, store ports.BlobStore, locker ports.TransitionLocker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Attachment = NewAttachmentService(repos.DisbursementRepo, repos.UploadRepo, store)
	container.Upload = NewUploadService(repos.UploadRepo, store, WithUploadMaxBytes(cfg.UploadMaxBytes))

	// The disbursement workflow binds attachments through the attachment service
	container.Disbursement = NewDisbursementService(
		repos.DisbursementRepo,
		container.Account,
		container.Attachment,
		WithOverrideRole(cfg.OverrideRole),
		WithTransitionLocker(locker),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.DisbursementSvcFacade = (*disbursementService)(nil)
	_ portssvc.AttachmentSvcFacade   = (*attachmentService)(nil)
	_ portssvc.UploadSvcFacade       = (*uploadService)(nil)
)
