package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock DisbursementService ---
type MockDisbursementService struct {
	mock.Mock
}

var _ portssvc.DisbursementSvcFacade = (*MockDisbursementService)(nil)

func (m *MockDisbursementService) GetDisbursement(ctx context.Context, disbursementID string) (*domain.Disbursement, error) {
	args := m.Called(ctx, disbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Disbursement), args.Error(1)
}

func (m *MockDisbursementService) ListDisbursements(ctx context.Context, params dto.ListDisbursementsParams) (*domain.DisbursementPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisbursementPage), args.Error(1)
}

func (m *MockDisbursementService) GetTrackingHistory(ctx context.Context, disbursementID string) ([]domain.TrackingEntry, error) {
	args := m.Called(ctx, disbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrackingEntry), args.Error(1)
}

func (m *MockDisbursementService) SubmitDisbursement(ctx context.Context, req dto.CreateDisbursementRequest, actor domain.Actor) (*domain.SubmitResult, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmitResult), args.Error(1)
}

func (m *MockDisbursementService) ApproveDisbursement(ctx context.Context, disbursementID string, actor domain.Actor, remarks *string) (*domain.Disbursement, error) {
	args := m.Called(ctx, disbursementID, actor, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Disbursement), args.Error(1)
}

func (m *MockDisbursementService) DeclineDisbursement(ctx context.Context, disbursementID string, actor domain.Actor, remarks *string) (*domain.Disbursement, error) {
	args := m.Called(ctx, disbursementID, actor, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Disbursement), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Int(1), args.Error(2)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, actor domain.Actor) error {
	args := m.Called(ctx, accountID, actor)
	return args.Error(0)
}

func (m *MockAccountService) ToggleAccountStatus(ctx context.Context, accountID string, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, accountID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock AttachmentService ---
type MockAttachmentService struct {
	mock.Mock
}

var _ portssvc.AttachmentSvcFacade = (*MockAttachmentService)(nil)

func (m *MockAttachmentService) FinalizeAttachments(ctx context.Context, tx pgx.Tx, disbursementID string, folders []string) ([]domain.Attachment, []string, error) {
	args := m.Called(ctx, tx, disbursementID, folders)
	return nil, nil, args.Error(2)
}

func (m *MockAttachmentService) OpenAttachment(ctx context.Context, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	args := m.Called(ctx, attachmentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Attachment), args.Get(1).(io.ReadCloser), args.Error(2)
}

// --- Mock UploadService ---
type MockUploadService struct {
	mock.Mock
}

var _ portssvc.UploadSvcFacade = (*MockUploadService)(nil)

func (m *MockUploadService) StageUpload(ctx context.Context, filename string, size int64, content io.Reader) (*domain.TemporaryUpload, error) {
	args := m.Called(ctx, filename, size, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TemporaryUpload), args.Error(1)
}

func (m *MockUploadService) RevertUpload(ctx context.Context, folder string) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockUploadService) PruneUploads(ctx context.Context, ttl time.Duration) (dto.PruneResult, error) {
	args := m.Called(ctx, ttl)
	return args.Get(0).(dto.PruneResult), args.Error(1)
}
