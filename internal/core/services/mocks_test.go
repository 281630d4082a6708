package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disbursement_app/internal/core/ports/services"
	"github.com/SscSPs/disbursement_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock DisbursementRepository ---
type MockDisbursementRepository struct {
	mock.Mock
}

var _ portsrepo.DisbursementRepositoryWithTx = (*MockDisbursementRepository)(nil)

func (m *MockDisbursementRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockDisbursementRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDisbursementRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDisbursementRepository) FindDisbursementByID(ctx context.Context, disbursementID string) (*domain.Disbursement, error) {
	args := m.Called(ctx, disbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Disbursement), args.Error(1)
}

func (m *MockDisbursementRepository) ListDisbursements(ctx context.Context, filter domain.DisbursementFilter) (*domain.DisbursementPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisbursementPage), args.Error(1)
}

func (m *MockDisbursementRepository) FindLineItemsByDisbursementID(ctx context.Context, disbursementID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, disbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockDisbursementRepository) FindTrackingByDisbursementID(ctx context.Context, disbursementID string) ([]domain.TrackingEntry, error) {
	args := m.Called(ctx, disbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrackingEntry), args.Error(1)
}

func (m *MockDisbursementRepository) FindAttachmentsByDisbursementID(ctx context.Context, disbursementID string) ([]domain.Attachment, error) {
	args := m.Called(ctx, disbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attachment), args.Error(1)
}

func (m *MockDisbursementRepository) FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error) {
	args := m.Called(ctx, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *MockDisbursementRepository) FindDisbursementByIDForUpdate(ctx context.Context, tx pgx.Tx, disbursementID string) (*domain.Disbursement, error) {
	args := m.Called(ctx, tx, disbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Disbursement), args.Error(1)
}

func (m *MockDisbursementRepository) SaveDisbursementInTx(ctx context.Context, tx pgx.Tx, disbursement domain.Disbursement) error {
	args := m.Called(ctx, tx, disbursement)
	return args.Error(0)
}

func (m *MockDisbursementRepository) SaveLineItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.LineItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockDisbursementRepository) SaveAttachmentInTx(ctx context.Context, tx pgx.Tx, attachment domain.Attachment) error {
	args := m.Called(ctx, tx, attachment)
	return args.Error(0)
}

func (m *MockDisbursementRepository) AppendTrackingInTx(ctx context.Context, tx pgx.Tx, entry domain.TrackingEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockDisbursementRepository) UpdateDisbursementStateInTx(ctx context.Context, tx pgx.Tx, disbursementID string, fromStep int, toStep int, toStatus domain.Status, now time.Time) error {
	args := m.Called(ctx, tx, disbursementID, fromStep, toStep, toStatus, now)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Int(1), args.Error(2)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, from, to domain.AccountStatus, now time.Time) error {
	args := m.Called(ctx, accountID, from, to, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Mock TemporaryUploadRepository ---
type MockUploadRepository struct {
	mock.Mock
}

var _ portsrepo.TemporaryUploadRepositoryFacade = (*MockUploadRepository)(nil)

func (m *MockUploadRepository) FindUploadByFolder(ctx context.Context, folder string) (*domain.TemporaryUpload, error) {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TemporaryUpload), args.Error(1)
}

func (m *MockUploadRepository) FindUploadByFolderInTx(ctx context.Context, tx pgx.Tx, folder string) (*domain.TemporaryUpload, error) {
	args := m.Called(ctx, tx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TemporaryUpload), args.Error(1)
}

func (m *MockUploadRepository) ListUploadsOlderThan(ctx context.Context, cutoff time.Time) ([]domain.TemporaryUpload, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TemporaryUpload), args.Error(1)
}

func (m *MockUploadRepository) SaveUpload(ctx context.Context, upload domain.TemporaryUpload) error {
	args := m.Called(ctx, upload)
	return args.Error(0)
}

func (m *MockUploadRepository) DeleteUpload(ctx context.Context, folder string) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockUploadRepository) DeleteUploadInTx(ctx context.Context, tx pgx.Tx, folder string) error {
	args := m.Called(ctx, tx, folder)
	return args.Error(0)
}

// --- Mock AccountService (as used by the disbursement workflow) ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountReaderSvc = (*MockAccountService)(nil)

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

// --- Mock AttachmentBinder ---
type MockAttachmentBinder struct {
	mock.Mock
}

var _ portssvc.AttachmentBinderSvc = (*MockAttachmentBinder)(nil)

func (m *MockAttachmentBinder) FinalizeAttachments(ctx context.Context, tx pgx.Tx, disbursementID string, folders []string) ([]domain.Attachment, []string, error) {
	args := m.Called(ctx, tx, disbursementID, folders)
	var attachments []domain.Attachment
	if args.Get(0) != nil {
		attachments = args.Get(0).([]domain.Attachment)
	}
	var skipped []string
	if args.Get(1) != nil {
		skipped = args.Get(1).([]string)
	}
	return attachments, skipped, args.Error(2)
}

// --- Mock TransitionLocker ---
type MockLocker struct {
	mock.Mock
	released int
}

var _ ports.TransitionLocker = (*MockLocker)(nil)

func (m *MockLocker) Obtain(ctx context.Context, key string) (ports.ReleaseFunc, error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}
