package pgsql

import (
	portsrepo "github.com/SscSPs/disbursement_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		DisbursementRepo: newPgxDisbursementRepository(dbPool),
		UploadRepo:       newPgxTemporaryUploadRepository(dbPool),
	}
}
