package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
)

// NewRepositoryContainer wires all pgx-backed repositories over one pool.
func NewRepositoryContainer(dbPool *pgxpool.Pool) *portsrepo.RepositoryContainer {
	accountRepo := newPgxAccountRepository(dbPool)
	batchRepo := newPgxBatchRepository(dbPool, accountRepo)
	walletRepo := newPgxWalletRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)
	legacyRepo := newPgxLegacyRepository(dbPool)

	return &portsrepo.RepositoryContainer{
		Account:   accountRepo,
		Batch:     batchRepo,
		Wallet:    walletRepo,
		Reporting: reportingRepo,
		Legacy:    legacyRepo,
	}
}
