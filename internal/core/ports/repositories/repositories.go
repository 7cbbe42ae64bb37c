package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

// AccountRepository persists the chart of accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)
	FindAccountBySubType(ctx context.Context, subType domain.AccountSubType) (*domain.Account, error)
	ListAccounts(ctx context.Context, includeInactive bool, limit, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeactivateAccount(ctx context.Context, code string, userID string, now time.Time) error
	DeleteAccount(ctx context.Context, code string) error
	HasLedgerHistory(ctx context.Context, code string) (bool, error)

	// FindAccountsByCodesForUpdate locks the account rows for the duration of
	// the surrounding transaction. Must be called within tx.
	FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, codes []string) (map[string]domain.Account, error)
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// BatchRepository persists transaction batches and their ledger entries.
type BatchRepository interface {
	// SaveBatch persists the batch, its entries with balance snapshots, the
	// account balance increments and the wallet balance increments in a
	// single database transaction. Nothing survives a failure at any step.
	SaveBatch(ctx context.Context, batch domain.TransactionBatch, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, walletDeltas []domain.WalletDelta) error

	FindBatchByID(ctx context.Context, batchID string) (*domain.TransactionBatch, error)
	FindEntriesByBatchID(ctx context.Context, batchID string) ([]domain.LedgerEntry, error)
	ListBatches(ctx context.Context, filter BatchFilter, limit int, nextToken *string) ([]domain.TransactionBatch, *string, error)
	ListEntries(ctx context.Context, filter EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	ListEntriesByAccount(ctx context.Context, accountCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	MarkBatchReversed(ctx context.Context, tx pgx.Tx, batchID string, reversedByBatchID string, userID string, now time.Time) error
	CountBatchesByCategory(ctx context.Context, category domain.BatchCategory) (int64, error)
}

// BatchFilter narrows batch listings.
type BatchFilter struct {
	Category  *domain.BatchCategory
	Status    *domain.BatchStatus
	WalletID  *string
	UserID    *string
	From      *time.Time
	To        *time.Time
}

// EntryFilter narrows ledger entry listings.
type EntryFilter struct {
	AccountCode *string
	WalletID    *string
	BatchID     *string
	EntryType   *domain.EntryType
}

// WalletRepository persists unified wallet projections.
type WalletRepository interface {
	SaveWallet(ctx context.Context, wallet domain.UnifiedWallet) error
	FindWalletByID(ctx context.Context, walletID string) (*domain.UnifiedWallet, error)
	FindWalletByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (*domain.UnifiedWallet, error)
	ListWallets(ctx context.Context, filter WalletFilter, limit, offset int) ([]domain.UnifiedWallet, int64, error)
	UpdateWalletStatus(ctx context.Context, walletID string, status domain.WalletStatus, reason, actorID string, now time.Time) error

	// SumSpentToday returns the total debited from the wallet since midnight
	// UTC, used to enforce the daily transaction limit.
	SumSpentToday(ctx context.Context, walletID string, now time.Time) (decimal.Decimal, error)
}

// WalletFilter narrows wallet listings.
type WalletFilter struct {
	OwnerType *domain.OwnerType
	Status    *domain.WalletStatus
}

// ReportingRepository reads persisted ledger state without mutating it.
type ReportingRepository interface {
	GetTrialBalanceAccounts(ctx context.Context) ([]domain.Account, error)
	GetVolumeByCategory(ctx context.Context, from, to time.Time) ([]domain.CategoryVolume, error)
	GetVolumeByDay(ctx context.Context, from, to time.Time) ([]domain.DailyVolume, error)
	GetRevenueAccounts(ctx context.Context) ([]domain.Account, error)
	GetWalletTotalsByOwnerType(ctx context.Context) (map[domain.OwnerType]struct {
		Count int64
		Total decimal.Decimal
	}, error)
	GetDashboardMetrics(ctx context.Context, now time.Time) (*domain.DashboardMetrics, error)
}

// LegacyRepository reads the pre-ledger transaction store during migration.
type LegacyRepository interface {
	LegacyTableExists(ctx context.Context) (bool, error)
	CountLegacyTransactions(ctx context.Context) (int64, error)
	ListLegacyTransactions(ctx context.Context) ([]domain.LegacyTransaction, error)
	DropLegacyTable(ctx context.Context) error
}

// RepositoryContainer bundles all repositories for dependency injection.
type RepositoryContainer struct {
	Account   AccountRepository
	Batch     BatchRepository
	Wallet    WalletRepository
	Reporting ReportingRepository
	Legacy    LegacyRepository
}
