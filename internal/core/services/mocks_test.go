package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
	"github.com/telemedix/ledger-backend/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountBySubType(ctx context.Context, subType domain.AccountSubType) (*domain.Account, error) {
	args := m.Called(ctx, subType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, includeInactive bool, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, code string, userID string, now time.Time) error {
	args := m.Called(ctx, code, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockAccountRepository) HasLedgerHistory(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// MockBatchRepository is a mock type for the BatchRepository interface
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) SaveBatch(ctx context.Context, batch domain.TransactionBatch, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, walletDeltas []domain.WalletDelta) error {
	args := m.Called(ctx, batch, entries, balanceChanges, walletDeltas)
	return args.Error(0)
}

func (m *MockBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.TransactionBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionBatch), args.Error(1)
}

func (m *MockBatchRepository) FindEntriesByBatchID(ctx context.Context, batchID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockBatchRepository) ListBatches(ctx context.Context, filter portsrepo.BatchFilter, limit int, nextToken *string) ([]domain.TransactionBatch, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.TransactionBatch), next, args.Error(2)
}

func (m *MockBatchRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}

func (m *MockBatchRepository) ListEntriesByAccount(ctx context.Context, accountCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountCode, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}

func (m *MockBatchRepository) MarkBatchReversed(ctx context.Context, tx pgx.Tx, batchID string, reversedByBatchID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, batchID, reversedByBatchID, userID, now)
	return args.Error(0)
}

func (m *MockBatchRepository) CountBatchesByCategory(ctx context.Context, category domain.BatchCategory) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

// MockWalletRepository is a mock type for the WalletRepository interface
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) SaveWallet(ctx context.Context, wallet domain.UnifiedWallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.UnifiedWallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnifiedWallet), args.Error(1)
}

func (m *MockWalletRepository) FindWalletByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (*domain.UnifiedWallet, error) {
	args := m.Called(ctx, ownerID, ownerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnifiedWallet), args.Error(1)
}

func (m *MockWalletRepository) ListWallets(ctx context.Context, filter portsrepo.WalletFilter, limit, offset int) ([]domain.UnifiedWallet, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.UnifiedWallet), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletRepository) UpdateWalletStatus(ctx context.Context, walletID string, status domain.WalletStatus, reason, actorID string, now time.Time) error {
	args := m.Called(ctx, walletID, status, reason, actorID, now)
	return args.Error(0)
}

func (m *MockWalletRepository) SumSpentToday(ctx context.Context, walletID string, now time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, walletID, now)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetTrialBalanceAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockReportingRepository) GetVolumeByCategory(ctx context.Context, from, to time.Time) ([]domain.CategoryVolume, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryVolume), args.Error(1)
}

func (m *MockReportingRepository) GetVolumeByDay(ctx context.Context, from, to time.Time) ([]domain.DailyVolume, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyVolume), args.Error(1)
}

func (m *MockReportingRepository) GetRevenueAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockReportingRepository) GetWalletTotalsByOwnerType(ctx context.Context) (map[domain.OwnerType]struct {
	Count int64
	Total decimal.Decimal
}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.OwnerType]struct {
		Count int64
		Total decimal.Decimal
	}), args.Error(1)
}

func (m *MockReportingRepository) GetDashboardMetrics(ctx context.Context, now time.Time) (*domain.DashboardMetrics, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardMetrics), args.Error(1)
}

// MockLegacyRepository is a mock type for the LegacyRepository interface
type MockLegacyRepository struct {
	mock.Mock
}

func (m *MockLegacyRepository) LegacyTableExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockLegacyRepository) CountLegacyTransactions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLegacyRepository) ListLegacyTransactions(ctx context.Context) ([]domain.LegacyTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LegacyTransaction), args.Error(1)
}

func (m *MockLegacyRepository) DropLegacyTable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockBatchRecorder is a mock type for the BatchRecorderSvc interface
type MockBatchRecorder struct {
	mock.Mock
}

func (m *MockBatchRecorder) RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest) (*domain.TransactionBatch, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionBatch), args.Error(1)
}

// MockWalletWriter is a mock type for the WalletWriterSvc interface
type MockWalletWriter struct {
	mock.Mock
}

func (m *MockWalletWriter) EnsureWallet(ctx context.Context, ownerID string, ownerType domain.OwnerType, userID string) (*domain.UnifiedWallet, error) {
	args := m.Called(ctx, ownerID, ownerType, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnifiedWallet), args.Error(1)
}

func (m *MockWalletWriter) UpdateWalletStatus(ctx context.Context, walletID string, req dto.UpdateWalletStatusRequest, userID string) (*domain.UnifiedWallet, error) {
	args := m.Called(ctx, walletID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnifiedWallet), args.Error(1)
}
