package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/core/services"
	"github.com/telemedix/ledger-backend/internal/dto"
)

type MigrationServiceTestSuite struct {
	suite.Suite
	mockLegacyRepo *MockLegacyRepository
	mockBatchRepo  *MockBatchRepository
	mockRecorder   *MockBatchRecorder
	mockWallets    *MockWalletWriter
	service        portssvc.MigrationSvc
}

func (suite *MigrationServiceTestSuite) SetupTest() {
	suite.mockLegacyRepo = new(MockLegacyRepository)
	suite.mockBatchRepo = new(MockBatchRepository)
	suite.mockRecorder = new(MockBatchRecorder)
	suite.mockWallets = new(MockWalletWriter)
	suite.service = services.NewMigrationService(suite.mockLegacyRepo, suite.mockBatchRepo, suite.mockRecorder, suite.mockWallets)
}

func legacyRecord(id string, amount decimal.Decimal, narration string) domain.LegacyTransaction {
	return domain.LegacyTransaction{
		LegacyID:   id,
		OwnerID:    "pat-1",
		OwnerType:  domain.OwnerPatient,
		Amount:     amount,
		Narration:  narration,
		OccurredAt: time.Date(2024, 11, 3, 9, 30, 0, 0, time.UTC),
	}
}

func (suite *MigrationServiceTestSuite) TestStatus() {
	ctx := context.Background()
	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(true, nil).Once()
	suite.mockLegacyRepo.On("CountLegacyTransactions", ctx).Return(int64(42), nil).Once()
	suite.mockBatchRepo.On("CountBatchesByCategory", ctx, domain.CategoryMigration).Return(int64(30), nil).Once()
	suite.mockBatchRepo.On("CountBatchesByCategory", ctx, domain.CategoryMigrationUncategorized).Return(int64(5), nil).Once()

	status, err := suite.service.Status(ctx)

	suite.Require().NoError(err)
	suite.True(status.LegacyTableExists)
	suite.Equal(int64(42), status.PendingRecords)
	suite.Equal(int64(35), status.MigratedBatches)
}

func (suite *MigrationServiceTestSuite) TestStatus_TableAbsent() {
	ctx := context.Background()
	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(false, nil).Once()
	suite.mockBatchRepo.On("CountBatchesByCategory", ctx, domain.CategoryMigration).Return(int64(0), nil).Once()
	suite.mockBatchRepo.On("CountBatchesByCategory", ctx, domain.CategoryMigrationUncategorized).Return(int64(0), nil).Once()

	status, err := suite.service.Status(ctx)

	suite.Require().NoError(err)
	suite.False(status.LegacyTableExists)
	suite.Equal(int64(0), status.PendingRecords)
	suite.mockLegacyRepo.AssertNotCalled(suite.T(), "CountLegacyTransactions", mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestRun_TableMissing() {
	ctx := context.Background()
	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(false, nil).Once()

	summary, err := suite.service.Run(ctx, false, "admin-1")

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *MigrationServiceTestSuite) TestRun_PositiveAmountCreditsWallet() {
	ctx := context.Background()
	record := legacyRecord("leg-1", decimal.NewFromInt(80), "Wallet top up via card")

	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(true, nil).Once()
	suite.mockLegacyRepo.On("ListLegacyTransactions", ctx).Return([]domain.LegacyTransaction{record}, nil).Once()
	suite.mockWallets.On("EnsureWallet", ctx, "pat-1", domain.OwnerPatient, "admin-1").
		Return(&domain.UnifiedWallet{WalletID: "wal_1", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}, nil).Once()

	suite.mockRecorder.On("RecordTransaction", ctx, mock.MatchedBy(func(req dto.RecordTransactionRequest) bool {
		if req.Category != domain.CategoryMigration || len(req.Entries) != 2 {
			return false
		}
		offset, wallet := req.Entries[0], req.Entries[1]
		return offset.AccountCode == domain.AccountOpeningBalance &&
			offset.EntryType == domain.Debit &&
			wallet.AccountCode == "2100.001.001" &&
			wallet.EntryType == domain.Credit &&
			wallet.Amount.Equal(decimal.NewFromInt(80)) &&
			req.Metadata["legacyCategory"] == string(domain.CategoryTopUp) &&
			req.Metadata["legacyID"] == "leg-1" &&
			req.OccurredAt != nil && req.OccurredAt.Equal(record.OccurredAt)
	})).Return(&domain.TransactionBatch{BatchID: "bat_1"}, nil).Once()

	summary, err := suite.service.Run(ctx, false, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(1, summary.Migrated)
	suite.Equal(0, summary.Failed)
	suite.Equal(0, summary.Uncategorized)
	suite.mockRecorder.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestRun_NegativeAmountDebitsWallet() {
	ctx := context.Background()
	record := legacyRecord("leg-2", decimal.NewFromInt(-30), "Withdrawal to bank")

	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(true, nil).Once()
	suite.mockLegacyRepo.On("ListLegacyTransactions", ctx).Return([]domain.LegacyTransaction{record}, nil).Once()
	suite.mockWallets.On("EnsureWallet", ctx, "pat-1", domain.OwnerPatient, "admin-1").
		Return(&domain.UnifiedWallet{WalletID: "wal_1", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}, nil).Once()

	suite.mockRecorder.On("RecordTransaction", ctx, mock.MatchedBy(func(req dto.RecordTransactionRequest) bool {
		offset, wallet := req.Entries[0], req.Entries[1]
		return offset.EntryType == domain.Credit &&
			wallet.EntryType == domain.Debit &&
			wallet.Amount.Equal(decimal.NewFromInt(30)) &&
			req.Metadata["legacyCategory"] == string(domain.CategoryWithdrawal)
	})).Return(&domain.TransactionBatch{BatchID: "bat_2"}, nil).Once()

	summary, err := suite.service.Run(ctx, false, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(1, summary.Migrated)
}

func (suite *MigrationServiceTestSuite) TestRun_UnmatchedNarrationLandsUncategorized() {
	ctx := context.Background()
	record := legacyRecord("leg-3", decimal.NewFromInt(15), "misc adj 17")

	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(true, nil).Once()
	suite.mockLegacyRepo.On("ListLegacyTransactions", ctx).Return([]domain.LegacyTransaction{record}, nil).Once()
	suite.mockWallets.On("EnsureWallet", ctx, "pat-1", domain.OwnerPatient, "admin-1").
		Return(&domain.UnifiedWallet{WalletID: "wal_1", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}, nil).Once()

	suite.mockRecorder.On("RecordTransaction", ctx, mock.MatchedBy(func(req dto.RecordTransactionRequest) bool {
		_, tagged := req.Metadata["legacyCategory"]
		return req.Category == domain.CategoryMigrationUncategorized && !tagged
	})).Return(&domain.TransactionBatch{BatchID: "bat_3"}, nil).Once()

	summary, err := suite.service.Run(ctx, false, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(1, summary.Migrated)
	suite.Equal(1, summary.Uncategorized)
}

func (suite *MigrationServiceTestSuite) TestRun_FailureKeepsLegacyTable() {
	ctx := context.Background()
	records := []domain.LegacyTransaction{
		legacyRecord("leg-4", decimal.NewFromInt(10), "Deposit"),
		legacyRecord("leg-5", decimal.Zero, "Zero amount junk"),
	}

	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(true, nil).Once()
	suite.mockLegacyRepo.On("ListLegacyTransactions", ctx).Return(records, nil).Once()
	suite.mockWallets.On("EnsureWallet", ctx, "pat-1", domain.OwnerPatient, "admin-1").
		Return(&domain.UnifiedWallet{WalletID: "wal_1", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}, nil).Once()
	suite.mockRecorder.On("RecordTransaction", ctx, mock.Anything).
		Return(&domain.TransactionBatch{BatchID: "bat_4"}, nil).Once()

	summary, err := suite.service.Run(ctx, true, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(1, summary.Migrated)
	suite.Equal(1, summary.Failed)
	suite.False(summary.LegacyDropped)
	suite.mockLegacyRepo.AssertNotCalled(suite.T(), "DropLegacyTable", mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestRun_DropsLegacyTableOnCleanRun() {
	ctx := context.Background()
	record := legacyRecord("leg-6", decimal.NewFromInt(10), "Deposit")

	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(true, nil).Once()
	suite.mockLegacyRepo.On("ListLegacyTransactions", ctx).Return([]domain.LegacyTransaction{record}, nil).Once()
	suite.mockWallets.On("EnsureWallet", ctx, "pat-1", domain.OwnerPatient, "admin-1").
		Return(&domain.UnifiedWallet{WalletID: "wal_1", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}, nil).Once()
	suite.mockRecorder.On("RecordTransaction", ctx, mock.Anything).
		Return(&domain.TransactionBatch{BatchID: "bat_5"}, nil).Once()
	suite.mockLegacyRepo.On("DropLegacyTable", ctx).Return(nil).Once()

	summary, err := suite.service.Run(ctx, true, "admin-1")

	suite.Require().NoError(err)
	suite.True(summary.LegacyDropped)
	suite.mockLegacyRepo.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestRun_RecorderFailureRollsBackUncategorizedCount() {
	ctx := context.Background()
	record := legacyRecord("leg-7", decimal.NewFromInt(12), "mystery movement")

	suite.mockLegacyRepo.On("LegacyTableExists", ctx).Return(true, nil).Once()
	suite.mockLegacyRepo.On("ListLegacyTransactions", ctx).Return([]domain.LegacyTransaction{record}, nil).Once()
	suite.mockWallets.On("EnsureWallet", ctx, "pat-1", domain.OwnerPatient, "admin-1").
		Return(&domain.UnifiedWallet{WalletID: "wal_1", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}, nil).Once()
	suite.mockRecorder.On("RecordTransaction", ctx, mock.Anything).
		Return(nil, errors.New("save failed")).Once()

	summary, err := suite.service.Run(ctx, false, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(0, summary.Migrated)
	suite.Equal(1, summary.Failed)
	suite.Equal(0, summary.Uncategorized)
}

func TestMigrationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MigrationServiceTestSuite))
}
