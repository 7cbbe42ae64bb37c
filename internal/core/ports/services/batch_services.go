package services

import (
	"context"

	"github.com/telemedix/ledger-backend/internal/core/domain"
	"github.com/telemedix/ledger-backend/internal/dto"
)

// BatchRecorderSvc is the single entry point for posting value movements.
// Every business module records money through RecordTransaction; nothing
// else writes ledger entries.
type BatchRecorderSvc interface {
	// RecordTransaction validates, balances and atomically persists a
	// transaction batch, updating account balances and wallet projections.
	RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest) (*domain.TransactionBatch, error)
}

// BatchReaderSvc defines read operations for posted batches and entries
type BatchReaderSvc interface {
	// GetBatchByID retrieves a batch together with its ledger entries.
	GetBatchByID(ctx context.Context, batchID string) (*domain.TransactionBatch, error)

	// ListBatches retrieves a token-paginated list of batches, newest first.
	ListBatches(ctx context.Context, params dto.ListBatchesParams) ([]domain.TransactionBatch, *string, error)

	// ListEntries retrieves a token-paginated list of ledger entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.LedgerEntry, *string, error)
}

// BatchAdminSvc defines the admin-facing operations built on the recorder
type BatchAdminSvc interface {
	// AdminCreditWallet credits a wallet from an admin-chosen source account.
	AdminCreditWallet(ctx context.Context, walletID string, req dto.CreditWalletRequest, userID string) (*domain.TransactionBatch, error)

	// AdminDebitWallet debits a wallet into an admin-chosen destination account.
	AdminDebitWallet(ctx context.Context, walletID string, req dto.DebitWalletRequest, userID string) (*domain.TransactionBatch, error)

	// CreateJournalEntry posts an arbitrary balanced batch for manual corrections.
	CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.TransactionBatch, error)

	// FundOperatingAccount moves value from retained earnings into the
	// operating fund asset account.
	FundOperatingAccount(ctx context.Context, req dto.FundOperatingAccountRequest, userID string) (*domain.TransactionBatch, error)

	// ReverseBatch posts a mirror-image batch that undoes a posted batch.
	// A batch can be reversed at most once.
	ReverseBatch(ctx context.Context, batchID string, reason string, userID string) (*domain.TransactionBatch, error)
}

// BatchSvcFacade combines all batch-related service interfaces
type BatchSvcFacade interface {
	BatchRecorderSvc
	BatchReaderSvc
	BatchAdminSvc
}
