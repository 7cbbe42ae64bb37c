package services

import (
	"context"

	"github.com/telemedix/ledger-backend/internal/core/domain"
	"github.com/telemedix/ledger-backend/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByCode retrieves a specific account by its account code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts, optionally
	// including deactivated ones.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// GetAccountStatement retrieves an account together with a page of its
	// posted ledger entries, newest first.
	GetAccountStatement(ctx context.Context, code string, limit int, nextToken *string) (*domain.Account, []domain.LedgerEntry, *string, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new account with a zero opening balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's descriptive details.
	UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive, blocking new postings.
	DeactivateAccount(ctx context.Context, code string, userID string) error

	// DeleteAccount hard-deletes an account. Refused for system accounts and
	// for any account that already carries ledger history.
	DeleteAccount(ctx context.Context, code string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
