package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
// The code must follow the DDDD.DDD.DDD chart format ("acctcode" is a
// custom validator registered at startup).
type CreateAccountRequest struct {
	Code        string                `json:"code" binding:"required,acctcode"`
	Name        string                `json:"name" binding:"required"`
	AccountType domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType     domain.AccountSubType `json:"subType"`
	Description string                `json:"description"`
}

// UpdateAccountRequest defines the fields allowed for updating an account.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse mirrors domain.Account for API output.
type AccountResponse struct {
	Code            string                `json:"code"`
	Name            string                `json:"name"`
	AccountType     domain.AccountType    `json:"accountType"`
	SubType         domain.AccountSubType `json:"subType"`
	NormalBalance   domain.NormalBalance  `json:"normalBalance"`
	CurrentBalance  decimal.Decimal       `json:"currentBalance"`
	IsSystemAccount bool                  `json:"isSystemAccount"`
	IsActive        bool                  `json:"isActive"`
	Description     string                `json:"description"`
	CreatedAt       time.Time             `json:"createdAt"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to its API representation.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		SubType:         acc.SubType,
		NormalBalance:   acc.NormalBalance,
		CurrentBalance:  acc.CurrentBalance,
		IsSystemAccount: acc.IsSystemAccount,
		IsActive:        acc.IsActive,
		Description:     acc.Description,
		CreatedAt:       acc.CreatedAt,
		LastUpdatedAt:   acc.LastUpdatedAt,
	}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"includeInactive"`
	Limit           int  `form:"limit,default=50"`
	Offset          int  `form:"offset,default=0"`
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// StatementLine is one ledger entry of an account statement, with the
// running balance re-derived from the account's normal balance.
type StatementLine struct {
	EntryID        string          `json:"entryID"`
	BatchID        string          `json:"batchID"`
	EntryType      domain.EntryType `json:"entryType"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	Description    string          `json:"description"`
	PostedAt       time.Time       `json:"postedAt"`
}

// StatementParams defines query parameters for an account statement.
type StatementParams struct {
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// StatementResponse is a paginated account statement.
type StatementResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Lines       []StatementLine `json:"lines"`
	NextToken   *string         `json:"nextToken,omitempty"`
}
