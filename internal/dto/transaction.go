package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

// EntryLineRequest is one caller-supplied entry of a transaction batch.
type EntryLineRequest struct {
	AccountCode string           `json:"accountCode" binding:"required,acctcode"`
	EntryType   domain.EntryType `json:"entryType" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal  `json:"amount" binding:"required"`
	Description string           `json:"description"`
	UserID      *string          `json:"userID"`
	WalletID    *string          `json:"walletID"`
	Reference   *string          `json:"reference"`
}

// RecordTransactionRequest is the transaction-recording contract consumed by
// all business modules. The caller guarantees the entries balance; the
// engine re-validates.
type RecordTransactionRequest struct {
	Category    domain.BatchCategory `json:"category" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Entries     []EntryLineRequest   `json:"entries" binding:"required"`

	FromUserID   *string `json:"fromUserID"`
	FromWalletID *string `json:"fromWalletID"`
	ToUserID     *string `json:"toUserID"`
	ToWalletID   *string `json:"toWalletID"`

	ReferenceType     *string `json:"referenceType"`
	ReferenceID       *string `json:"referenceID"`
	ExternalReference *string `json:"externalReference"`

	PerformedBy string            `json:"performedBy"`
	Notes       string            `json:"notes"`
	Metadata    map[string]string `json:"metadata"`

	// OccurredAt overrides posted_at for migrated historical records.
	OccurredAt *time.Time `json:"-"`

	// ReversesBatchID links a reversal batch to the batch it undoes. Set
	// internally by the reversal flow, never by API callers.
	ReversesBatchID *string `json:"-"`
}

// RecordTransactionResponse returns the identifier of the posted batch.
type RecordTransactionResponse struct {
	BatchID string `json:"batchID"`
}

// CreateJournalEntryRequest is an arbitrary N-entry balanced batch for
// manual corrections.
type CreateJournalEntryRequest struct {
	Description string             `json:"description" binding:"required"`
	Entries     []EntryLineRequest `json:"entries" binding:"required,min=2"`
	Notes       string             `json:"notes"`
}

// FundOperatingAccountRequest moves value from retained earnings into the
// internal operating-fund asset account.
type FundOperatingAccountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes"`
}

// ReverseBatchRequest asks for a posted batch to be undone.
type ReverseBatchRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// BatchResponse mirrors domain.TransactionBatch for API output.
type BatchResponse struct {
	BatchID      string               `json:"batchID"`
	Category     domain.BatchCategory `json:"category"`
	Description  string               `json:"description"`
	TotalDebits  decimal.Decimal      `json:"totalDebits"`
	TotalCredits decimal.Decimal      `json:"totalCredits"`
	IsBalanced   bool                 `json:"isBalanced"`
	EntryCount   int                  `json:"entryCount"`
	Status       domain.BatchStatus   `json:"status"`

	FromUserID   *string `json:"fromUserID,omitempty"`
	FromWalletID *string `json:"fromWalletID,omitempty"`
	ToUserID     *string `json:"toUserID,omitempty"`
	ToWalletID   *string `json:"toWalletID,omitempty"`

	ReferenceType     *string `json:"referenceType,omitempty"`
	ReferenceID       *string `json:"referenceID,omitempty"`
	ExternalReference *string `json:"externalReference,omitempty"`
	ReversesBatchID   *string `json:"reversesBatchID,omitempty"`
	ReversedByBatchID *string `json:"reversedByBatchID,omitempty"`

	PerformedBy string                `json:"performedBy"`
	Notes       string                `json:"notes,omitempty"`
	PostedAt    time.Time             `json:"postedAt"`
	Entries     []LedgerEntryResponse `json:"entries,omitempty"`
}

// LedgerEntryResponse mirrors domain.LedgerEntry for API output.
type LedgerEntryResponse struct {
	EntryID       string             `json:"entryID"`
	BatchID       string             `json:"batchID"`
	AccountCode   string             `json:"accountCode"`
	EntryType     domain.EntryType   `json:"entryType"`
	Amount        decimal.Decimal    `json:"amount"`
	BalanceBefore decimal.Decimal    `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal    `json:"balanceAfter"`
	Status        domain.EntryStatus `json:"status"`
	Description   string             `json:"description,omitempty"`
	UserID        *string            `json:"userID,omitempty"`
	WalletID      *string            `json:"walletID,omitempty"`
	Reference     *string            `json:"reference,omitempty"`
	PostedAt      time.Time          `json:"postedAt"`
}

// ToBatchResponse converts a domain batch (and any loaded entries).
func ToBatchResponse(b *domain.TransactionBatch) BatchResponse {
	resp := BatchResponse{
		BatchID:           b.BatchID,
		Category:          b.Category,
		Description:       b.Description,
		TotalDebits:       b.TotalDebits,
		TotalCredits:      b.TotalCredits,
		IsBalanced:        b.IsBalanced,
		EntryCount:        b.EntryCount,
		Status:            b.Status,
		FromUserID:        b.FromUserID,
		FromWalletID:      b.FromWalletID,
		ToUserID:          b.ToUserID,
		ToWalletID:        b.ToWalletID,
		ReferenceType:     b.ReferenceType,
		ReferenceID:       b.ReferenceID,
		ExternalReference: b.ExternalReference,
		ReversesBatchID:   b.ReversesBatchID,
		ReversedByBatchID: b.ReversedByBatchID,
		PerformedBy:       b.PerformedBy,
		Notes:             b.Notes,
		PostedAt:          b.PostedAt,
	}
	if len(b.Entries) > 0 {
		resp.Entries = ToLedgerEntryResponses(b.Entries)
	}
	return resp
}

// ToLedgerEntryResponse converts a single domain ledger entry.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:       e.EntryID,
		BatchID:       e.BatchID,
		AccountCode:   e.AccountCode,
		EntryType:     e.EntryType,
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		Status:        e.Status,
		Description:   e.Description,
		UserID:        e.UserID,
		WalletID:      e.WalletID,
		Reference:     e.Reference,
		PostedAt:      e.PostedAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain ledger entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToLedgerEntryResponse(e)
	}
	return out
}

// ListBatchesParams defines query parameters for listing batches.
type ListBatchesParams struct {
	Category  *domain.BatchCategory `form:"category"`
	Status    *domain.BatchStatus   `form:"status"`
	WalletID  *string               `form:"walletID"`
	UserID    *string               `form:"userID"`
	From      *time.Time            `form:"from" time_format:"2006-01-02"`
	To        *time.Time            `form:"to" time_format:"2006-01-02"`
	Limit     int                   `form:"limit,default=20"`
	NextToken *string               `form:"nextToken"`
}

// ListBatchesResponse is a paginated batch listing.
type ListBatchesResponse struct {
	Batches   []BatchResponse `json:"batches"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ListEntriesParams defines query parameters for listing ledger entries.
type ListEntriesParams struct {
	AccountCode *string           `form:"accountCode"`
	WalletID    *string           `form:"walletID"`
	BatchID     *string           `form:"batchID"`
	EntryType   *domain.EntryType `form:"entryType"`
	Limit       int               `form:"limit,default=20"`
	NextToken   *string           `form:"nextToken"`
}

// ListEntriesResponse is a paginated ledger entry listing.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
