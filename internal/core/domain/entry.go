package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// EntryStatus is the lifecycle state of a posted ledger entry.
type EntryStatus string

const (
	EntryPosted   EntryStatus = "POSTED"
	EntryReversed EntryStatus = "REVERSED"
)

// LedgerEntry is one signed posting against a single account, always part of
// a balanced TransactionBatch. Immutable once posted except for the
// reversal-tracking fields; a reversal creates a new opposite entry rather
// than mutating history.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	BatchID       string          `json:"batchID"`
	AccountCode   string          `json:"accountCode"`
	EntryType     EntryType       `json:"entryType"`
	Amount        decimal.Decimal `json:"amount"` // Positive magnitude
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Status        EntryStatus     `json:"status"`
	Description   string          `json:"description"`
	UserID        *string         `json:"userID,omitempty"`
	WalletID      *string         `json:"walletID,omitempty"`
	Reference     *string         `json:"reference,omitempty"`
	PostedAt      time.Time       `json:"postedAt"`
	AuditFields
}

// EntryLine is the caller-supplied input for one entry of a batch, before
// the engine resolves accounts and computes balance snapshots.
type EntryLine struct {
	AccountCode string
	EntryType   EntryType
	Amount      decimal.Decimal
	Description string
	UserID      *string
	WalletID    *string
	Reference   *string
}
