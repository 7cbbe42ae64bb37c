package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchCategory is the closed set of business event types a batch can record.
type BatchCategory string

const (
	CategoryTopUp              BatchCategory = "TOP_UP"
	CategoryWithdrawal         BatchCategory = "WITHDRAWAL"
	CategoryAdminCredit        BatchCategory = "ADMIN_CREDIT"
	CategoryAdminDebit         BatchCategory = "ADMIN_DEBIT"
	CategoryAppointmentPayment BatchCategory = "APPOINTMENT_PAYMENT"
	CategoryPharmacyPayment    BatchCategory = "PHARMACY_PAYMENT"
	CategoryHold               BatchCategory = "HOLD"
	CategoryRelease            BatchCategory = "RELEASE"
	CategorySettlement         BatchCategory = "SETTLEMENT"
	CategoryJournal            BatchCategory = "JOURNAL"
	CategoryOperatingFund      BatchCategory = "OPERATING_FUND"
	CategoryAdjustment         BatchCategory = "ADJUSTMENT"
	CategoryReversal           BatchCategory = "REVERSAL"
	CategoryMigration          BatchCategory = "MIGRATION"
	// CategoryMigrationUncategorized holds migrated legacy records whose
	// narration matched no known business event; kept separate for manual
	// review instead of silently defaulting.
	CategoryMigrationUncategorized BatchCategory = "MIGRATION_UNCATEGORIZED"
)

// KnownCategory reports whether c is one of the defined batch categories.
func KnownCategory(c BatchCategory) bool {
	switch c {
	case CategoryTopUp, CategoryWithdrawal, CategoryAdminCredit, CategoryAdminDebit,
		CategoryAppointmentPayment, CategoryPharmacyPayment, CategoryHold,
		CategoryRelease, CategorySettlement, CategoryJournal, CategoryOperatingFund,
		CategoryAdjustment, CategoryReversal, CategoryMigration, CategoryMigrationUncategorized:
		return true
	}
	return false
}

// BatchStatus is the lifecycle state of a transaction batch.
type BatchStatus string

const (
	BatchPending  BatchStatus = "PENDING"
	BatchPosted   BatchStatus = "POSTED"
	BatchFailed   BatchStatus = "FAILED"
	BatchReversed BatchStatus = "REVERSED"
)

// TransactionBatch is an atomic, balanced group of ledger entries
// representing one business event. A batch is never POSTED unless
// IsBalanced is true and EntryCount matches the persisted entries.
type TransactionBatch struct {
	BatchID      string          `json:"batchID"`
	Category     BatchCategory   `json:"category"`
	Description  string          `json:"description"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	IsBalanced   bool            `json:"isBalanced"`
	EntryCount   int             `json:"entryCount"`
	Status       BatchStatus     `json:"status"`

	FromUserID   *string `json:"fromUserID,omitempty"`
	FromWalletID *string `json:"fromWalletID,omitempty"`
	ToUserID     *string `json:"toUserID,omitempty"`
	ToWalletID   *string `json:"toWalletID,omitempty"`

	ReferenceType     *string `json:"referenceType,omitempty"` // Business entity that caused the batch
	ReferenceID       *string `json:"referenceID,omitempty"`
	ExternalReference *string `json:"externalReference,omitempty"`

	ReversesBatchID   *string `json:"reversesBatchID,omitempty"`
	ReversedByBatchID *string `json:"reversedByBatchID,omitempty"`

	PerformedBy string            `json:"performedBy"`
	Notes       string            `json:"notes"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	PostedAt    time.Time         `json:"postedAt"`
	AuditFields

	// Entries is populated on detail fetches only.
	Entries []LedgerEntry `json:"entries,omitempty"`
}
