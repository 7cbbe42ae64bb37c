package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegacyTransaction is one record of the pre-ledger wallet transaction
// store, read only by the migration importer.
type LegacyTransaction struct {
	LegacyID      string
	OwnerID       string
	OwnerType     OwnerType
	Amount        decimal.Decimal // Signed: positive credited the wallet, negative debited it
	Narration     string
	ReferenceType string
	Reference     string
	OccurredAt    time.Time
}

// MigrationSummary is the outcome of one importer run.
type MigrationSummary struct {
	Migrated      int       `json:"migrated"`
	Failed        int       `json:"failed"`
	Uncategorized int       `json:"uncategorized"`
	LegacyDropped bool      `json:"legacyDropped"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
}

// MigrationStatus describes whether legacy data is still pending import.
type MigrationStatus struct {
	LegacyTableExists bool  `json:"legacyTableExists"`
	PendingRecords    int64 `json:"pendingRecords"`
	MigratedBatches   int64 `json:"migratedBatches"`
}
