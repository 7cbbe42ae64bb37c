package dto

import "github.com/telemedix/ledger-backend/internal/core/domain"

// MigrationStatusResponse reports whether legacy data is pending import.
type MigrationStatusResponse struct {
	LegacyTableExists bool  `json:"legacyTableExists"`
	PendingRecords    int64 `json:"pendingRecords"`
	MigratedBatches   int64 `json:"migratedBatches"`
}

// ToMigrationStatusResponse converts the domain status.
func ToMigrationStatusResponse(s *domain.MigrationStatus) MigrationStatusResponse {
	return MigrationStatusResponse{
		LegacyTableExists: s.LegacyTableExists,
		PendingRecords:    s.PendingRecords,
		MigratedBatches:   s.MigratedBatches,
	}
}

// MigrationRunRequest controls one importer run.
type MigrationRunRequest struct {
	// DropLegacy removes the legacy table after a run with zero failures.
	DropLegacy bool `json:"dropLegacy"`
}

// MigrationRunResponse is the summary of one importer run.
type MigrationRunResponse struct {
	Migrated      int    `json:"migrated"`
	Failed        int    `json:"failed"`
	Uncategorized int    `json:"uncategorized"`
	LegacyDropped bool   `json:"legacyDropped"`
	StartedAt     string `json:"startedAt"`
	FinishedAt    string `json:"finishedAt"`
}
