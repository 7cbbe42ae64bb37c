package services

import (
	"context"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

// MigrationSvc imports the pre-ledger transaction store into balanced
// batches. Intended to run once per environment.
type MigrationSvc interface {
	// Status reports whether legacy data is still pending import.
	Status(ctx context.Context) (*domain.MigrationStatus, error)

	// Run imports every legacy transaction as a balanced two-entry batch
	// offset against the opening balance equity account. When dropLegacy is
	// true and no record failed, the legacy table is dropped afterwards.
	Run(ctx context.Context, dropLegacy bool, userID string) (*domain.MigrationSummary, error)
}
