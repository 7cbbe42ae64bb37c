package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/dto"
)

// legacySourceName identifies the pre-ledger store in migration metadata.
const legacySourceName = "wallet_transactions"

// migrationService imports the legacy wallet transaction store. Each legacy
// record becomes a balanced two-entry batch offset against the opening
// balance equity account, so the migrated ledger satisfies the same
// invariants as organically posted data.
type migrationService struct {
	BaseService
	legacyRepo portsrepo.LegacyRepository
	batchRepo  portsrepo.BatchRepository
	recorder   portssvc.BatchRecorderSvc
	wallets    portssvc.WalletWriterSvc
}

// NewMigrationService creates a new migration service
func NewMigrationService(legacyRepo portsrepo.LegacyRepository, batchRepo portsrepo.BatchRepository, recorder portssvc.BatchRecorderSvc, wallets portssvc.WalletWriterSvc) portssvc.MigrationSvc {
	return &migrationService{
		legacyRepo: legacyRepo,
		batchRepo:  batchRepo,
		recorder:   recorder,
		wallets:    wallets,
	}
}

// Ensure migrationService implements the MigrationSvc interface
var _ portssvc.MigrationSvc = (*migrationService)(nil)

func (s *migrationService) Status(ctx context.Context) (*domain.MigrationStatus, error) {
	exists, err := s.legacyRepo.LegacyTableExists(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to check legacy table")
		return nil, err
	}

	status := &domain.MigrationStatus{LegacyTableExists: exists}
	if exists {
		pending, err := s.legacyRepo.CountLegacyTransactions(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to count legacy transactions")
			return nil, err
		}
		status.PendingRecords = pending
	}

	for _, cat := range []domain.BatchCategory{domain.CategoryMigration, domain.CategoryMigrationUncategorized} {
		count, err := s.batchRepo.CountBatchesByCategory(ctx, cat)
		if err != nil {
			s.LogError(ctx, err, "Failed to count migrated batches")
			return nil, err
		}
		status.MigratedBatches += count
	}
	return status, nil
}

func (s *migrationService) Run(ctx context.Context, dropLegacy bool, userID string) (*domain.MigrationSummary, error) {
	exists, err := s.legacyRepo.LegacyTableExists(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to check legacy table")
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("legacy transaction table: %w", apperrors.ErrNotFound)
	}

	records, err := s.legacyRepo.ListLegacyTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read legacy transactions")
		return nil, err
	}

	summary := &domain.MigrationSummary{StartedAt: time.Now()}
	s.LogInfo(ctx, "Migration run started",
		slog.Int("records", len(records)),
		slog.Bool("drop_legacy", dropLegacy))

	for _, record := range records {
		if err := s.importRecord(ctx, record, userID, summary); err != nil {
			summary.Failed++
			s.LogError(ctx, err, "Failed to migrate legacy record",
				slog.String("legacy_id", record.LegacyID))
		}
	}

	if dropLegacy {
		if summary.Failed > 0 {
			s.LogInfo(ctx, "Keeping legacy table: some records failed to migrate",
				slog.Int("failed", summary.Failed))
		} else if err := s.legacyRepo.DropLegacyTable(ctx); err != nil {
			s.LogError(ctx, err, "Failed to drop legacy table")
			return nil, err
		} else {
			summary.LegacyDropped = true
		}
	}

	summary.FinishedAt = time.Now()
	s.LogInfo(ctx, "Migration run finished",
		slog.Int("migrated", summary.Migrated),
		slog.Int("failed", summary.Failed),
		slog.Int("uncategorized", summary.Uncategorized),
		slog.Bool("legacy_dropped", summary.LegacyDropped))
	return summary, nil
}

func (s *migrationService) importRecord(ctx context.Context, record domain.LegacyTransaction, userID string, summary *domain.MigrationSummary) error {
	if record.Amount.IsZero() {
		return fmt.Errorf("legacy record %s has zero amount: %w", record.LegacyID, apperrors.ErrValidation)
	}

	wallet, err := s.wallets.EnsureWallet(ctx, record.OwnerID, record.OwnerType, userID)
	if err != nil {
		return fmt.Errorf("ensure wallet for owner %s: %w", record.OwnerID, err)
	}

	liabilityCode, err := domain.WalletLiabilityAccount(record.OwnerType)
	if err != nil {
		return err
	}

	category := domain.CategoryMigration
	legacyCategory, ok := classifyNarration(record.Narration)
	if !ok {
		category = domain.CategoryMigrationUncategorized
		summary.Uncategorized++
	}

	amount := record.Amount.Abs()
	walletEntry := dto.EntryLineRequest{
		AccountCode: liabilityCode,
		Amount:      amount,
		Description: record.Narration,
		UserID:      &record.OwnerID,
		WalletID:    &wallet.WalletID,
	}
	offsetEntry := dto.EntryLineRequest{
		AccountCode: domain.AccountOpeningBalance,
		Amount:      amount,
		Description: record.Narration,
	}
	if record.Amount.IsPositive() {
		// Legacy credit: the platform owes the owner more.
		walletEntry.EntryType = domain.Credit
		offsetEntry.EntryType = domain.Debit
	} else {
		walletEntry.EntryType = domain.Debit
		offsetEntry.EntryType = domain.Credit
	}

	occurredAt := record.OccurredAt
	metadata := map[string]string{
		"legacySource": legacySourceName,
		"legacyID":     record.LegacyID,
	}
	if ok {
		metadata["legacyCategory"] = string(legacyCategory)
	}

	var refType, refID *string
	if record.ReferenceType != "" {
		refType = &record.ReferenceType
	}
	if record.Reference != "" {
		refID = &record.Reference
	}

	_, err = s.recorder.RecordTransaction(ctx, dto.RecordTransactionRequest{
		Category:          category,
		Description:       record.Narration,
		Entries:           []dto.EntryLineRequest{offsetEntry, walletEntry},
		ToUserID:          &record.OwnerID,
		ToWalletID:        &wallet.WalletID,
		ReferenceType:     refType,
		ReferenceID:       refID,
		ExternalReference: &record.LegacyID,
		PerformedBy:       userID,
		Metadata:          metadata,
		OccurredAt:        &occurredAt,
	})
	if err != nil {
		if !ok {
			summary.Uncategorized--
		}
		return err
	}

	summary.Migrated++
	return nil
}

// classifyNarration maps free-text legacy narrations onto the business
// event they most likely recorded. Unmatched narrations land in the
// uncategorized bucket for manual review rather than a silent default.
func classifyNarration(narration string) (domain.BatchCategory, bool) {
	n := strings.ToLower(narration)
	switch {
	case strings.Contains(n, "top") || strings.Contains(n, "deposit"):
		return domain.CategoryTopUp, true
	case strings.Contains(n, "withdraw"):
		return domain.CategoryWithdrawal, true
	case strings.Contains(n, "pharmacy"):
		return domain.CategoryPharmacyPayment, true
	case strings.Contains(n, "appoint") || strings.Contains(n, "consult"):
		return domain.CategoryAppointmentPayment, true
	case strings.Contains(n, "refund"):
		return domain.CategoryAdjustment, true
	}
	return "", false
}
