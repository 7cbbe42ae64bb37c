package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/dto"
	"github.com/telemedix/ledger-backend/internal/platform/cache"
	"github.com/telemedix/ledger-backend/internal/utils/accounting"
	"github.com/telemedix/ledger-backend/internal/utils/identifier"
)

// saveRetries bounds the regenerate-and-retry loop on ID collisions.
const saveRetries = 3

// batchService implements the BatchSvcFacade interface. It is the only
// code path that writes ledger entries; every business event funnels
// through RecordTransaction.
type batchService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	batchRepo   portsrepo.BatchRepository
	walletRepo  portsrepo.WalletRepository
	walletCache *cache.WalletCache
}

// BatchServiceOption is a functional option for configuring the batch service
type BatchServiceOption func(*batchService)

// WithBatchWalletCache lets the engine drop cached wallet projections it mutates
func WithBatchWalletCache(c *cache.WalletCache) BatchServiceOption {
	return func(s *batchService) {
		s.walletCache = c
	}
}

// NewBatchService creates a new batch service with the provided options
func NewBatchService(accountRepo portsrepo.AccountRepository, batchRepo portsrepo.BatchRepository, walletRepo portsrepo.WalletRepository, options ...BatchServiceOption) portssvc.BatchSvcFacade {
	svc := &batchService{
		accountRepo: accountRepo,
		batchRepo:   batchRepo,
		walletRepo:  walletRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure batchService implements the BatchSvcFacade interface
var _ portssvc.BatchSvcFacade = (*batchService)(nil)

func (s *batchService) RecordTransaction(ctx context.Context, req dto.RecordTransactionRequest) (*domain.TransactionBatch, error) {
	if !domain.KnownCategory(req.Category) {
		err := apperrors.ErrValidation
		s.LogError(ctx, err, "Unknown batch category",
			slog.String("category", string(req.Category)))
		return nil, fmt.Errorf("unknown batch category %q: %w", req.Category, err)
	}
	if req.PerformedBy == "" {
		return nil, fmt.Errorf("performedBy is required: %w", apperrors.ErrValidation)
	}

	lines := make([]domain.EntryLine, len(req.Entries))
	for i, e := range req.Entries {
		lines[i] = domain.EntryLine{
			AccountCode: e.AccountCode,
			EntryType:   e.EntryType,
			Amount:      e.Amount,
			Description: e.Description,
			UserID:      e.UserID,
			WalletID:    e.WalletID,
			Reference:   e.Reference,
		}
	}

	totalDebits, totalCredits, err := accounting.ValidateBatchBalance(lines)
	if err != nil {
		s.LogError(ctx, err, "Batch failed balance validation",
			slog.String("category", string(req.Category)))
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	accounts, err := s.resolveAccounts(ctx, lines)
	if err != nil {
		return nil, err
	}

	balanceChanges := make(map[string]decimal.Decimal)
	for _, line := range lines {
		acc := accounts[line.AccountCode]
		delta := accounting.SignedDelta(line.EntryType, acc.NormalBalance, line.Amount)
		balanceChanges[line.AccountCode] = balanceChanges[line.AccountCode].Add(delta)
	}

	walletDeltas, err := s.computeWalletDeltas(ctx, req.Category, lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	postedAt := now
	if req.OccurredAt != nil {
		postedAt = *req.OccurredAt
	}

	batch := domain.TransactionBatch{
		Category:          req.Category,
		Description:       req.Description,
		TotalDebits:       totalDebits,
		TotalCredits:      totalCredits,
		IsBalanced:        true,
		EntryCount:        len(lines),
		Status:            domain.BatchPosted,
		FromUserID:        req.FromUserID,
		FromWalletID:      req.FromWalletID,
		ToUserID:          req.ToUserID,
		ToWalletID:        req.ToWalletID,
		ReferenceType:     req.ReferenceType,
		ReferenceID:       req.ReferenceID,
		ExternalReference: req.ExternalReference,
		ReversesBatchID:   req.ReversesBatchID,
		PerformedBy:       req.PerformedBy,
		Notes:             req.Notes,
		Metadata:          req.Metadata,
		PostedAt:          postedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.PerformedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: req.PerformedBy,
		},
	}

	entries := make([]domain.LedgerEntry, len(lines))
	for i, line := range lines {
		entries[i] = domain.LedgerEntry{
			AccountCode: line.AccountCode,
			EntryType:   line.EntryType,
			Amount:      line.Amount,
			Status:      domain.EntryPosted,
			Description: line.Description,
			UserID:      line.UserID,
			WalletID:    line.WalletID,
			Reference:   line.Reference,
			PostedAt:    postedAt,
			AuditFields: batch.AuditFields,
		}
	}

	// Identifiers are regenerated on collision rather than failing the
	// business operation.
	for attempt := 0; ; attempt++ {
		batch.BatchID = identifier.NewBatchID()
		for i := range entries {
			entries[i].EntryID = identifier.NewEntryID()
			entries[i].BatchID = batch.BatchID
		}

		err = s.batchRepo.SaveBatch(ctx, batch, entries, balanceChanges, walletDeltas)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrDuplicate) || attempt+1 >= saveRetries {
			s.LogError(ctx, err, "Failed to save batch",
				slog.String("batch_id", batch.BatchID),
				slog.String("category", string(req.Category)))
			return nil, err
		}
		s.LogDebug(ctx, "Batch ID collision, retrying with fresh identifiers",
			slog.String("batch_id", batch.BatchID))
	}

	if s.walletCache != nil && len(walletDeltas) > 0 {
		ids := make([]string, len(walletDeltas))
		for i, d := range walletDeltas {
			ids[i] = d.WalletID
		}
		if err := s.walletCache.Invalidate(ctx, ids...); err != nil {
			s.LogDebug(ctx, "Wallet cache invalidation failed",
				slog.String("batch_id", batch.BatchID),
				slog.String("error", err.Error()))
		}
	}

	batch.Entries = entries
	s.LogInfo(ctx, "Batch posted",
		slog.String("batch_id", batch.BatchID),
		slog.String("category", string(req.Category)),
		slog.String("total", totalDebits.String()),
		slog.Int("entries", len(entries)))
	return &batch, nil
}

// resolveAccounts fetches every referenced account and rejects postings to
// unknown or deactivated accounts.
func (s *batchService) resolveAccounts(ctx context.Context, lines []domain.EntryLine) (map[string]domain.Account, error) {
	codes := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.AccountCode] {
			seen[line.AccountCode] = true
			codes = append(codes, line.AccountCode)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for batch")
		return nil, err
	}

	for _, code := range codes {
		acc, ok := accounts[code]
		if !ok {
			s.LogError(ctx, apperrors.ErrNotFound, "Batch references unknown account",
				slog.String("code", code))
			return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
		}
		if !acc.IsActive {
			s.LogError(ctx, apperrors.ErrInactiveResource, "Batch references deactivated account",
				slog.String("code", code))
			return nil, fmt.Errorf("account %s is deactivated: %w", code, apperrors.ErrInactiveResource)
		}
	}
	return accounts, nil
}

// bypassWalletChecks reports whether funds and limit checks are skipped for
// the category. Reversals restore prior state and migrated history is
// recorded as it happened, so neither is blocked by present-day limits.
func bypassWalletChecks(category domain.BatchCategory) bool {
	switch category {
	case domain.CategoryReversal, domain.CategoryMigration, domain.CategoryMigrationUncategorized:
		return true
	}
	return false
}

// computeWalletDeltas turns wallet-tagged entries into projection mutations
// and enforces wallet status, balance and limit rules. The category decides
// which balance bucket an entry moves:
//
//	HOLD:       debit takes from available, credit places into held
//	RELEASE:    debit takes from held, credit returns to available
//	SETTLEMENT: debit pays out held funds, credit lands in available
//	otherwise:  credit increases available, debit decreases it
func (s *batchService) computeWalletDeltas(ctx context.Context, category domain.BatchCategory, lines []domain.EntryLine) ([]domain.WalletDelta, error) {
	deltas := make(map[string]*domain.WalletDelta)
	order := make([]string, 0)

	for _, line := range lines {
		if line.WalletID == nil {
			continue
		}
		id := *line.WalletID
		d, ok := deltas[id]
		if !ok {
			d = &domain.WalletDelta{WalletID: id}
			deltas[id] = d
			order = append(order, id)
		}

		m := line.Amount
		isCredit := line.EntryType == domain.Credit
		switch category {
		case domain.CategoryHold:
			if isCredit {
				d.Held = d.Held.Add(m)
				d.HeldAmt = d.HeldAmt.Add(m)
			} else {
				d.Available = d.Available.Sub(m)
			}
		case domain.CategoryRelease:
			if isCredit {
				d.Available = d.Available.Add(m)
				d.Released = d.Released.Add(m)
			} else {
				d.Held = d.Held.Sub(m)
			}
		case domain.CategorySettlement:
			if isCredit {
				d.Available = d.Available.Add(m)
				d.Credited = d.Credited.Add(m)
			} else {
				d.Held = d.Held.Sub(m)
				d.Debited = d.Debited.Add(m)
			}
		default:
			if isCredit {
				d.Available = d.Available.Add(m)
				d.Credited = d.Credited.Add(m)
			} else {
				d.Available = d.Available.Sub(m)
				d.Debited = d.Debited.Add(m)
			}
		}
	}

	if len(order) == 0 {
		return nil, nil
	}

	skipChecks := bypassWalletChecks(category)
	now := time.Now()
	out := make([]domain.WalletDelta, 0, len(order))
	for _, id := range order {
		d := deltas[id]
		wallet, err := s.walletRepo.FindWalletByID(ctx, id)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch wallet for batch",
				slog.String("wallet_id", id))
			return nil, fmt.Errorf("wallet %s: %w", id, err)
		}

		debits := d.Debited.Add(d.HeldAmt)
		if !skipChecks {
			if err := checkWalletStatus(wallet, debits); err != nil {
				s.LogError(ctx, err, "Wallet status blocks batch",
					slog.String("wallet_id", id),
					slog.String("status", string(wallet.Status)))
				return nil, err
			}
			if err := s.checkWalletLimits(ctx, wallet, debits, now); err != nil {
				return nil, err
			}
		}

		if wallet.AvailableBalance.Add(d.Available).IsNegative() && !skipChecks {
			s.LogError(ctx, apperrors.ErrInsufficientFunds, "Wallet available balance would go negative",
				slog.String("wallet_id", id),
				slog.String("available", wallet.AvailableBalance.String()),
				slog.String("delta", d.Available.String()))
			return nil, fmt.Errorf("wallet %s: %w", id, apperrors.ErrInsufficientFunds)
		}
		if wallet.HeldBalance.Add(d.Held).IsNegative() && !skipChecks {
			s.LogError(ctx, apperrors.ErrInsufficientFunds, "Wallet held balance would go negative",
				slog.String("wallet_id", id))
			return nil, fmt.Errorf("wallet %s held funds: %w", id, apperrors.ErrInsufficientFunds)
		}

		out = append(out, *d)
	}
	return out, nil
}

// checkWalletStatus enforces the administrative status rules: FROZEN and
// CLOSED wallets accept nothing, SUSPENDED wallets accept credits only.
func checkWalletStatus(wallet *domain.UnifiedWallet, debits decimal.Decimal) error {
	switch wallet.Status {
	case domain.WalletActive:
		return nil
	case domain.WalletSuspended:
		if debits.IsPositive() {
			return fmt.Errorf("wallet %s is suspended: %w", wallet.WalletID, apperrors.ErrInactiveResource)
		}
		return nil
	default:
		return fmt.Errorf("wallet %s is %s: %w", wallet.WalletID, wallet.Status, apperrors.ErrInactiveResource)
	}
}

// checkWalletLimits enforces the per-transaction and daily spend limits on
// the debit side. A zero limit means unlimited.
func (s *batchService) checkWalletLimits(ctx context.Context, wallet *domain.UnifiedWallet, debits decimal.Decimal, now time.Time) error {
	if !debits.IsPositive() {
		return nil
	}

	if wallet.PerTransactionLimit.IsPositive() && debits.GreaterThan(wallet.PerTransactionLimit) {
		err := fmt.Errorf("wallet %s: amount %s exceeds per-transaction limit %s: %w",
			wallet.WalletID, debits, wallet.PerTransactionLimit, apperrors.ErrValidation)
		s.LogError(ctx, err, "Per-transaction limit exceeded",
			slog.String("wallet_id", wallet.WalletID))
		return err
	}

	if wallet.DailyLimit.IsPositive() {
		spent, err := s.walletRepo.SumSpentToday(ctx, wallet.WalletID, now)
		if err != nil {
			s.LogError(ctx, err, "Failed to compute daily spend",
				slog.String("wallet_id", wallet.WalletID))
			return err
		}
		if spent.Add(debits).GreaterThan(wallet.DailyLimit) {
			err := fmt.Errorf("wallet %s: daily limit %s exceeded (spent %s, requested %s): %w",
				wallet.WalletID, wallet.DailyLimit, spent, debits, apperrors.ErrValidation)
			s.LogError(ctx, err, "Daily limit exceeded",
				slog.String("wallet_id", wallet.WalletID))
			return err
		}
	}
	return nil
}

func (s *batchService) GetBatchByID(ctx context.Context, batchID string) (*domain.TransactionBatch, error) {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find batch",
				slog.String("batch_id", batchID))
		}
		return nil, err
	}

	entries, err := s.batchRepo.FindEntriesByBatchID(ctx, batchID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load batch entries",
			slog.String("batch_id", batchID))
		return nil, err
	}
	batch.Entries = entries
	return batch, nil
}

func (s *batchService) ListBatches(ctx context.Context, params dto.ListBatchesParams) ([]domain.TransactionBatch, *string, error) {
	filter := portsrepo.BatchFilter{
		Category: params.Category,
		Status:   params.Status,
		WalletID: params.WalletID,
		UserID:   params.UserID,
		From:     params.From,
		To:       params.To,
	}
	batches, next, err := s.batchRepo.ListBatches(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list batches")
		return nil, nil, err
	}
	return batches, next, nil
}

func (s *batchService) ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.LedgerEntry, *string, error) {
	filter := portsrepo.EntryFilter{
		AccountCode: params.AccountCode,
		WalletID:    params.WalletID,
		BatchID:     params.BatchID,
		EntryType:   params.EntryType,
	}
	entries, next, err := s.batchRepo.ListEntries(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries")
		return nil, nil, err
	}
	return entries, next, nil
}

func (s *batchService) AdminCreditWallet(ctx context.Context, walletID string, req dto.CreditWalletRequest, userID string) (*domain.TransactionBatch, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	liabilityCode, err := domain.WalletLiabilityAccount(wallet.OwnerType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	return s.RecordTransaction(ctx, dto.RecordTransactionRequest{
		Category:    domain.CategoryAdminCredit,
		Description: req.Reason,
		Entries: []dto.EntryLineRequest{
			{AccountCode: req.SourceAccountCode, EntryType: domain.Debit, Amount: req.Amount, Description: req.Reason},
			{AccountCode: liabilityCode, EntryType: domain.Credit, Amount: req.Amount, Description: req.Reason, WalletID: &walletID, UserID: &wallet.OwnerID},
		},
		ToUserID:          &wallet.OwnerID,
		ToWalletID:        &walletID,
		ExternalReference: req.ExternalReference,
		PerformedBy:       userID,
	})
}

func (s *batchService) AdminDebitWallet(ctx context.Context, walletID string, req dto.DebitWalletRequest, userID string) (*domain.TransactionBatch, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	liabilityCode, err := domain.WalletLiabilityAccount(wallet.OwnerType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	return s.RecordTransaction(ctx, dto.RecordTransactionRequest{
		Category:    domain.CategoryAdminDebit,
		Description: req.Reason,
		Entries: []dto.EntryLineRequest{
			{AccountCode: liabilityCode, EntryType: domain.Debit, Amount: req.Amount, Description: req.Reason, WalletID: &walletID, UserID: &wallet.OwnerID},
			{AccountCode: req.DestinationAccountCode, EntryType: domain.Credit, Amount: req.Amount, Description: req.Reason},
		},
		FromUserID:        &wallet.OwnerID,
		FromWalletID:      &walletID,
		ExternalReference: req.ExternalReference,
		PerformedBy:       userID,
	})
}

func (s *batchService) CreateJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.TransactionBatch, error) {
	return s.RecordTransaction(ctx, dto.RecordTransactionRequest{
		Category:    domain.CategoryJournal,
		Description: req.Description,
		Entries:     req.Entries,
		Notes:       req.Notes,
		PerformedBy: userID,
	})
}

func (s *batchService) FundOperatingAccount(ctx context.Context, req dto.FundOperatingAccountRequest, userID string) (*domain.TransactionBatch, error) {
	desc := "Operating account funding"
	return s.RecordTransaction(ctx, dto.RecordTransactionRequest{
		Category:    domain.CategoryOperatingFund,
		Description: desc,
		Entries: []dto.EntryLineRequest{
			{AccountCode: domain.AccountOperatingFund, EntryType: domain.Debit, Amount: req.Amount, Description: desc},
			{AccountCode: domain.AccountRetainedEarnings, EntryType: domain.Credit, Amount: req.Amount, Description: desc},
		},
		Notes:       req.Notes,
		PerformedBy: userID,
	})
}

func (s *batchService) ReverseBatch(ctx context.Context, batchID string, reason string, userID string) (*domain.TransactionBatch, error) {
	orig, err := s.GetBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if orig.Status == domain.BatchReversed || orig.ReversedByBatchID != nil {
		err := apperrors.ErrConflict
		s.LogError(ctx, err, "Batch already reversed",
			slog.String("batch_id", batchID))
		return nil, fmt.Errorf("batch %s is already reversed: %w", batchID, err)
	}

	switch orig.Category {
	case domain.CategoryHold, domain.CategoryRelease, domain.CategorySettlement:
		// Held-fund movements have their own compensating categories; a
		// mirror batch would land the money in the wrong bucket.
		err := apperrors.ErrConflict
		s.LogError(ctx, err, "Category cannot be reversed",
			slog.String("batch_id", batchID),
			slog.String("category", string(orig.Category)))
		return nil, fmt.Errorf("%s batches cannot be reversed: %w", orig.Category, err)
	}

	mirrored := make([]dto.EntryLineRequest, len(orig.Entries))
	for i, e := range orig.Entries {
		entryType := domain.Debit
		if e.EntryType == domain.Debit {
			entryType = domain.Credit
		}
		mirrored[i] = dto.EntryLineRequest{
			AccountCode: e.AccountCode,
			EntryType:   entryType,
			Amount:      e.Amount,
			Description: "Reversal: " + e.Description,
			UserID:      e.UserID,
			WalletID:    e.WalletID,
			Reference:   e.Reference,
		}
	}

	reversal, err := s.RecordTransaction(ctx, dto.RecordTransactionRequest{
		Category:        domain.CategoryReversal,
		Description:     fmt.Sprintf("Reversal of %s: %s", batchID, reason),
		Entries:         mirrored,
		ReversesBatchID: &batchID,
		PerformedBy:     userID,
		Notes:           reason,
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Batch reversed",
		slog.String("batch_id", batchID),
		slog.String("reversal_batch_id", reversal.BatchID))
	return reversal, nil
}
