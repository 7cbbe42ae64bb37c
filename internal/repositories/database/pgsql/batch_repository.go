package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
	"github.com/telemedix/ledger-backend/internal/utils/accounting"
	"github.com/telemedix/ledger-backend/internal/utils/pagination"
)

const batchColumns = `batch_id, category, description, total_debits, total_credits, is_balanced, entry_count, status,
	from_user_id, from_wallet_id, to_user_id, to_wallet_id,
	reference_type, reference_id, external_reference, reverses_batch_id, reversed_by_batch_id,
	performed_by, notes, metadata, posted_at, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, batch_id, account_code, entry_type, amount, balance_before, balance_after, status,
	description, user_id, wallet_id, reference, posted_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxBatchRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepository
}

// newPgxBatchRepository creates a new repository for batch and ledger entry data.
func newPgxBatchRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepository) portsrepo.BatchRepository {
	return &PgxBatchRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxBatchRepository implements portsrepo.BatchRepository
var _ portsrepo.BatchRepository = (*PgxBatchRepository)(nil)

// SaveBatch persists the batch, its entries with balance snapshots, the
// account balance increments and the wallet increments in one database
// transaction. Account rows are locked in sorted code order so concurrent
// batches acquire locks deterministically and cannot deadlock each other.
func (r *PgxBatchRepository) SaveBatch(ctx context.Context, batch domain.TransactionBatch, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, walletDeltas []domain.WalletDelta) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits

	now := batch.CreatedAt
	userID := batch.CreatedBy

	// 1. Insert the batch row
	var metadata []byte
	if len(batch.Metadata) > 0 {
		metadata, err = json.Marshal(batch.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode batch metadata: %w", err)
		}
	}

	batchQuery := `
		INSERT INTO transaction_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
	`
	_, err = tx.Exec(ctx, batchQuery,
		batch.BatchID,
		batch.Category,
		batch.Description,
		batch.TotalDebits,
		batch.TotalCredits,
		batch.IsBalanced,
		batch.EntryCount,
		batch.Status,
		batch.FromUserID,
		batch.FromWalletID,
		batch.ToUserID,
		batch.ToWalletID,
		batch.ReferenceType,
		batch.ReferenceID,
		batch.ExternalReference,
		batch.ReversesBatchID,
		batch.ReversedByBatchID,
		batch.PerformedBy,
		batch.Notes,
		metadata,
		batch.PostedAt,
		batch.CreatedAt,
		batch.CreatedBy,
		batch.LastUpdatedAt,
		batch.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: batch %s already exists", apperrors.ErrDuplicate, batch.BatchID)
		}
		return fmt.Errorf("failed to insert batch %s: %w", batch.BatchID, err)
	}

	// 2. A reversal marks its target inside the same transaction, so the
	// link and the mirror entries appear atomically.
	if batch.ReversesBatchID != nil {
		if err := r.MarkBatchReversed(ctx, tx, *batch.ReversesBatchID, batch.BatchID, userID, now); err != nil {
			return err
		}
	}

	// 3. Lock accounts in sorted order and get balances before this batch
	codes := make([]string, 0, len(balanceChanges))
	for code := range balanceChanges {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	lockedAccounts, err := r.accountRepo.FindAccountsByCodesForUpdate(ctx, tx, codes)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for batch %s: %w", batch.BatchID, err)
	}

	// 4. Apply the aggregated balance deltas
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances for batch %s: %w", batch.BatchID, err)
	}

	// 5. Insert entries with per-entry balance snapshots. The running
	// balance starts from the locked (pre-batch) account balance and
	// advances entry by entry in deterministic ID order.
	running := make(map[string]decimal.Decimal, len(lockedAccounts))
	for code, acc := range lockedAccounts {
		running[code] = acc.CurrentBalance
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EntryID < entries[j].EntryID
	})

	entryQuery := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	pgxBatch := &pgx.Batch{}
	for i := range entries {
		e := &entries[i]
		acc, ok := lockedAccounts[e.AccountCode]
		if !ok {
			return fmt.Errorf("internal error: account %s not locked for batch %s", e.AccountCode, batch.BatchID)
		}

		delta := accounting.SignedDelta(e.EntryType, acc.NormalBalance, e.Amount)
		e.BalanceBefore = running[e.AccountCode]
		e.BalanceAfter = e.BalanceBefore.Add(delta)
		running[e.AccountCode] = e.BalanceAfter

		pgxBatch.Queue(entryQuery,
			e.EntryID,
			e.BatchID,
			e.AccountCode,
			e.EntryType,
			e.Amount,
			e.BalanceBefore,
			e.BalanceAfter,
			e.Status,
			e.Description,
			e.UserID,
			e.WalletID,
			e.Reference,
			e.PostedAt,
			now,
			userID,
			now,
			userID,
		)
	}

	// 6. Apply wallet projection deltas in the same transaction
	walletQuery := `
		UPDATE wallets
		SET available_balance = available_balance + $2,
		    held_balance = held_balance + $3,
		    pending_balance = pending_balance + $4,
		    total_credited = total_credited + $5,
		    total_debited = total_debited + $6,
		    total_held = total_held + $7,
		    total_released = total_released + $8,
		    last_updated_at = $9,
		    last_updated_by = $10
		WHERE wallet_id = $1;
	`
	for _, d := range walletDeltas {
		pgxBatch.Queue(walletQuery,
			d.WalletID,
			d.Available,
			d.Held,
			d.Pending,
			d.Credited,
			d.Debited,
			d.HeldAmt,
			d.Released,
			now,
			userID,
		)
	}

	br := tx.SendBatch(ctx, pgxBatch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: duplicate entry ID in batch %s", apperrors.ErrDuplicate, batch.BatchID)
		}
		return fmt.Errorf("failed to execute entry batch for %s: %w", batch.BatchID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkBatchReversed links a posted batch to the reversal that undoes it and
// flips its entries to REVERSED. The guard on reversed_by_batch_id makes a
// concurrent double-reversal lose with ErrConflict.
func (r *PgxBatchRepository) MarkBatchReversed(ctx context.Context, tx pgx.Tx, batchID string, reversedByBatchID string, userID string, now time.Time) error {
	query := `
		UPDATE transaction_batches
		SET status = $2,
		    reversed_by_batch_id = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE batch_id = $1 AND reversed_by_batch_id IS NULL AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, query, batchID, domain.BatchReversed, reversedByBatchID, now, userID, domain.BatchPosted)
	if err != nil {
		return fmt.Errorf("failed to mark batch %s reversed: %w", batchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("batch %s is not reversible: %w", batchID, apperrors.ErrConflict)
	}

	entryQuery := `
		UPDATE ledger_entries
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE batch_id = $1;
	`
	if _, err := tx.Exec(ctx, entryQuery, batchID, domain.EntryReversed, now, userID); err != nil {
		return fmt.Errorf("failed to mark entries of batch %s reversed: %w", batchID, err)
	}
	return nil
}

func scanBatch(row pgx.Row) (domain.TransactionBatch, error) {
	var b domain.TransactionBatch
	var metadata []byte
	err := row.Scan(
		&b.BatchID,
		&b.Category,
		&b.Description,
		&b.TotalDebits,
		&b.TotalCredits,
		&b.IsBalanced,
		&b.EntryCount,
		&b.Status,
		&b.FromUserID,
		&b.FromWalletID,
		&b.ToUserID,
		&b.ToWalletID,
		&b.ReferenceType,
		&b.ReferenceID,
		&b.ExternalReference,
		&b.ReversesBatchID,
		&b.ReversedByBatchID,
		&b.PerformedBy,
		&b.Notes,
		&metadata,
		&b.PostedAt,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return b, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &b.Metadata); err != nil {
			return b, fmt.Errorf("failed to decode batch metadata: %w", err)
		}
	}
	return b, nil
}

// FindBatchByID retrieves a batch by its ID.
func (r *PgxBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.TransactionBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM transaction_batches WHERE batch_id = $1;`

	batch, err := scanBatch(r.Pool.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find batch by ID %s: %w", batchID, err)
	}
	return &batch, nil
}

func scanEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.EntryID,
		&e.BatchID,
		&e.AccountCode,
		&e.EntryType,
		&e.Amount,
		&e.BalanceBefore,
		&e.BalanceAfter,
		&e.Status,
		&e.Description,
		&e.UserID,
		&e.WalletID,
		&e.Reference,
		&e.PostedAt,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

// FindEntriesByBatchID retrieves all ledger entries of a batch.
func (r *PgxBatchRepository) FindEntriesByBatchID(ctx context.Context, batchID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE batch_id = $1 ORDER BY entry_id;`

	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row for batch %s: %w", batchID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for batch %s: %w", batchID, err)
	}
	return entries, nil
}

// ListBatches retrieves a token-paginated page of batches, newest first.
func (r *PgxBatchRepository) ListBatches(ctx context.Context, filter portsrepo.BatchFilter, limit int, nextToken *string) ([]domain.TransactionBatch, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + batchColumns + ` FROM transaction_batches WHERE 1=1`
	args := []interface{}{}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		query += " AND " + fmt.Sprintf(clause, "$"+strconv.Itoa(len(args)))
	}

	if filter.Category != nil {
		addArg("category = %s", *filter.Category)
	}
	if filter.Status != nil {
		addArg("status = %s", *filter.Status)
	}
	if filter.WalletID != nil {
		addArg("(from_wallet_id = %[1]s OR to_wallet_id = %[1]s)", *filter.WalletID)
	}
	if filter.UserID != nil {
		addArg("(from_user_id = %[1]s OR to_user_id = %[1]s)", *filter.UserID)
	}
	if filter.From != nil {
		addArg("posted_at >= %s", *filter.From)
	}
	if filter.To != nil {
		addArg("posted_at < %s", *filter.To)
	}

	if nextToken != nil && *nextToken != "" {
		lastPostedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastPostedAt, lastID)
		query += fmt.Sprintf(" AND (posted_at, batch_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += " ORDER BY posted_at DESC, batch_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	batches := make([]domain.TransactionBatch, 0, fetchLimit)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan batch row: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating batch rows: %w", err)
	}

	var nextTokenVal *string
	if len(batches) > limit {
		last := batches[limit-1]
		token := pagination.EncodeToken(last.PostedAt, last.BatchID)
		nextTokenVal = &token
		batches = batches[:limit]
	}
	return batches, nextTokenVal, nil
}

// ListEntries retrieves a token-paginated page of ledger entries, newest first.
func (r *PgxBatchRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE 1=1`
	args := []interface{}{}

	addArg := func(column string, value interface{}) {
		args = append(args, value)
		query += " AND " + column + " = $" + strconv.Itoa(len(args))
	}

	if filter.AccountCode != nil {
		addArg("account_code", *filter.AccountCode)
	}
	if filter.WalletID != nil {
		addArg("wallet_id", *filter.WalletID)
	}
	if filter.BatchID != nil {
		addArg("batch_id", *filter.BatchID)
	}
	if filter.EntryType != nil {
		addArg("entry_type", *filter.EntryType)
	}

	if nextToken != nil && *nextToken != "" {
		lastPostedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastPostedAt, lastID)
		query += fmt.Sprintf(" AND (posted_at, entry_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += " ORDER BY posted_at DESC, entry_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.PostedAt, last.EntryID)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}

// ListEntriesByAccount retrieves a token-paginated statement for one account.
func (r *PgxBatchRepository) ListEntriesByAccount(ctx context.Context, accountCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	return r.ListEntries(ctx, portsrepo.EntryFilter{AccountCode: &accountCode}, limit, nextToken)
}

// CountBatchesByCategory counts posted and reversed batches in a category.
func (r *PgxBatchRepository) CountBatchesByCategory(ctx context.Context, category domain.BatchCategory) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transaction_batches WHERE category = $1;`, category).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count batches for category %s: %w", category, err)
	}
	return count, nil
}
