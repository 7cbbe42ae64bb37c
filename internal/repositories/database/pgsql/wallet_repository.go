package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
)

const walletColumns = `wallet_id, owner_id, owner_type, available_balance, held_balance, pending_balance,
	total_credited, total_debited, total_held, total_released,
	status, status_reason, status_actor, status_changed_at,
	daily_limit, per_transaction_limit, legacy_source, legacy_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxWalletRepository struct {
	BaseRepository
}

// newPgxWalletRepository creates a new repository for wallet projections.
func newPgxWalletRepository(pool *pgxpool.Pool) portsrepo.WalletRepository {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxWalletRepository implements portsrepo.WalletRepository
var _ portsrepo.WalletRepository = (*PgxWalletRepository)(nil)

func scanWallet(row pgx.Row) (domain.UnifiedWallet, error) {
	var w domain.UnifiedWallet
	err := row.Scan(
		&w.WalletID,
		&w.OwnerID,
		&w.OwnerType,
		&w.AvailableBalance,
		&w.HeldBalance,
		&w.PendingBalance,
		&w.TotalCredited,
		&w.TotalDebited,
		&w.TotalHeld,
		&w.TotalReleased,
		&w.Status,
		&w.StatusReason,
		&w.StatusActor,
		&w.StatusChanged,
		&w.DailyLimit,
		&w.PerTransactionLimit,
		&w.LegacySource,
		&w.LegacyID,
		&w.CreatedAt,
		&w.CreatedBy,
		&w.LastUpdatedAt,
		&w.LastUpdatedBy,
	)
	return w, err
}

// SaveWallet inserts a new wallet. The unique (owner_id, owner_type) index
// makes the lazy-create race safe: the loser gets ErrDuplicate.
func (r *PgxWalletRepository) SaveWallet(ctx context.Context, wallet domain.UnifiedWallet) error {
	query := `
		INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := r.Pool.Exec(ctx, query,
		wallet.WalletID,
		wallet.OwnerID,
		wallet.OwnerType,
		wallet.AvailableBalance,
		wallet.HeldBalance,
		wallet.PendingBalance,
		wallet.TotalCredited,
		wallet.TotalDebited,
		wallet.TotalHeld,
		wallet.TotalReleased,
		wallet.Status,
		wallet.StatusReason,
		wallet.StatusActor,
		wallet.StatusChanged,
		wallet.DailyLimit,
		wallet.PerTransactionLimit,
		wallet.LegacySource,
		wallet.LegacyID,
		wallet.CreatedAt,
		wallet.CreatedBy,
		wallet.LastUpdatedAt,
		wallet.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: wallet for owner %s/%s already exists", apperrors.ErrDuplicate, wallet.OwnerID, wallet.OwnerType)
		}
		return fmt.Errorf("failed to save wallet %s: %w", wallet.WalletID, err)
	}
	return nil
}

// FindWalletByID retrieves a wallet by its ID.
func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.UnifiedWallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1;`

	w, err := scanWallet(r.Pool.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wallet by ID %s: %w", walletID, err)
	}
	return &w, nil
}

// FindWalletByOwner retrieves the wallet of an owner.
func (r *PgxWalletRepository) FindWalletByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (*domain.UnifiedWallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 AND owner_type = $2;`

	w, err := scanWallet(r.Pool.QueryRow(ctx, query, ownerID, ownerType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wallet for owner %s/%s: %w", ownerID, ownerType, err)
	}
	return &w, nil
}

// ListWallets retrieves a page of wallets with the total match count.
func (r *PgxWalletRepository) ListWallets(ctx context.Context, filter portsrepo.WalletFilter, limit, offset int) ([]domain.UnifiedWallet, int64, error) {
	if limit <= 0 {
		limit = 20
	}

	whereClause := ` WHERE 1=1`
	args := []interface{}{}
	if filter.OwnerType != nil {
		args = append(args, *filter.OwnerType)
		whereClause += ` AND owner_type = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		whereClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM wallets` + whereClause + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count wallets: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + walletColumns + ` FROM wallets` + whereClause +
		` ORDER BY created_at DESC, wallet_id DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	wallets := []domain.UnifiedWallet{}
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating wallet rows: %w", err)
	}
	return wallets, total, nil
}

// UpdateWalletStatus transitions a wallet's administrative status.
func (r *PgxWalletRepository) UpdateWalletStatus(ctx context.Context, walletID string, status domain.WalletStatus, reason, actorID string, now time.Time) error {
	query := `
		UPDATE wallets
		SET status = $2,
		    status_reason = $3,
		    status_actor = $4,
		    status_changed_at = $5,
		    last_updated_at = $5,
		    last_updated_by = $4
		WHERE wallet_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, walletID, status, reason, actorID, now)
	if err != nil {
		return fmt.Errorf("failed to update wallet %s status: %w", walletID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("wallet " + walletID + " not found for status update")
	}
	return nil
}

// SumSpentToday sums the wallet's debit-side entries since midnight UTC,
// used to enforce the daily spend limit. HOLD and RELEASE batches only move
// funds between balance buckets, so their entries are excluded — a held
// amount counts once, when it settles or is withdrawn.
func (r *PgxWalletRepository) SumSpentToday(ctx context.Context, walletID string, now time.Time) (decimal.Decimal, error) {
	midnight := now.UTC().Truncate(24 * time.Hour)

	query := `
		SELECT COALESCE(SUM(e.amount), 0)
		FROM ledger_entries e
		JOIN transaction_batches b ON b.batch_id = e.batch_id
		WHERE e.wallet_id = $1
		  AND e.entry_type = $2
		  AND e.status = $3
		  AND e.posted_at >= $4
		  AND b.category NOT IN ($5, $6);
	`
	var spent decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, walletID, domain.Debit, domain.EntryPosted, midnight,
		domain.CategoryHold, domain.CategoryRelease).Scan(&spent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum daily spend for wallet %s: %w", walletID, err)
	}
	return spent, nil
}
