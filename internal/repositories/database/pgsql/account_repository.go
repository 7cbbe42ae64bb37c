package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
)

const accountColumns = `code, name, account_type, sub_type, normal_balance, current_balance, is_system_account, is_active, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.SubType,
		&acc.NormalBalance,
		&acc.CurrentBalance,
		&acc.IsSystemAccount,
		&acc.IsActive,
		&acc.Description,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	return acc, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.Code,
		account.Name,
		account.AccountType,
		account.SubType,
		account.NormalBalance,
		account.CurrentBalance,
		account.IsSystemAccount,
		account.IsActive,
		account.Description,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", account.Code, err)
	}
	return nil
}

// FindAccountByCode retrieves an account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return &acc, nil
}

// FindAccountsByCodes retrieves multiple accounts keyed by code.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	if len(codes) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by codes: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account, len(codes))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accountsMap[acc.Code] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accountsMap, nil
}

// FindAccountBySubType retrieves the first active account carrying the sub type.
func (r *PgxAccountRepository) FindAccountBySubType(ctx context.Context, subType domain.AccountSubType) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE sub_type = $1 AND is_active ORDER BY code LIMIT 1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, subType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by sub type %s: %w", subType, err)
	}
	return &acc, nil
}

// ListAccounts retrieves a page of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, includeInactive bool, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY code LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// UpdateAccount updates an account's descriptive fields. The balance and
// the type columns are never touched here; balances move only through the
// batch engine.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2,
		    description = $3,
		    is_active = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE code = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.Code,
		account.Name,
		account.Description,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.Code, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + account.Code + " not found for update")
	}
	return nil
}

// DeactivateAccount marks an account inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, code string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE code = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, code, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", code, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + code + " not found for deactivation")
	}
	return nil
}

// DeleteAccount hard-deletes an account row. The service layer guarantees
// the account carries no ledger history before calling this.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE code = $1;`, code)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", code, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + code + " not found for deletion")
	}
	return nil
}

// HasLedgerHistory reports whether any ledger entry ever posted to the account.
func (r *PgxAccountRepository) HasLedgerHistory(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE account_code = $1);`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ledger history for account %s: %w", code, err)
	}
	return exists, nil
}

// FindAccountsByCodesForUpdate locks the account rows for the duration of
// the surrounding transaction. Codes are sorted by the caller to keep lock
// acquisition order deterministic across concurrent batches.
func (r *PgxAccountRepository) FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, codes []string) (map[string]domain.Account, error) {
	if len(codes) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1) ORDER BY code FOR UPDATE;`

	rows, err := tx.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account, len(codes))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[acc.Code] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	for _, code := range codes {
		if _, ok := accountsMap[code]; !ok {
			return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
		}
	}
	return accountsMap, nil
}

// UpdateAccountBalancesInTx applies the batch's aggregated balance deltas
// inside the caller's transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET current_balance = current_balance + $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE code = $1;
	`
	batch := &pgx.Batch{}
	for code, delta := range balanceChanges {
		batch.Queue(query, code, delta, now, userID)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to apply account balance changes: %w", err)
	}
	return nil
}
