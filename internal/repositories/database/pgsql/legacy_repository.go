package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
)

// legacyTableName is the pre-ledger transaction store carried over from the
// old platform database. It exists only until the migration importer has
// run and dropped it.
const legacyTableName = "legacy_wallet_transactions"

type PgxLegacyRepository struct {
	BaseRepository
}

// newPgxLegacyRepository creates a repository over the legacy transaction table.
func newPgxLegacyRepository(pool *pgxpool.Pool) portsrepo.LegacyRepository {
	return &PgxLegacyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLegacyRepository implements portsrepo.LegacyRepository
var _ portsrepo.LegacyRepository = (*PgxLegacyRepository)(nil)

// LegacyTableExists reports whether the legacy table is still present.
func (r *PgxLegacyRepository) LegacyTableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL;`, legacyTableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check legacy table: %w", err)
	}
	return exists, nil
}

// CountLegacyTransactions counts the records awaiting migration.
func (r *PgxLegacyRepository) CountLegacyTransactions(ctx context.Context) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+legacyTableName+`;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count legacy transactions: %w", err)
	}
	return count, nil
}

// ListLegacyTransactions reads the whole legacy table in chronological
// order, so migrated running balances replay history as it happened.
func (r *PgxLegacyRepository) ListLegacyTransactions(ctx context.Context) ([]domain.LegacyTransaction, error) {
	query := `
		SELECT legacy_id, owner_id, owner_type, amount, narration, reference_type, reference, occurred_at
		FROM ` + legacyTableName + `
		ORDER BY occurred_at, legacy_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy transactions: %w", err)
	}
	defer rows.Close()

	records := []domain.LegacyTransaction{}
	for rows.Next() {
		var t domain.LegacyTransaction
		if err := rows.Scan(
			&t.LegacyID,
			&t.OwnerID,
			&t.OwnerType,
			&t.Amount,
			&t.Narration,
			&t.ReferenceType,
			&t.Reference,
			&t.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan legacy transaction row: %w", err)
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy transaction rows: %w", err)
	}
	return records, nil
}

// DropLegacyTable removes the legacy table after a fully successful import.
func (r *PgxLegacyRepository) DropLegacyTable(ctx context.Context) error {
	if _, err := r.Pool.Exec(ctx, `DROP TABLE IF EXISTS `+legacyTableName+`;`); err != nil {
		return fmt.Errorf("failed to drop legacy table: %w", err)
	}
	return nil
}
