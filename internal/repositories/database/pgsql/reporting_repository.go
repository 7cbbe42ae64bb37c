package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new read-only repository for reports.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceAccounts returns every active account ordered by code.
func (r *PgxReportingRepository) GetTrialBalanceAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE is_active ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance accounts: %w", err)
	}
	return accounts, nil
}

// GetVolumeByCategory aggregates posted batches per category over a window.
// The batch total is the debit side; for a balanced batch the credit side
// is identical.
func (r *PgxReportingRepository) GetVolumeByCategory(ctx context.Context, from, to time.Time) ([]domain.CategoryVolume, error) {
	query := `
		SELECT category, COUNT(*), COALESCE(SUM(total_debits), 0)
		FROM transaction_batches
		WHERE status = $1 AND posted_at >= $2 AND posted_at < $3
		GROUP BY category
		ORDER BY category;
	`
	rows, err := r.Pool.Query(ctx, query, domain.BatchPosted, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate volume by category: %w", err)
	}
	defer rows.Close()

	volumes := []domain.CategoryVolume{}
	for rows.Next() {
		var v domain.CategoryVolume
		if err := rows.Scan(&v.Category, &v.Count, &v.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category volume row: %w", err)
		}
		volumes = append(volumes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category volume rows: %w", err)
	}
	return volumes, nil
}

// GetVolumeByDay aggregates posted batches per calendar day over a window.
func (r *PgxReportingRepository) GetVolumeByDay(ctx context.Context, from, to time.Time) ([]domain.DailyVolume, error) {
	query := `
		SELECT date_trunc('day', posted_at) AS day, COUNT(*), COALESCE(SUM(total_debits), 0)
		FROM transaction_batches
		WHERE status = $1 AND posted_at >= $2 AND posted_at < $3
		GROUP BY day
		ORDER BY day;
	`
	rows, err := r.Pool.Query(ctx, query, domain.BatchPosted, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate volume by day: %w", err)
	}
	defer rows.Close()

	volumes := []domain.DailyVolume{}
	for rows.Next() {
		var v domain.DailyVolume
		if err := rows.Scan(&v.Day, &v.Count, &v.Total); err != nil {
			return nil, fmt.Errorf("failed to scan daily volume row: %w", err)
		}
		volumes = append(volumes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily volume rows: %w", err)
	}
	return volumes, nil
}

// GetRevenueAccounts returns all active REVENUE-type accounts.
func (r *PgxReportingRepository) GetRevenueAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_type = $1 AND is_active ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, domain.Revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revenue account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenue accounts: %w", err)
	}
	return accounts, nil
}

// GetWalletTotalsByOwnerType sums total wallet exposure per owner type.
func (r *PgxReportingRepository) GetWalletTotalsByOwnerType(ctx context.Context) (map[domain.OwnerType]struct {
	Count int64
	Total decimal.Decimal
}, error) {
	query := `
		SELECT owner_type, COUNT(*), COALESCE(SUM(available_balance + held_balance + pending_balance), 0)
		FROM wallets
		GROUP BY owner_type;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sum wallet totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[domain.OwnerType]struct {
		Count int64
		Total decimal.Decimal
	})
	for rows.Next() {
		var ownerType domain.OwnerType
		var count int64
		var total decimal.Decimal
		if err := rows.Scan(&ownerType, &count, &total); err != nil {
			return nil, fmt.Errorf("failed to scan wallet totals row: %w", err)
		}
		totals[ownerType] = struct {
			Count int64
			Total decimal.Decimal
		}{Count: count, Total: total}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet totals rows: %w", err)
	}
	return totals, nil
}

// GetDashboardMetrics collects the admin landing-page numbers.
func (r *PgxReportingRepository) GetDashboardMetrics(ctx context.Context, now time.Time) (*domain.DashboardMetrics, error) {
	metrics := &domain.DashboardMetrics{
		WalletsByOwnerType: make(map[domain.OwnerType]int64),
		TotalLiability:     decimal.Zero,
		VolumeToday:        decimal.Zero,
	}

	rows, err := r.Pool.Query(ctx, `SELECT owner_type, COUNT(*) FROM wallets GROUP BY owner_type;`)
	if err != nil {
		return nil, fmt.Errorf("failed to count wallets by owner type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ownerType domain.OwnerType
		var count int64
		if err := rows.Scan(&ownerType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan wallet count row: %w", err)
		}
		metrics.WalletsByOwnerType[ownerType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet count rows: %w", err)
	}

	liabilityQuery := `SELECT COALESCE(SUM(current_balance), 0) FROM accounts WHERE sub_type = $1;`
	if err := r.Pool.QueryRow(ctx, liabilityQuery, domain.SubTypeWalletLiability).Scan(&metrics.TotalLiability); err != nil {
		return nil, fmt.Errorf("failed to sum wallet liability: %w", err)
	}

	midnight := now.UTC().Truncate(24 * time.Hour)
	todayQuery := `
		SELECT COUNT(*), COALESCE(SUM(total_debits), 0)
		FROM transaction_batches
		WHERE status = $1 AND posted_at >= $2;
	`
	if err := r.Pool.QueryRow(ctx, todayQuery, domain.BatchPosted, midnight).Scan(&metrics.BatchesToday, &metrics.VolumeToday); err != nil {
		return nil, fmt.Errorf("failed to aggregate today's activity: %w", err)
	}

	return metrics, nil
}
