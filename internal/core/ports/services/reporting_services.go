package services

import (
	"context"
	"time"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

// ReportingSvc defines the read-only financial reports
type ReportingSvc interface {
	// GetTrialBalance lists every active account with its balance split into
	// debit and credit columns.
	GetTrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error)

	// GetRevenueReport aggregates posted activity over a date window.
	GetRevenueReport(ctx context.Context, from, to time.Time) (*domain.RevenueReport, error)

	// GetReconciliation compares wallet projections against the wallet
	// liability accounts per owner type.
	GetReconciliation(ctx context.Context) ([]domain.ReconciliationRow, error)

	// GetDashboard summarises today's activity for the admin landing page.
	GetDashboard(ctx context.Context) (*domain.DashboardMetrics, error)
}
