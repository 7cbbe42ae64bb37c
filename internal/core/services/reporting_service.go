package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
)

// reconciliationTolerance absorbs rounding from legacy float data; wallet
// and ledger sums closer than this are considered reconciled.
var reconciliationTolerance = decimal.NewFromFloat(0.01)

// reportingService implements the ReportingSvc interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountRepository) portssvc.ReportingSvc {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
	}
}

// Ensure reportingService implements the ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

// GetTrialBalance places each account's cached balance in its normal-side
// column; a negative balance flips to the opposite column with its sign
// dropped, so both columns are always non-negative.
func (s *reportingService) GetTrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error) {
	accounts, err := s.reportingRepo.GetTrialBalanceAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for trial balance")
		return nil, err
	}

	rows := make([]domain.TrialBalanceRow, 0, len(accounts))
	for _, acc := range accounts {
		row := domain.TrialBalanceRow{
			AccountCode:   acc.Code,
			AccountName:   acc.Name,
			AccountType:   acc.AccountType,
			NormalBalance: acc.NormalBalance,
			Debit:         decimal.Zero,
			Credit:        decimal.Zero,
		}

		balance := acc.CurrentBalance
		debitSide := acc.IsDebitNormal()
		if balance.IsNegative() {
			balance = balance.Neg()
			debitSide = !debitSide
		}
		if debitSide {
			row.Debit = balance
		} else {
			row.Credit = balance
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *reportingService) GetRevenueReport(ctx context.Context, from, to time.Time) (*domain.RevenueReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("report window ends before it starts: %w", apperrors.ErrValidation)
	}

	byCategory, err := s.reportingRepo.GetVolumeByCategory(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate volume by category")
		return nil, err
	}

	byDay, err := s.reportingRepo.GetVolumeByDay(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate volume by day")
		return nil, err
	}

	revenueAccounts, err := s.reportingRepo.GetRevenueAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load revenue accounts")
		return nil, err
	}

	return &domain.RevenueReport{
		From:            from,
		To:              to,
		ByCategory:      byCategory,
		ByDay:           byDay,
		RevenueAccounts: revenueAccounts,
	}, nil
}

// GetReconciliation proves, per owner type, that the sum of wallet
// projections matches the liability account the batch engine mutates in the
// same transaction. A difference beyond the tolerance means the projection
// drifted and needs investigation.
func (s *reportingService) GetReconciliation(ctx context.Context) ([]domain.ReconciliationRow, error) {
	totals, err := s.reportingRepo.GetWalletTotalsByOwnerType(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum wallet balances")
		return nil, err
	}

	ownerTypes := []domain.OwnerType{domain.OwnerPatient, domain.OwnerSpecialist, domain.OwnerPharmacy, domain.OwnerPlatform}
	rows := make([]domain.ReconciliationRow, 0, len(ownerTypes))
	for _, ownerType := range ownerTypes {
		code, err := domain.WalletLiabilityAccount(ownerType)
		if err != nil {
			return nil, err
		}

		account, err := s.accountRepo.FindAccountByCode(ctx, code)
		if err != nil {
			s.LogError(ctx, err, "Failed to load wallet liability account")
			return nil, err
		}

		walletCount := int64(0)
		walletTotal := decimal.Zero
		if t, ok := totals[ownerType]; ok {
			walletCount = t.Count
			walletTotal = t.Total
		}

		difference := walletTotal.Sub(account.CurrentBalance)
		rows = append(rows, domain.ReconciliationRow{
			OwnerType:            ownerType,
			LiabilityAccountCode: code,
			WalletCount:          walletCount,
			WalletTotal:          walletTotal,
			LedgerBalance:        account.CurrentBalance,
			Difference:           difference,
			Reconciled:           difference.Abs().LessThanOrEqual(reconciliationTolerance),
		})
	}
	return rows, nil
}

func (s *reportingService) GetDashboard(ctx context.Context) (*domain.DashboardMetrics, error) {
	metrics, err := s.reportingRepo.GetDashboardMetrics(ctx, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to load dashboard metrics")
		return nil, err
	}
	return metrics, nil
}
