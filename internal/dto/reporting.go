package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

// TrialBalanceRowResponse is one account line of the trial balance report.
type TrialBalanceRowResponse struct {
	AccountCode   string               `json:"accountCode"`
	AccountName   string               `json:"accountName"`
	AccountType   domain.AccountType   `json:"accountType"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	Debit         decimal.Decimal      `json:"debit"`
	Credit        decimal.Decimal      `json:"credit"`
}

// TrialBalanceResponse is the full trial balance report. Valid is true iff
// total debits equal total credits.
type TrialBalanceResponse struct {
	AsOf  string                    `json:"asOf"`
	Rows  []TrialBalanceRowResponse `json:"rows"`
	Valid bool                      `json:"valid"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// ToTrialBalanceResponse builds the report response from domain rows.
func ToTrialBalanceResponse(rows []domain.TrialBalanceRow, asOf time.Time) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		AsOf: asOf.Format("2006-01-02"),
		Rows: make([]TrialBalanceRowResponse, len(rows)),
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, row := range rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountCode:   row.AccountCode,
			AccountName:   row.AccountName,
			AccountType:   row.AccountType,
			NormalBalance: row.NormalBalance,
			Debit:         row.Debit,
			Credit:        row.Credit,
		}
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}

	resp.Totals.Debit = totalDebit
	resp.Totals.Credit = totalCredit
	resp.Valid = totalDebit.Equal(totalCredit)
	return resp
}

// RevenueReportParams defines the reporting window.
type RevenueReportParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// CategoryVolumeResponse aggregates posted batches for one category.
type CategoryVolumeResponse struct {
	Category domain.BatchCategory `json:"category"`
	Count    int64                `json:"count"`
	Total    decimal.Decimal      `json:"total"`
}

// DailyVolumeResponse aggregates posted batches for one calendar day.
type DailyVolumeResponse struct {
	Day   string          `json:"day"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// RevenueReportResponse is the revenue report over a window.
type RevenueReportResponse struct {
	From            string                   `json:"from"`
	To              string                   `json:"to"`
	ByCategory      []CategoryVolumeResponse `json:"byCategory"`
	ByDay           []DailyVolumeResponse    `json:"byDay"`
	RevenueAccounts []AccountResponse        `json:"revenueAccounts"`
	TotalRevenue    decimal.Decimal          `json:"totalRevenue"`
}

// ToRevenueReportResponse builds the report response from the domain report.
func ToRevenueReportResponse(report *domain.RevenueReport) RevenueReportResponse {
	resp := RevenueReportResponse{
		From:            report.From.Format("2006-01-02"),
		To:              report.To.Format("2006-01-02"),
		ByCategory:      make([]CategoryVolumeResponse, len(report.ByCategory)),
		ByDay:           make([]DailyVolumeResponse, len(report.ByDay)),
		RevenueAccounts: make([]AccountResponse, len(report.RevenueAccounts)),
		TotalRevenue:    decimal.Zero,
	}
	for i, cv := range report.ByCategory {
		resp.ByCategory[i] = CategoryVolumeResponse{Category: cv.Category, Count: cv.Count, Total: cv.Total}
	}
	for i, dv := range report.ByDay {
		resp.ByDay[i] = DailyVolumeResponse{Day: dv.Day.Format("2006-01-02"), Count: dv.Count, Total: dv.Total}
	}
	for i := range report.RevenueAccounts {
		resp.RevenueAccounts[i] = ToAccountResponse(&report.RevenueAccounts[i])
		resp.TotalRevenue = resp.TotalRevenue.Add(report.RevenueAccounts[i].CurrentBalance)
	}
	return resp
}

// ReconciliationRowResponse compares wallet projections of one owner type
// with the matching liability account.
type ReconciliationRowResponse struct {
	OwnerType            domain.OwnerType `json:"ownerType"`
	LiabilityAccountCode string           `json:"liabilityAccountCode"`
	WalletCount          int64            `json:"walletCount"`
	WalletTotal          decimal.Decimal  `json:"walletTotal"`
	LedgerBalance        decimal.Decimal  `json:"ledgerBalance"`
	Difference           decimal.Decimal  `json:"difference"`
	Reconciled           bool             `json:"reconciled"`
}

// ReconciliationResponse is the wallet-vs-ledger reconciliation report.
type ReconciliationResponse struct {
	GeneratedAt string                      `json:"generatedAt"`
	Rows        []ReconciliationRowResponse `json:"rows"`
	Reconciled  bool                        `json:"reconciled"`
}

// ToReconciliationResponse builds the report response from domain rows.
func ToReconciliationResponse(rows []domain.ReconciliationRow, now time.Time) ReconciliationResponse {
	resp := ReconciliationResponse{
		GeneratedAt: now.Format(time.RFC3339),
		Rows:        make([]ReconciliationRowResponse, len(rows)),
		Reconciled:  true,
	}
	for i, row := range rows {
		resp.Rows[i] = ReconciliationRowResponse{
			OwnerType:            row.OwnerType,
			LiabilityAccountCode: row.LiabilityAccountCode,
			WalletCount:          row.WalletCount,
			WalletTotal:          row.WalletTotal,
			LedgerBalance:        row.LedgerBalance,
			Difference:           row.Difference,
			Reconciled:           row.Reconciled,
		}
		if !row.Reconciled {
			resp.Reconciled = false
		}
	}
	return resp
}

// DashboardResponse is the admin landing-page summary.
type DashboardResponse struct {
	WalletsByOwnerType map[domain.OwnerType]int64 `json:"walletsByOwnerType"`
	TotalLiability     decimal.Decimal            `json:"totalLiability"`
	BatchesToday       int64                      `json:"batchesToday"`
	VolumeToday        decimal.Decimal            `json:"volumeToday"`
}
