package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account line of the trial balance report.
type TrialBalanceRow struct {
	AccountCode   string
	AccountName   string
	AccountType   AccountType
	NormalBalance NormalBalance
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// CategoryVolume aggregates posted batches for one category.
type CategoryVolume struct {
	Category BatchCategory
	Count    int64
	Total    decimal.Decimal
}

// DailyVolume aggregates posted batches for one calendar day.
type DailyVolume struct {
	Day   time.Time
	Count int64
	Total decimal.Decimal
}

// RevenueReport summarises posted activity over a date window together with
// the current balances of REVENUE-type accounts.
type RevenueReport struct {
	From            time.Time
	To              time.Time
	ByCategory      []CategoryVolume
	ByDay           []DailyVolume
	RevenueAccounts []Account
}

// ReconciliationRow compares the wallet projections of one owner type with
// the matching liability account's cached balance.
type ReconciliationRow struct {
	OwnerType            OwnerType
	LiabilityAccountCode string
	WalletCount          int64
	WalletTotal          decimal.Decimal // Sum of available+held+pending
	LedgerBalance        decimal.Decimal
	Difference           decimal.Decimal // WalletTotal - LedgerBalance
	Reconciled           bool
}

// DashboardMetrics is the admin landing-page summary.
type DashboardMetrics struct {
	WalletsByOwnerType map[OwnerType]int64
	TotalLiability     decimal.Decimal
	BatchesToday       int64
	VolumeToday        decimal.Decimal
}
