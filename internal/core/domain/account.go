package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance naturally increases.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// AccountSubType is a semantic tag refining the account type.
type AccountSubType string

const (
	SubTypeWalletLiability AccountSubType = "WALLET_LIABILITY"
	SubTypeOperatingFund   AccountSubType = "OPERATING_FUND"
	SubTypeOpeningBalance  AccountSubType = "OPENING_BALANCE"
	SubTypeGateway         AccountSubType = "GATEWAY_SETTLEMENT"
	SubTypePlatformRevenue AccountSubType = "PLATFORM_REVENUE"
	SubTypeGeneral         AccountSubType = "GENERAL"
)

// accountCodePattern is the structured chart-of-accounts code format:
// four-digit group, then two three-digit subgroups, dot separated.
var accountCodePattern = regexp.MustCompile(`^\d{4}\.\d{3}\.\d{3}$`)

// ValidAccountCode reports whether code matches the DDDD.DDD.DDD format.
func ValidAccountCode(code string) bool {
	return accountCodePattern.MatchString(code)
}

// Account is one node of the chart of accounts. CurrentBalance is a cached
// projection mutated exclusively by the transaction batch engine.
type Account struct {
	Code            string          `json:"code"` // Primary key, DDDD.DDD.DDD
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	SubType         AccountSubType  `json:"subType"`
	NormalBalance   NormalBalance   `json:"normalBalance"` // Derived from AccountType
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	IsSystemAccount bool            `json:"isSystemAccount"` // Protected from deletion/deactivation
	IsActive        bool            `json:"isActive"`
	Description     string          `json:"description"`
	AuditFields
}

// IsDebitNormal reports whether the account increases on the debit side.
func (a Account) IsDebitNormal() bool {
	return a.NormalBalance == DebitNormal
}
