package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

// NormalBalanceFor derives the normal balance side from the account type.
// This is the single canonical mapping; every balance-affecting code path
// must consult it rather than re-deriving the rule inline.
func NormalBalanceFor(accountType domain.AccountType) (domain.NormalBalance, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return domain.DebitNormal, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return domain.CreditNormal, nil
	default:
		return "", fmt.Errorf("unknown account type %q", accountType)
	}
}

// SignedDelta computes the effect of an entry on an account's balance.
// DEBIT to a debit-normal account increases it; CREDIT to a credit-normal
// account increases it; the opposite pairings decrease it.
func SignedDelta(entryType domain.EntryType, normalBalance domain.NormalBalance, amount decimal.Decimal) decimal.Decimal {
	isDebit := entryType == domain.Debit
	debitNormal := normalBalance == domain.DebitNormal
	if isDebit == debitNormal {
		return amount
	}
	return amount.Neg()
}

// ValidateBatchBalance checks the double-entry invariant on a set of entry
// lines: at least two entries, strictly positive amounts, and total debits
// equal to total credits. Amounts are decimals, so the comparison is exact.
func ValidateBatchBalance(entries []domain.EntryLine) (debits, credits decimal.Decimal, err error) {
	if len(entries) < 2 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("batch must have at least two entries, got %d", len(entries))
	}

	debits = decimal.Zero
	credits = decimal.Zero
	for i, line := range entries {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, decimal.Zero, fmt.Errorf("entry %d: amount must be strictly positive, got %s", i, line.Amount)
		}
		switch line.EntryType {
		case domain.Debit:
			debits = debits.Add(line.Amount)
		case domain.Credit:
			credits = credits.Add(line.Amount)
		default:
			return decimal.Zero, decimal.Zero, fmt.Errorf("entry %d: unknown entry type %q", i, line.EntryType)
		}
	}

	if !debits.Equal(credits) {
		return debits, credits, fmt.Errorf("batch does not balance: debits %s, credits %s", debits, credits)
	}
	return debits, credits, nil
}
