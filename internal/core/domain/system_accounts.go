package domain

import "fmt"

// Codes of the system accounts seeded by the schema migrations. These are
// protected: they cannot be deleted or deactivated, and the batch engine
// resolves them by code.
const (
	AccountGatewaySettlement   = "1200.001.001" // ASSET: funds in transit at the payment gateway
	AccountOperatingFund       = "1300.003.001" // ASSET: internal float backing admin credits
	AccountWalletPatient       = "2100.001.001" // LIABILITY: aggregate patient wallet balances
	AccountWalletSpecialist    = "2100.002.001" // LIABILITY: aggregate specialist wallet balances
	AccountWalletPharmacy      = "2100.003.001" // LIABILITY: aggregate pharmacy wallet balances
	AccountWalletPlatform      = "2100.004.001" // LIABILITY: aggregate platform wallet balances
	AccountRetainedEarnings    = "3000.001.001" // EQUITY
	AccountOpeningBalance      = "3000.002.001" // EQUITY: offset for migrated legacy balances
	AccountConsultationRevenue = "4000.001.001" // REVENUE
	AccountPlatformFees        = "4000.002.001" // REVENUE
	AccountWalletCreditExpense = "5000.001.001" // EXPENSE: promotional/admin wallet credits
)

// WalletLiabilityAccount maps a wallet owner type to the liability account
// that backs its balances.
func WalletLiabilityAccount(ownerType OwnerType) (string, error) {
	switch ownerType {
	case OwnerPatient:
		return AccountWalletPatient, nil
	case OwnerSpecialist:
		return AccountWalletSpecialist, nil
	case OwnerPharmacy:
		return AccountWalletPharmacy, nil
	case OwnerPlatform:
		return AccountWalletPlatform, nil
	default:
		return "", fmt.Errorf("no wallet liability account for owner type %q", ownerType)
	}
}
