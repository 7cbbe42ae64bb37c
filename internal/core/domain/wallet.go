package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerType identifies which side of the platform a wallet belongs to.
type OwnerType string

const (
	OwnerPatient    OwnerType = "PATIENT"
	OwnerSpecialist OwnerType = "SPECIALIST"
	OwnerPharmacy   OwnerType = "PHARMACY"
	OwnerPlatform   OwnerType = "PLATFORM"
)

// KnownOwnerType reports whether t is a supported wallet owner type.
func KnownOwnerType(t OwnerType) bool {
	switch t {
	case OwnerPatient, OwnerSpecialist, OwnerPharmacy, OwnerPlatform:
		return true
	}
	return false
}

// WalletStatus is the administrative state of a wallet.
type WalletStatus string

const (
	WalletActive    WalletStatus = "ACTIVE"
	WalletSuspended WalletStatus = "SUSPENDED"
	WalletFrozen    WalletStatus = "FROZEN"
	WalletClosed    WalletStatus = "CLOSED"
)

// KnownWalletStatus reports whether s is a supported wallet status.
func KnownWalletStatus(s WalletStatus) bool {
	switch s {
	case WalletActive, WalletSuspended, WalletFrozen, WalletClosed:
		return true
	}
	return false
}

// UnifiedWallet is the cached per-owner balance projection backed by the
// owner type's liability account. Balances are mutated exclusively by the
// batch engine, in the same database transaction as the ledger entries.
// Wallets are never deleted, only status-transitioned to CLOSED.
type UnifiedWallet struct {
	WalletID  string    `json:"walletID"`
	OwnerID   string    `json:"ownerID"`
	OwnerType OwnerType `json:"ownerType"`

	AvailableBalance decimal.Decimal `json:"availableBalance"`
	HeldBalance      decimal.Decimal `json:"heldBalance"`
	PendingBalance   decimal.Decimal `json:"pendingBalance"`

	TotalCredited decimal.Decimal `json:"totalCredited"`
	TotalDebited  decimal.Decimal `json:"totalDebited"`
	TotalHeld     decimal.Decimal `json:"totalHeld"`
	TotalReleased decimal.Decimal `json:"totalReleased"`

	Status        WalletStatus `json:"status"`
	StatusReason  string       `json:"statusReason"`
	StatusActor   string       `json:"statusActor"`
	StatusChanged *time.Time   `json:"statusChangedAt,omitempty"`

	DailyLimit          decimal.Decimal `json:"dailyLimit"`          // Zero means unlimited
	PerTransactionLimit decimal.Decimal `json:"perTransactionLimit"` // Zero means unlimited

	// Migration provenance for wallets carried over from the legacy system.
	LegacySource *string `json:"legacySource,omitempty"`
	LegacyID     *string `json:"legacyID,omitempty"`

	AuditFields
}

// TotalBalance is the wallet's full liability exposure.
func (w UnifiedWallet) TotalBalance() decimal.Decimal {
	return w.AvailableBalance.Add(w.HeldBalance).Add(w.PendingBalance)
}

// WalletDelta is the balance mutation the batch engine applies to a wallet
// alongside its ledger entries.
type WalletDelta struct {
	WalletID  string
	Available decimal.Decimal
	Held      decimal.Decimal
	Pending   decimal.Decimal

	Credited decimal.Decimal
	Debited  decimal.Decimal
	HeldAmt  decimal.Decimal
	Released decimal.Decimal
}
