package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/core/domain"
)

// WalletResponse mirrors domain.UnifiedWallet for API output.
type WalletResponse struct {
	WalletID  string           `json:"walletID"`
	OwnerID   string           `json:"ownerID"`
	OwnerType domain.OwnerType `json:"ownerType"`

	AvailableBalance decimal.Decimal `json:"availableBalance"`
	HeldBalance      decimal.Decimal `json:"heldBalance"`
	PendingBalance   decimal.Decimal `json:"pendingBalance"`

	TotalCredited decimal.Decimal `json:"totalCredited"`
	TotalDebited  decimal.Decimal `json:"totalDebited"`
	TotalHeld     decimal.Decimal `json:"totalHeld"`
	TotalReleased decimal.Decimal `json:"totalReleased"`

	Status        domain.WalletStatus `json:"status"`
	StatusReason  string              `json:"statusReason,omitempty"`
	StatusChanged *time.Time          `json:"statusChangedAt,omitempty"`

	DailyLimit          decimal.Decimal `json:"dailyLimit"`
	PerTransactionLimit decimal.Decimal `json:"perTransactionLimit"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToWalletResponse converts a domain wallet to its API representation.
func ToWalletResponse(w *domain.UnifiedWallet) WalletResponse {
	return WalletResponse{
		WalletID:            w.WalletID,
		OwnerID:             w.OwnerID,
		OwnerType:           w.OwnerType,
		AvailableBalance:    w.AvailableBalance,
		HeldBalance:         w.HeldBalance,
		PendingBalance:      w.PendingBalance,
		TotalCredited:       w.TotalCredited,
		TotalDebited:        w.TotalDebited,
		TotalHeld:           w.TotalHeld,
		TotalReleased:       w.TotalReleased,
		Status:              w.Status,
		StatusReason:        w.StatusReason,
		StatusChanged:       w.StatusChanged,
		DailyLimit:          w.DailyLimit,
		PerTransactionLimit: w.PerTransactionLimit,
		CreatedAt:           w.CreatedAt,
		LastUpdatedAt:       w.LastUpdatedAt,
	}
}

// ListWalletsParams defines query parameters for listing wallets.
type ListWalletsParams struct {
	OwnerType *domain.OwnerType    `form:"ownerType"`
	Status    *domain.WalletStatus `form:"status"`
	Limit     int                  `form:"limit,default=20"`
	Offset    int                  `form:"offset,default=0"`
}

// ListWalletsResponse is a paginated wallet listing.
type ListWalletsResponse struct {
	Wallets []WalletResponse `json:"wallets"`
	Total   int64            `json:"total"`
}

// EnsureWalletRequest idempotently creates the owner's wallet.
type EnsureWalletRequest struct {
	OwnerID   string           `json:"ownerID" binding:"required"`
	OwnerType domain.OwnerType `json:"ownerType" binding:"required,oneof=PATIENT SPECIALIST PHARMACY PLATFORM"`
}

// UpdateWalletStatusRequest transitions a wallet's administrative status.
// A reason is mandatory; the acting admin is recorded for audit.
type UpdateWalletStatusRequest struct {
	Status domain.WalletStatus `json:"status" binding:"required,oneof=ACTIVE SUSPENDED FROZEN CLOSED"`
	Reason string              `json:"reason" binding:"required"`
}

// CreditWalletRequest credits a wallet from an admin-chosen source account.
type CreditWalletRequest struct {
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	SourceAccountCode string          `json:"sourceAccountCode" binding:"required,acctcode"`
	Reason            string          `json:"reason" binding:"required"`
	ExternalReference *string         `json:"externalReference"`
}

// DebitWalletRequest debits a wallet into an admin-chosen destination account.
type DebitWalletRequest struct {
	Amount                 decimal.Decimal `json:"amount" binding:"required"`
	DestinationAccountCode string          `json:"destinationAccountCode" binding:"required,acctcode"`
	Reason                 string          `json:"reason" binding:"required"`
	ExternalReference      *string         `json:"externalReference"`
}
