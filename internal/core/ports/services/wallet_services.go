package services

import (
	"context"

	"github.com/telemedix/ledger-backend/internal/core/domain"
	"github.com/telemedix/ledger-backend/internal/dto"
)

// WalletReaderSvc defines read operations for wallet projections
type WalletReaderSvc interface {
	// GetWalletByID retrieves a wallet by its identifier.
	GetWalletByID(ctx context.Context, walletID string) (*domain.UnifiedWallet, error)

	// GetWalletByOwner retrieves the wallet of an owner, if one exists.
	GetWalletByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (*domain.UnifiedWallet, error)

	// ListWallets retrieves a paginated list of wallets with the total count.
	ListWallets(ctx context.Context, params dto.ListWalletsParams) ([]domain.UnifiedWallet, int64, error)
}

// WalletWriterSvc defines write operations for wallet projections
type WalletWriterSvc interface {
	// EnsureWallet returns the owner's wallet, creating an empty active one
	// on first use.
	EnsureWallet(ctx context.Context, ownerID string, ownerType domain.OwnerType, userID string) (*domain.UnifiedWallet, error)

	// UpdateWalletStatus transitions a wallet's administrative status with a
	// mandatory reason. CLOSED is terminal.
	UpdateWalletStatus(ctx context.Context, walletID string, req dto.UpdateWalletStatusRequest, userID string) (*domain.UnifiedWallet, error)
}

// WalletSvcFacade combines all wallet-related service interfaces
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
}
