package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/dto"
	"github.com/telemedix/ledger-backend/internal/platform/cache"
	"github.com/telemedix/ledger-backend/internal/utils/identifier"
)

// walletService implements the WalletSvcFacade interface
type walletService struct {
	BaseService
	walletRepo  portsrepo.WalletRepository
	walletCache *cache.WalletCache
}

// WalletServiceOption is a functional option for configuring the wallet service
type WalletServiceOption func(*walletService)

// WithWalletCache adds a read-through cache for wallet lookups
func WithWalletCache(c *cache.WalletCache) WalletServiceOption {
	return func(s *walletService) {
		s.walletCache = c
	}
}

// NewWalletService creates a new wallet service with the provided options
func NewWalletService(walletRepo portsrepo.WalletRepository, options ...WalletServiceOption) portssvc.WalletSvcFacade {
	svc := &walletService{walletRepo: walletRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure walletService implements the WalletSvcFacade interface
var _ portssvc.WalletSvcFacade = (*walletService)(nil)

func (s *walletService) GetWalletByID(ctx context.Context, walletID string) (*domain.UnifiedWallet, error) {
	if s.walletCache != nil {
		cached, err := s.walletCache.Get(ctx, walletID)
		if err != nil {
			// Cache trouble never fails the read path.
			s.LogDebug(ctx, "Wallet cache read failed",
				slog.String("wallet_id", walletID),
				slog.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find wallet",
				slog.String("wallet_id", walletID))
		}
		return nil, err
	}

	if s.walletCache != nil {
		if err := s.walletCache.Set(ctx, wallet); err != nil {
			s.LogDebug(ctx, "Wallet cache write failed",
				slog.String("wallet_id", walletID),
				slog.String("error", err.Error()))
		}
	}
	return wallet, nil
}

func (s *walletService) GetWalletByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (*domain.UnifiedWallet, error) {
	if !domain.KnownOwnerType(ownerType) {
		return nil, fmt.Errorf("unknown owner type %q: %w", ownerType, apperrors.ErrValidation)
	}

	wallet, err := s.walletRepo.FindWalletByOwner(ctx, ownerID, ownerType)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find wallet by owner",
				slog.String("owner_id", ownerID),
				slog.String("owner_type", string(ownerType)))
		}
		return nil, err
	}
	return wallet, nil
}

func (s *walletService) ListWallets(ctx context.Context, params dto.ListWalletsParams) ([]domain.UnifiedWallet, int64, error) {
	filter := portsrepo.WalletFilter{
		OwnerType: params.OwnerType,
		Status:    params.Status,
	}
	wallets, total, err := s.walletRepo.ListWallets(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list wallets")
		return nil, 0, err
	}
	return wallets, total, nil
}

// EnsureWallet returns the owner's wallet, lazily creating an empty active
// one on first use. A concurrent first use loses the insert race and reads
// back the winner's wallet.
func (s *walletService) EnsureWallet(ctx context.Context, ownerID string, ownerType domain.OwnerType, userID string) (*domain.UnifiedWallet, error) {
	if !domain.KnownOwnerType(ownerType) {
		return nil, fmt.Errorf("unknown owner type %q: %w", ownerType, apperrors.ErrValidation)
	}

	wallet, err := s.walletRepo.FindWalletByOwner(ctx, ownerID, ownerType)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up wallet for owner",
			slog.String("owner_id", ownerID))
		return nil, err
	}

	now := time.Now()
	fresh := domain.UnifiedWallet{
		WalletID:         identifier.NewWalletID(),
		OwnerID:          ownerID,
		OwnerType:        ownerType,
		AvailableBalance: decimal.Zero,
		HeldBalance:      decimal.Zero,
		PendingBalance:   decimal.Zero,
		TotalCredited:    decimal.Zero,
		TotalDebited:     decimal.Zero,
		TotalHeld:        decimal.Zero,
		TotalReleased:    decimal.Zero,
		Status:           domain.WalletActive,
		DailyLimit:       decimal.Zero,
		PerTransactionLimit: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.walletRepo.SaveWallet(ctx, fresh); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the creation race; the owner's wallet exists now.
			return s.walletRepo.FindWalletByOwner(ctx, ownerID, ownerType)
		}
		s.LogError(ctx, err, "Failed to create wallet",
			slog.String("owner_id", ownerID),
			slog.String("owner_type", string(ownerType)))
		return nil, err
	}

	s.LogInfo(ctx, "Wallet created",
		slog.String("wallet_id", fresh.WalletID),
		slog.String("owner_id", ownerID),
		slog.String("owner_type", string(ownerType)))
	return &fresh, nil
}

func (s *walletService) UpdateWalletStatus(ctx context.Context, walletID string, req dto.UpdateWalletStatusRequest, userID string) (*domain.UnifiedWallet, error) {
	wallet, err := s.GetWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if !domain.KnownWalletStatus(req.Status) {
		return nil, fmt.Errorf("unknown wallet status %q: %w", req.Status, apperrors.ErrValidation)
	}

	// CLOSED is terminal.
	if wallet.Status == domain.WalletClosed {
		err := apperrors.ErrConflict
		s.LogError(ctx, err, "Attempt to transition closed wallet",
			slog.String("wallet_id", walletID))
		return nil, fmt.Errorf("wallet %s is closed: %w", walletID, err)
	}
	if wallet.Status == req.Status {
		return wallet, nil
	}

	// Closing a wallet that still carries value would strand the owner's
	// funds without a ledger trail. Drain it first.
	if req.Status == domain.WalletClosed && !wallet.TotalBalance().IsZero() {
		err := apperrors.ErrConflict
		s.LogError(ctx, err, "Attempt to close wallet with non-zero balance",
			slog.String("wallet_id", walletID),
			slog.String("balance", wallet.TotalBalance().String()))
		return nil, fmt.Errorf("wallet %s still holds %s: %w", walletID, wallet.TotalBalance(), err)
	}

	now := time.Now()
	if err := s.walletRepo.UpdateWalletStatus(ctx, walletID, req.Status, req.Reason, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update wallet status",
			slog.String("wallet_id", walletID),
			slog.String("status", string(req.Status)))
		return nil, err
	}

	s.LogInfo(ctx, "Wallet status updated",
		slog.String("wallet_id", walletID),
		slog.String("from", string(wallet.Status)),
		slog.String("to", string(req.Status)),
		slog.String("reason", req.Reason))

	if s.walletCache != nil {
		if err := s.walletCache.Invalidate(ctx, walletID); err != nil {
			s.LogDebug(ctx, "Wallet cache invalidation failed",
				slog.String("wallet_id", walletID),
				slog.String("error", err.Error()))
		}
	}

	wallet.Status = req.Status
	wallet.StatusReason = req.Reason
	wallet.StatusActor = userID
	wallet.StatusChanged = &now
	wallet.LastUpdatedAt = now
	wallet.LastUpdatedBy = userID
	return wallet, nil
}
