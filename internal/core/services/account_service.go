package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/dto"
	"github.com/telemedix/ledger-backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	batchRepo   portsrepo.BatchRepository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo portsrepo.AccountRepository, batchRepo portsrepo.BatchRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		batchRepo:   batchRepo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !domain.ValidAccountCode(req.Code) {
		err := apperrors.ErrValidation
		s.LogError(ctx, err, "Account code does not match chart format",
			slog.String("code", req.Code))
		return nil, fmt.Errorf("account code must match DDDD.DDD.DDD: %w", err)
	}

	// The normal balance side is never caller-supplied; it is derived from
	// the account type so the two can never disagree.
	normalBalance, err := accounting.NormalBalanceFor(req.AccountType)
	if err != nil {
		s.LogError(ctx, err, "Unknown account type",
			slog.String("account_type", string(req.AccountType)))
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	subType := req.SubType
	if subType == "" {
		subType = domain.SubTypeGeneral
	}

	now := time.Now()
	account := domain.Account{
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    req.AccountType,
		SubType:        subType,
		NormalBalance:  normalBalance,
		CurrentBalance: decimal.Zero,
		IsActive:       true,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("account %s already exists: %w", req.Code, err)
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("code", account.Code),
		slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code",
				slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, params.IncludeInactive, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.Int("limit", params.Limit),
			slog.Int("offset", params.Offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) GetAccountStatement(ctx context.Context, code string, limit int, nextToken *string) (*domain.Account, []domain.LedgerEntry, *string, error) {
	account, err := s.GetAccountByCode(ctx, code)
	if err != nil {
		return nil, nil, nil, err
	}

	entries, next, err := s.batchRepo.ListEntriesByAccount(ctx, code, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account entries",
			slog.String("code", code))
		return nil, nil, nil, err
	}

	return account, entries, next, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if account.IsSystemAccount && req.IsActive != nil && !*req.IsActive {
		err := apperrors.ErrForbidden
		s.LogError(ctx, err, "Attempt to deactivate system account",
			slog.String("code", code))
		return nil, fmt.Errorf("system account %s cannot be deactivated: %w", code, err)
	}

	// Apply updates
	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("code", code))
		return account, nil
	}

	now := time.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("code", account.Code))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, code string, userID string) error {
	account, err := s.GetAccountByCode(ctx, code)
	if err != nil {
		return err
	}

	if account.IsSystemAccount {
		err := apperrors.ErrForbidden
		s.LogError(ctx, err, "Attempt to deactivate system account",
			slog.String("code", code))
		return fmt.Errorf("system account %s cannot be deactivated: %w", code, err)
	}

	now := time.Now()
	if err := s.accountRepo.DeactivateAccount(ctx, code, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("code", code))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("code", code))
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, code string, userID string) error {
	account, err := s.GetAccountByCode(ctx, code)
	if err != nil {
		return err
	}

	if account.IsSystemAccount {
		err := apperrors.ErrForbidden
		s.LogError(ctx, err, "Attempt to delete system account",
			slog.String("code", code))
		return fmt.Errorf("system account %s cannot be deleted: %w", code, err)
	}

	// An account that has ever been posted to is part of the audit trail and
	// can only be deactivated, never deleted.
	hasHistory, err := s.accountRepo.HasLedgerHistory(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to check ledger history",
			slog.String("code", code))
		return err
	}
	if hasHistory {
		err := apperrors.ErrConflict
		s.LogError(ctx, err, "Attempt to delete account with ledger history",
			slog.String("code", code))
		return fmt.Errorf("account %s has ledger history, deactivate it instead: %w", code, err)
	}

	if err := s.accountRepo.DeleteAccount(ctx, code); err != nil {
		s.LogError(ctx, err, "Failed to delete account",
			slog.String("code", code))
		return err
	}

	s.LogInfo(ctx, "Account deleted",
		slog.String("code", code),
		slog.String("deleted_by", userID))
	return nil
}
