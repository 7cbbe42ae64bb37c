package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	"github.com/telemedix/ledger-backend/internal/core/domain"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/core/services"
	"github.com/telemedix/ledger-backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockBatchRepo   *MockBatchRepository
	service         portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockBatchRepo = new(MockBatchRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockBatchRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1400.001.001",
		Name:        "Clearing",
		AccountType: domain.Asset,
		Description: "Intermediate clearing account",
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == req.Code &&
			a.NormalBalance == domain.DebitNormal &&
			a.SubType == domain.SubTypeGeneral &&
			a.CurrentBalance.IsZero() &&
			a.IsActive &&
			a.CreatedBy == "admin-1"
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal(domain.DebitNormal, account.NormalBalance)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RevenueIsCreditNormal() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "4000.003.001",
		Name:        "Prescription Revenue",
		AccountType: domain.Revenue,
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.NormalBalance == domain.CreditNormal
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.CreditNormal, account.NormalBalance)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "14-001",
		Name:        "Bad code",
		AccountType: domain.Asset,
	}

	account, err := suite.service.CreateAccount(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1400.001.001",
		Name:        "Clearing",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	account, err := suite.service.CreateAccount(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestGetAccountByCode_NotFound() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "9999.999.999").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByCode(ctx, "9999.999.999")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockAccountRepo.On("ListAccounts", ctx, false, 50, 0).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, dto.ListAccountsParams{Limit: 50})

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

func (suite *AccountServiceTestSuite) TestGetAccountStatement() {
	ctx := context.Background()
	code := "2100.001.001"
	account := &domain.Account{Code: code, CurrentBalance: decimal.NewFromInt(120)}
	entries := []domain.LedgerEntry{
		{EntryID: "ent_2", AccountCode: code, BalanceBefore: decimal.NewFromInt(100), BalanceAfter: decimal.NewFromInt(120)},
		{EntryID: "ent_1", AccountCode: code, BalanceBefore: decimal.Zero, BalanceAfter: decimal.NewFromInt(100)},
	}
	next := "tok"

	suite.mockAccountRepo.On("FindAccountByCode", ctx, code).Return(account, nil).Once()
	suite.mockBatchRepo.On("ListEntriesByAccount", ctx, code, 50, (*string)(nil)).Return(entries, &next, nil).Once()

	gotAccount, gotEntries, gotNext, err := suite.service.GetAccountStatement(ctx, code, 50, nil)

	suite.Require().NoError(err)
	suite.Equal(account, gotAccount)
	suite.Len(gotEntries, 2)
	suite.Require().NotNil(gotNext)
	suite.Equal("tok", *gotNext)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SystemAccountCannotBeDeactivated() {
	ctx := context.Background()
	code := "2100.001.001"
	account := &domain.Account{Code: code, IsSystemAccount: true, IsActive: true}
	inactive := false

	suite.mockAccountRepo.On("FindAccountByCode", ctx, code).Return(account, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, code, dto.UpdateAccountRequest{IsActive: &inactive}, "admin-1")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoFieldsIsNoOp() {
	ctx := context.Background()
	code := "1400.001.001"
	account := &domain.Account{Code: code, Name: "Clearing", IsActive: true}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, code).Return(account, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, code, dto.UpdateAccountRequest{}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal("Clearing", updated.Name)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Rename() {
	ctx := context.Background()
	code := "1400.001.001"
	account := &domain.Account{Code: code, Name: "Clearing", IsActive: true}
	newName := "Gateway Clearing"

	suite.mockAccountRepo.On("FindAccountByCode", ctx, code).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == newName && a.LastUpdatedBy == "admin-1"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, code, dto.UpdateAccountRequest{Name: &newName}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_SystemAccountForbidden() {
	ctx := context.Background()
	code := "3000.001.001"
	account := &domain.Account{Code: code, IsSystemAccount: true}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, code).Return(account, nil).Once()

	err := suite.service.DeactivateAccount(ctx, code, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_BlockedByLedgerHistory() {
	ctx := context.Background()
	code := "1400.001.001"
	account := &domain.Account{Code: code}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, code).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasLedgerHistory", ctx, code).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, code, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	code := "1400.001.001"
	account := &domain.Account{Code: code}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, code).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasLedgerHistory", ctx, code).Return(false, nil).Once()
	suite.mockAccountRepo.On("DeleteAccount", ctx, code).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, code, "admin-1")

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
