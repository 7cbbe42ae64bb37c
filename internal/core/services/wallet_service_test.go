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

type WalletServiceTestSuite struct {
	suite.Suite
	mockWalletRepo *MockWalletRepository
	service        portssvc.WalletSvcFacade
}

func (suite *WalletServiceTestSuite) SetupTest() {
	suite.mockWalletRepo = new(MockWalletRepository)
	suite.service = services.NewWalletService(suite.mockWalletRepo)
}

func (suite *WalletServiceTestSuite) TestGetWalletByID() {
	ctx := context.Background()
	wallet := &domain.UnifiedWallet{WalletID: "wal_1", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}
	suite.mockWalletRepo.On("FindWalletByID", ctx, "wal_1").Return(wallet, nil).Once()

	got, err := suite.service.GetWalletByID(ctx, "wal_1")

	suite.Require().NoError(err)
	suite.Equal(wallet, got)
}

func (suite *WalletServiceTestSuite) TestGetWalletByOwner_UnknownOwnerType() {
	ctx := context.Background()

	got, err := suite.service.GetWalletByOwner(ctx, "pat-1", "DOCTOR")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "FindWalletByOwner", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestEnsureWallet_ReturnsExisting() {
	ctx := context.Background()
	wallet := &domain.UnifiedWallet{WalletID: "wal_1", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}
	suite.mockWalletRepo.On("FindWalletByOwner", ctx, "pat-1", domain.OwnerPatient).Return(wallet, nil).Once()

	got, err := suite.service.EnsureWallet(ctx, "pat-1", domain.OwnerPatient, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(wallet, got)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "SaveWallet", mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestEnsureWallet_CreatesOnFirstUse() {
	ctx := context.Background()
	suite.mockWalletRepo.On("FindWalletByOwner", ctx, "pat-1", domain.OwnerPatient).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockWalletRepo.On("SaveWallet", ctx, mock.MatchedBy(func(w domain.UnifiedWallet) bool {
		return w.OwnerID == "pat-1" &&
			w.OwnerType == domain.OwnerPatient &&
			w.Status == domain.WalletActive &&
			w.AvailableBalance.IsZero() &&
			w.WalletID != ""
	})).Return(nil).Once()

	got, err := suite.service.EnsureWallet(ctx, "pat-1", domain.OwnerPatient, "admin-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.Equal(domain.WalletActive, got.Status)
	suite.mockWalletRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestEnsureWallet_LosesCreationRace() {
	ctx := context.Background()
	winner := &domain.UnifiedWallet{WalletID: "wal_winner", OwnerID: "pat-1", OwnerType: domain.OwnerPatient}

	suite.mockWalletRepo.On("FindWalletByOwner", ctx, "pat-1", domain.OwnerPatient).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockWalletRepo.On("SaveWallet", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	suite.mockWalletRepo.On("FindWalletByOwner", ctx, "pat-1", domain.OwnerPatient).Return(winner, nil).Once()

	got, err := suite.service.EnsureWallet(ctx, "pat-1", domain.OwnerPatient, "admin-1")

	suite.Require().NoError(err)
	suite.Equal("wal_winner", got.WalletID)
	suite.mockWalletRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestEnsureWallet_UnknownOwnerType() {
	ctx := context.Background()

	got, err := suite.service.EnsureWallet(ctx, "pat-1", "DOCTOR", "admin-1")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WalletServiceTestSuite) TestUpdateWalletStatus_Suspend() {
	ctx := context.Background()
	wallet := &domain.UnifiedWallet{WalletID: "wal_1", Status: domain.WalletActive}

	suite.mockWalletRepo.On("FindWalletByID", ctx, "wal_1").Return(wallet, nil).Once()
	suite.mockWalletRepo.On("UpdateWalletStatus", ctx, "wal_1", domain.WalletSuspended, "fraud review", "admin-1", mock.Anything).Return(nil).Once()

	got, err := suite.service.UpdateWalletStatus(ctx, "wal_1", dto.UpdateWalletStatusRequest{
		Status: domain.WalletSuspended,
		Reason: "fraud review",
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.WalletSuspended, got.Status)
	suite.Equal("fraud review", got.StatusReason)
	suite.Equal("admin-1", got.StatusActor)
	suite.mockWalletRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestUpdateWalletStatus_ClosedIsTerminal() {
	ctx := context.Background()
	wallet := &domain.UnifiedWallet{WalletID: "wal_1", Status: domain.WalletClosed}

	suite.mockWalletRepo.On("FindWalletByID", ctx, "wal_1").Return(wallet, nil).Once()

	got, err := suite.service.UpdateWalletStatus(ctx, "wal_1", dto.UpdateWalletStatusRequest{
		Status: domain.WalletActive,
		Reason: "reopen",
	}, "admin-1")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *WalletServiceTestSuite) TestUpdateWalletStatus_SameStatusIsNoOp() {
	ctx := context.Background()
	wallet := &domain.UnifiedWallet{WalletID: "wal_1", Status: domain.WalletSuspended}

	suite.mockWalletRepo.On("FindWalletByID", ctx, "wal_1").Return(wallet, nil).Once()

	got, err := suite.service.UpdateWalletStatus(ctx, "wal_1", dto.UpdateWalletStatusRequest{
		Status: domain.WalletSuspended,
		Reason: "still under review",
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(wallet, got)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "UpdateWalletStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestUpdateWalletStatus_CloseWithBalanceRefused() {
	ctx := context.Background()
	wallet := &domain.UnifiedWallet{
		WalletID:         "wal_1",
		Status:           domain.WalletActive,
		AvailableBalance: decimal.NewFromInt(10),
	}

	suite.mockWalletRepo.On("FindWalletByID", ctx, "wal_1").Return(wallet, nil).Once()

	got, err := suite.service.UpdateWalletStatus(ctx, "wal_1", dto.UpdateWalletStatusRequest{
		Status: domain.WalletClosed,
		Reason: "account closure",
	}, "admin-1")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "UpdateWalletStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWalletServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}
