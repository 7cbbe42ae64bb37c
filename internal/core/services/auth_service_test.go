package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/core/services"
)

const (
	testAdminPassword = "correct horse battery staple"
	testJWTSecret     = "test-secret"
)

type AuthServiceTestSuite struct {
	suite.Suite
	service portssvc.AuthSvc
}

func (suite *AuthServiceTestSuite) SetupTest() {
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(suite.T(), err)
	suite.service = services.NewAuthService("admin", string(hash), testJWTSecret, time.Hour)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	token, expiresIn, err := suite.service.Login(context.Background(), "admin", testAdminPassword)

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.Equal(int64(3600), expiresIn)

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.True(parsed.Valid)
	suite.Equal("ledger-backend", claims.Issuer)
	suite.Equal("admin", claims.Subject)
	suite.Require().NotNil(claims.ExpiresAt)
	suite.WithinDuration(time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	token, expiresIn, err := suite.service.Login(context.Background(), "admin", "wrong")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Empty(token)
	suite.Zero(expiresIn)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongUsername() {
	token, _, err := suite.service.Login(context.Background(), "root", testAdminPassword)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Empty(token)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
