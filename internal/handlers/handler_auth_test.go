package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/dto"
	"github.com/telemedix/ledger-backend/internal/handlers"
	"github.com/telemedix/ledger-backend/internal/platform/config"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, int64, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockAuthService *MockAuthService
}

// buildRouter registers routes with the given rate limit format so the
// fallback path can be exercised too.
func (suite *AuthHandlerTestSuite) buildRouter(rateLimit string) {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockAuthService = new(MockAuthService)

	cfg := &config.Config{
		JWTSecret:      "test-secret-key-that-is-long-enough",
		LoginRateLimit: rateLimit,
		IsProduction:   true, // skip swagger routes in tests
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Auth: suite.mockAuthService,
	})
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	suite.buildRouter("10-M")
}

func (suite *AuthHandlerTestSuite) postLogin(username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(dto.LoginRequest{Username: username, Password: password})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	suite.mockAuthService.On("Login", mock.Anything, "admin", "correct-password").
		Return("signed.jwt.token", int64(3600), nil).Once()

	w := suite.postLogin("admin", "correct-password")

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.LoginResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("signed.jwt.token", resp.Token)
	suite.Equal(int64(3600), resp.ExpiresIn)
	suite.mockAuthService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogin_BadCredentials() {
	suite.mockAuthService.On("Login", mock.Anything, "admin", "wrong").
		Return("", int64(0), apperrors.ErrForbidden).Once()

	w := suite.postLogin("admin", "wrong")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlerTestSuite) TestLogin_MissingFields() {
	body := []byte(`{"username": "admin"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "Login", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestLogin_MalformedRateLimitFallsBack() {
	// A bad LOGIN_RATE_LIMIT must not take the login route down; the
	// default rate applies instead.
	suite.buildRouter("not-a-rate")
	suite.mockAuthService.On("Login", mock.Anything, "admin", "correct-password").
		Return("signed.jwt.token", int64(3600), nil).Once()

	w := suite.postLogin("admin", "correct-password")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAuthService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
