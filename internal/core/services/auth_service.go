package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/telemedix/ledger-backend/internal/apperrors"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
)

const tokenIssuer = "ledger-backend"

// authService validates the configured admin credentials and issues JWTs.
// The ledger has a single operator identity; there is no user store.
type authService struct {
	BaseService
	adminUsername     string
	adminPasswordHash string
	jwtSecret         string
	jwtDuration       time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(adminUsername, adminPasswordHash, jwtSecret string, jwtDuration time.Duration) portssvc.AuthSvc {
	return &authService{
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
		jwtSecret:         jwtSecret,
		jwtDuration:       jwtDuration,
	}
}

// Ensure authService implements the AuthSvc interface
var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username, password string) (string, int64, error) {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password))
	if !usernameMatch || passwordErr != nil {
		s.LogDebug(ctx, "Login rejected")
		return "", 0, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.LogError(ctx, err, "Failed to sign JWT token")
		return "", 0, err
	}

	s.LogInfo(ctx, "Admin logged in")
	return signed, int64(s.jwtDuration.Seconds()), nil
}
