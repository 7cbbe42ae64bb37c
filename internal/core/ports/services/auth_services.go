package services

import "context"

// AuthSvc authenticates admin users and issues bearer tokens.
type AuthSvc interface {
	// Login verifies the credentials and returns a signed JWT together with
	// its lifetime in seconds.
	Login(ctx context.Context, username, password string) (token string, expiresIn int64, err error)
}
