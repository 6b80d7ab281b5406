package auth

import (
	"context"

	"github.com/Salehmangrio/postbase/internal/backend"
)

// Credentials identify an account. Name is only used when creating one.
type Credentials struct {
	Email    string
	Password string
	Name     string
}

// A manages the session lifecycle against the Accounts backend. Every error it returns is a *pberr.Error.

type A interface {
	// CreateAccount registers an account and logs into it with the same credentials. If the account is created but
	// the login fails, the login error is returned.
	CreateAccount(ctx context.Context, creds Credentials) (*backend.Session, error)

	// Register creates the account without starting a session.
	Register(ctx context.Context, creds Credentials) (*backend.Identity, error)

	// Login starts a session. Bad credentials are an auth error.
	Login(ctx context.Context, creds Credentials) (*backend.Session, error)

	// GetCurrentUser returns the identity of the active session, or an auth error when there is none.
	GetCurrentUser(ctx context.Context) (*backend.Identity, error)

	// Logout ends every session of the current identity. It is a no-op when there is no active session.
	Logout(ctx context.Context) error
}
