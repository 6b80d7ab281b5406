// Package auth is the authentication facade: account creation, login, the current user and logout.
package auth

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pberr"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

// MinPasswordLength is the shortest password accepted by Register.
const MinPasswordLength = 8

type service struct {
	conn     backend.Connection
	accounts backend.Accounts
	logger   *slog.Logger
}

// NewService makes an auth service
func NewService(conn backend.Connection, accounts backend.Accounts, logger *slog.Logger) A {
	if accounts == nil {
		panic("accounts backend is required")
	}

	return &service{
		conn:     conn,
		accounts: accounts,
		logger:   pblog.NewBuilder(pblog.OrNoop(logger)).WithComponent("auth").With("project_id", conn.ProjectID()).Build(),
	}
}

func (s *service) log(ctx context.Context) *slog.Logger {
	return pblog.NewBuilder(s.logger).WithCtx(ctx).Build()
}

func (s *service) CreateAccount(ctx context.Context, creds Credentials) (*backend.Session, error) {
	identity, err := s.Register(ctx, creds)
	if err != nil {
		return nil, err
	}

	session, err := s.Login(ctx, creds)
	if err != nil {
		s.log(ctx).Warn("account created but login failed", "account_id", identity.ID, "error", err)
		return nil, err
	}

	return session, nil
}

func (s *service) Register(ctx context.Context, creds Credentials) (*backend.Identity, error) {
	const op = "auth.Register"

	if err := validateCredentials(op, creds); err != nil {
		return nil, err
	}

	id := pbctx.GetIdGenerator(ctx).New(pbid.PrefixAccount)
	s.log(ctx).Debug("registering account", "account_id", id)

	identity, err := s.accounts.Create(ctx, id, strings.TrimSpace(creds.Email), creds.Password, creds.Name)
	if err != nil {
		return nil, pberr.FromBackend(op, err)
	}

	return identity, nil
}

func (s *service) Login(ctx context.Context, creds Credentials) (*backend.Session, error) {
	const op = "auth.Login"

	if creds.Email == "" || creds.Password == "" {
		return nil, pberr.Auth(op, errors.New("email and password are required"))
	}

	session, err := s.accounts.CreateEmailSession(ctx, strings.TrimSpace(creds.Email), creds.Password)
	if err != nil {
		if errors.Is(err, backend.ErrInvalid) {
			// A malformed login is still a failed login.
			return nil, pberr.Auth(op, err)
		}
		return nil, pberr.FromBackend(op, err)
	}

	s.log(ctx).Debug("logged in", "account_id", session.AccountID, "session_id", session.ID)
	return session, nil
}

func (s *service) GetCurrentUser(ctx context.Context) (*backend.Identity, error) {
	identity, err := s.accounts.Get(ctx)
	if err != nil {
		return nil, pberr.FromBackend("auth.GetCurrentUser", err)
	}
	return identity, nil
}

func (s *service) Logout(ctx context.Context) error {
	err := s.accounts.DeleteSessions(ctx)
	if errors.Is(err, backend.ErrUnauthorized) {
		s.log(ctx).Debug("logout without an active session")
		return nil
	}
	if err != nil {
		return pberr.FromBackend("auth.Logout", err)
	}
	return nil
}

func validateCredentials(op string, creds Credentials) error {
	email := strings.TrimSpace(creds.Email)
	if email == "" {
		return pberr.Validationf(op, "email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return pberr.Validationf(op, "'%s' is not a valid email address", email)
	}

	if len(creds.Password) < MinPasswordLength {
		return pberr.Validationf(op, "password must be at least %d characters", MinPasswordLength)
	}

	return nil
}

var _ A = (*service)(nil)
