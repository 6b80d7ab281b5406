package auth

import (
	"context"
	"log/slog"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

// Soft wraps an A for callers that treat logout as fire and forget. Logout failures are logged and dropped;
// everything else passes through unchanged.
type Soft struct {
	a      A
	logger *slog.Logger
}

func NewSoft(a A, logger *slog.Logger) *Soft {
	return &Soft{
		a:      a,
		logger: pblog.NewBuilder(pblog.OrNoop(logger)).WithComponent("auth").Build(),
	}
}

func (s *Soft) CreateAccount(ctx context.Context, creds Credentials) (*backend.Session, error) {
	return s.a.CreateAccount(ctx, creds)
}

func (s *Soft) Login(ctx context.Context, creds Credentials) (*backend.Session, error) {
	return s.a.Login(ctx, creds)
}

func (s *Soft) GetCurrentUser(ctx context.Context) (*backend.Identity, error) {
	return s.a.GetCurrentUser(ctx)
}

func (s *Soft) Logout(ctx context.Context) {
	if err := s.a.Logout(ctx); err != nil {
		pblog.NewBuilder(s.logger).WithCtx(ctx).Build().Error("logout failed", "error", err)
	}
}
