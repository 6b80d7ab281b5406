package local

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

type accounts struct {
	identity *Identity
	store    backend.SessionStore
}

// NewAccounts adapts an Identity to the client shaped Accounts interface, keeping the current secret in store.
func NewAccounts(identity *Identity, store backend.SessionStore) backend.Accounts {
	if store == nil {
		store = backend.NewMemorySessionStore()
	}
	return &accounts{identity: identity, store: store}
}

func (a *accounts) Create(ctx context.Context, id pbid.ID, email, password, name string) (*backend.Identity, error) {
	return a.identity.Register(ctx, id, email, password, name)
}

func (a *accounts) CreateEmailSession(ctx context.Context, email, password string) (*backend.Session, error) {
	s, err := a.identity.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := a.store.Set(ctx, s.Secret); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	return s, nil
}

func (a *accounts) current(ctx context.Context) (string, error) {
	secret, err := a.store.Get(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to read session")
	}
	if secret == "" {
		return "", errors.Wrap(backend.ErrUnauthorized, "no active session")
	}
	return secret, nil
}

func (a *accounts) Get(ctx context.Context) (*backend.Identity, error) {
	secret, err := a.current(ctx)
	if err != nil {
		return nil, err
	}
	return a.identity.Whoami(ctx, secret)
}

func (a *accounts) DeleteSessions(ctx context.Context) error {
	secret, err := a.current(ctx)
	if err != nil {
		return err
	}

	revokeErr := a.identity.Revoke(ctx, secret)
	if revokeErr != nil && !errors.Is(revokeErr, backend.ErrUnauthorized) {
		return revokeErr
	}

	// A secret that no longer authenticates is dropped as well.
	if err := a.store.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	return revokeErr
}

var _ backend.Accounts = (*accounts)(nil)
