package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

func TestAccounts(t *testing.T) {
	identity, _ := newTestIdentity(t)
	store := backend.NewMemorySessionStore()
	accounts := NewAccounts(identity, store)
	ctx := context.Background()

	_, err := accounts.Get(ctx)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	assert.ErrorIs(t, accounts.DeleteSessions(ctx), backend.ErrUnauthorized)

	_, err = accounts.Create(ctx, pbid.New(pbid.PrefixAccount), "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	s, err := accounts.CreateEmailSession(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	secret, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Secret, secret)

	me, err := accounts.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)
	assert.Equal(t, "A", me.Name)

	require.NoError(t, accounts.DeleteSessions(ctx))

	secret, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, secret)

	_, err = accounts.Get(ctx)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
}

func TestAccountsClearsStaleSecret(t *testing.T) {
	identity, _ := newTestIdentity(t)
	store := backend.NewMemorySessionStore()
	accounts := NewAccounts(identity, store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "stale"))
	assert.ErrorIs(t, accounts.DeleteSessions(ctx), backend.ErrUnauthorized)

	secret, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, secret)
}
