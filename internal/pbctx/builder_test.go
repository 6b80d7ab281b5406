package pbctx

import (
	"context"
	"testing"
	"time"

	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/stretchr/testify/require"
	clocktest "k8s.io/utils/clock/testing"
)

type testIdGenerator struct {
	s string
}

func (g *testIdGenerator) New(prefix pbid.Prefix) pbid.ID { return pbid.ID(g.s) }

func TestBuilder(t *testing.T) {
	t.Run("NewBuilderAndBackground", func(t *testing.T) {
		base := context.WithValue(context.Background(), "init", "ok")

		ctx := NewBuilder(base).Build()
		require.Equal(t, "ok", ctx.Value("init"))

		bg := NewBuilderBackground().Build()
		require.NotNil(t, bg)
		require.Nil(t, bg.Value("init"))
	})
	t.Run("WithClock", func(t *testing.T) {
		tm := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		fake := clocktest.NewFakeClock(tm)

		ctx := NewBuilderBackground().WithClock(fake).Build()
		require.Equal(t, tm, GetClock(ctx).Now())
	})
	t.Run("WithFixedClock", func(t *testing.T) {
		tm := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		ctx := NewBuilderBackground().WithFixedClock(tm).Build()
		require.Equal(t, tm, GetClock(ctx).Now())
	})
	t.Run("WithIdGenerator", func(t *testing.T) {
		gen := &testIdGenerator{s: "fil_helloworld00001"}

		ctx := NewBuilderBackground().WithIdGenerator(gen).Build()
		require.Equal(t, pbid.ID("fil_helloworld00001"), GetIdGenerator(ctx).New(pbid.PrefixFile))
	})
	t.Run("WithFixedIdGenerator", func(t *testing.T) {
		ctx := NewBuilderBackground().WithFixedIdGenerator("acc_fixed").Build()
		require.Equal(t, pbid.ID("acc_fixed"), GetIdGenerator(ctx).New(pbid.PrefixAccount))
		require.Equal(t, pbid.ID("acc_fixed"), GetIdGenerator(ctx).New(pbid.PrefixFile))
	})
	t.Run("WithCorrelationID", func(t *testing.T) {
		ctx := NewBuilderBackground().WithCorrelationID("cid-123").Build()
		require.Equal(t, "cid-123", CorrelationID(ctx))
	})
	t.Run("chaining", func(t *testing.T) {
		tm := time.Date(2021, 5, 6, 7, 8, 9, 0, time.UTC)
		ctx := NewBuilderBackground().
			WithFixedClock(tm).
			WithCorrelationID("cid-xyz").
			WithFixedIdGenerator("ses_chained").
			Build()

		require.Equal(t, tm, GetClock(ctx).Now())
		require.Equal(t, "cid-xyz", CorrelationID(ctx))
		require.Equal(t, pbid.ID("ses_chained"), GetIdGenerator(ctx).New(pbid.PrefixSession))
	})
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	require.WithinDuration(t, time.Now(), GetClock(ctx).Now(), time.Minute)
	require.True(t, GetIdGenerator(ctx).New(pbid.PrefixFile).HasPrefix(pbid.PrefixFile))
	require.Equal(t, "", CorrelationID(ctx))
}

func TestEnsureCorrelationID(t *testing.T) {
	ctx := EnsureCorrelationID(context.Background())
	require.NotEmpty(t, CorrelationID(ctx))

	existing := WithCorrelationID(context.Background(), "keep-me")
	require.Equal(t, "keep-me", CorrelationID(EnsureCorrelationID(existing)))
}
