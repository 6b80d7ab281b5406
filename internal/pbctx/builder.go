package pbctx

import (
	"context"
	"time"

	"github.com/Salehmangrio/postbase/internal/pbid"
	"k8s.io/utils/clock"
)

// Builder is an object that can apply multiple transformations and emit a context with those settings.
type Builder interface {
	WithClock(clock clock.Clock) Builder
	WithFixedClock(t time.Time) Builder
	WithIdGenerator(generator IdGenerator) Builder
	WithFixedIdGenerator(id pbid.ID) Builder
	WithCorrelationID(correlationID string) Builder
	Build() context.Context
}

type builder struct {
	ctx context.Context
}

// WithClock sets a clock on the context.
func (b *builder) WithClock(clock clock.Clock) Builder {
	return &builder{WithClock(b.ctx, clock)}
}

// WithFixedClock sets a fixed clock on the context that will always return the same time.
func (b *builder) WithFixedClock(t time.Time) Builder {
	return &builder{WithFixedClock(b.ctx, t)}
}

// WithIdGenerator sets an ID generator on the context.
func (b *builder) WithIdGenerator(generator IdGenerator) Builder {
	return &builder{WithIdGenerator(b.ctx, generator)}
}

// WithFixedIdGenerator sets an ID generator that always returns the same ID.
func (b *builder) WithFixedIdGenerator(id pbid.ID) Builder {
	return &builder{WithFixedIdGenerator(b.ctx, id)}
}

// WithCorrelationID sets a correlation ID on the context.
func (b *builder) WithCorrelationID(correlationId string) Builder {
	return &builder{WithCorrelationID(b.ctx, correlationId)}
}

func (b *builder) Build() context.Context {
	return b.ctx
}

// NewBuilder creates a new builder with the given context.
func NewBuilder(ctx context.Context) Builder {
	return &builder{ctx}
}

// NewBuilderBackground creates a new builder with the background context.
func NewBuilderBackground() Builder {
	return NewBuilder(context.Background())
}
