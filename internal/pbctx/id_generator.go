package pbctx

import (
	"context"

	"github.com/Salehmangrio/postbase/internal/pbid"
)

const (
	idGeneratorKey = "idGenerator"
)

// IdGenerator provides random prefixed IDs. The default implementation delegates to pbid.New(). This allows
// deterministic ID generation in tests by using WithFixedIdGenerator.
type IdGenerator interface {
	New(prefix pbid.Prefix) pbid.ID
}

type realIdGenerator struct{}

func (g *realIdGenerator) New(prefix pbid.Prefix) pbid.ID {
	return pbid.New(prefix)
}

var realIdGeneratorVal IdGenerator = &realIdGenerator{}

// GetIdGenerator retrieves an ID generator from the context if one has been set. If not, it returns the real ID
// generator.
func GetIdGenerator(ctx context.Context) IdGenerator {
	val := ctx.Value(idGeneratorKey)
	if val == nil {
		return realIdGeneratorVal
	}

	return val.(IdGenerator)
}

// WithIdGenerator sets an ID generator on the context.
func WithIdGenerator(ctx context.Context, generator IdGenerator) context.Context {
	return context.WithValue(ctx, idGeneratorKey, generator)
}

type fixedIdGenerator struct {
	id pbid.ID
}

func (g *fixedIdGenerator) New(_ pbid.Prefix) pbid.ID {
	return g.id
}

// WithFixedIdGenerator sets a fixed ID generator on the context that will always return the same ID.
func WithFixedIdGenerator(ctx context.Context, id pbid.ID) context.Context {
	return WithIdGenerator(ctx, &fixedIdGenerator{id: id})
}
