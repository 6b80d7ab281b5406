package pbctx

import (
	"context"

	"github.com/google/uuid"
)

const correlationIdKey = "correlationId"

// CorrelationIdHeader is the header used to carry correlation ids between the client and the server.
const CorrelationIdHeader = "X-Correlation-Id"

// WithCorrelationID sets a correlation ID on the context.
func WithCorrelationID(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, correlationIdKey, correlationId)
}

// CorrelationID returns the correlation ID set on the context, or empty string if none.
func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(correlationIdKey).(string); ok {
		return v
	}
	return ""
}

// EnsureCorrelationID returns a context that carries a correlation id, generating one if the context does not
// already have one.
func EnsureCorrelationID(ctx context.Context) context.Context {
	if CorrelationID(ctx) != "" {
		return ctx
	}
	return WithCorrelationID(ctx, uuid.NewString())
}
