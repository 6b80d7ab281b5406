package pblog

import (
	"context"
	"log/slog"

	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

type Builder interface {
	WithComponent(componentId string) Builder
	WithCtx(ctx context.Context) Builder
	WithAccountId(accountId pbid.ID) Builder
	WithDocumentKey(key string) Builder
	WithCollection(databaseId, collectionId string) Builder
	WithBlobId(blobId pbid.ID) Builder
	WithBucket(bucketId string) Builder
	With(args ...any) Builder
	Build() *slog.Logger
}

type builder struct {
	l *slog.Logger
}

func (b *builder) With(args ...any) Builder {
	return &builder{l: b.l.With(args...)}
}

func (b *builder) WithComponent(componentId string) Builder {
	return &builder{l: b.l.With("component", componentId)}
}

func (b *builder) WithCtx(ctx context.Context) Builder {
	if cid := pbctx.CorrelationID(ctx); cid != "" {
		return &builder{l: b.l.With("correlation_id", cid)}
	}
	return b
}

func (b *builder) WithAccountId(accountId pbid.ID) Builder {
	return &builder{l: b.l.With("account_id", accountId.String())}
}

func (b *builder) WithDocumentKey(key string) Builder {
	return &builder{l: b.l.With("document_key", key)}
}

func (b *builder) WithCollection(databaseId, collectionId string) Builder {
	return &builder{l: b.l.With(slog.Group("collection",
		slog.String("database_id", databaseId),
		slog.String("collection_id", collectionId),
	))}
}

func (b *builder) WithBlobId(blobId pbid.ID) Builder {
	return &builder{l: b.l.With("blob_id", blobId.String())}
}

func (b *builder) WithBucket(bucketId string) Builder {
	return &builder{l: b.l.With("bucket_id", bucketId)}
}

func (b *builder) Build() *slog.Logger {
	return b.l
}

func NewBuilder(l *slog.Logger) Builder {
	if l == nil {
		panic("cannot create log builder with nil log")
	}

	return &builder{l: l}
}

var _ Builder = &builder{}
