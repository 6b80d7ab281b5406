package docstore

import (
	"context"
	"log/slog"

	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

// Soft adapts an S to callers that expect failures as zero values. Create, update and preview still return
// errors; the rest log the error and return false, nil or an empty list.
type Soft struct {
	s      S
	logger *slog.Logger
}

func NewSoft(s S, logger *slog.Logger) *Soft {
	return &Soft{
		s:      s,
		logger: pblog.NewBuilder(pblog.OrNoop(logger)).WithComponent("docstore").Build(),
	}
}

// Strict returns the wrapped service.
func (s *Soft) Strict() S {
	return s.s
}

func (s *Soft) swallowed(ctx context.Context, msg string, err error) {
	pblog.NewBuilder(s.logger).WithCtx(ctx).Build().Error(msg, "error", err)
}

func (s *Soft) CreateDocument(ctx context.Context, key string, fields map[string]any) (*Document, error) {
	return s.s.CreateDocument(ctx, key, fields)
}

func (s *Soft) UpdateDocument(ctx context.Context, key string, partial map[string]any) (*Document, error) {
	return s.s.UpdateDocument(ctx, key, partial)
}

func (s *Soft) DeleteDocument(ctx context.Context, key string) bool {
	if err := s.s.DeleteDocument(ctx, key); err != nil {
		s.swallowed(ctx, "failed to delete document", err)
		return false
	}
	return true
}

func (s *Soft) ListDocuments(ctx context.Context, filterExpr string) []Document {
	docs, err := s.s.ListDocuments(ctx, filterExpr)
	if err != nil {
		s.swallowed(ctx, "failed to list documents", err)
		return []Document{}
	}
	return docs
}

func (s *Soft) GetDocument(ctx context.Context, key string) *Document {
	doc, err := s.s.GetDocument(ctx, key)
	if err != nil {
		s.swallowed(ctx, "failed to get document", err)
		return nil
	}
	return doc
}

func (s *Soft) UploadBlob(ctx context.Context, in Upload) *BlobHandle {
	file, err := s.s.UploadBlob(ctx, in)
	if err != nil {
		s.swallowed(ctx, "failed to upload blob", err)
		return nil
	}
	return file
}

func (s *Soft) DownloadBlob(ctx context.Context, id pbid.ID) []byte {
	data, err := s.s.DownloadBlob(ctx, id)
	if err != nil {
		s.swallowed(ctx, "failed to download blob", err)
		return nil
	}
	return data
}

func (s *Soft) DeleteBlob(ctx context.Context, id pbid.ID) bool {
	if err := s.s.DeleteBlob(ctx, id); err != nil {
		s.swallowed(ctx, "failed to delete blob", err)
		return false
	}
	return true
}

func (s *Soft) PreviewReference(ctx context.Context, id pbid.ID, opts PreviewOptions) (PreviewLocator, error) {
	return s.s.PreviewReference(ctx, id, opts)
}
