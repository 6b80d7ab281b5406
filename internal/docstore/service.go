// Package docstore is the document store facade: CRUD and queries over one collection, and blob storage in one
// bucket.
package docstore

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/pberr"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

// Keys are up to 36 characters of letters, digits, '.', '_' and '-' and start with a letter or digit.
var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,35}$`)

type service struct {
	conn          backend.Connection
	opts          Options
	defaultFilter *filter.Filter
	docs          backend.Documents
	files         backend.Files
	logger        *slog.Logger
}

func NewService(conn backend.Connection, opts Options, docs backend.Documents, files backend.Files, logger *slog.Logger) (S, error) {
	if docs == nil {
		return nil, errors.New("documents backend is required")
	}
	if files == nil {
		return nil, errors.New("files backend is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	df, err := opts.defaultFilter()
	if err != nil {
		return nil, errors.Wrap(err, "invalid default filter")
	}

	return &service{
		conn:          conn,
		opts:          opts,
		defaultFilter: df,
		docs:          docs,
		files:         files,
		logger: pblog.NewBuilder(pblog.OrNoop(logger)).
			WithComponent("docstore").
			With("project_id", conn.ProjectID()).
			WithCollection(opts.DatabaseID, opts.CollectionID).
			WithBucket(opts.BucketID).
			Build(),
	}, nil
}

func (s *service) log(ctx context.Context) pblog.Builder {
	return pblog.NewBuilder(s.logger).WithCtx(ctx)
}

func validateKey(op, key string) error {
	if !validKey.MatchString(key) {
		return pberr.Validationf(op, "invalid document key '%s'", key)
	}
	return nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func (s *service) checkRequired(op string, fields map[string]any, partial bool) error {
	for _, name := range s.opts.RequiredFields {
		v, ok := fields[name]
		if !ok && partial {
			continue
		}
		if isEmpty(v) {
			return pberr.Validationf(op, "field '%s' is required", name)
		}
	}
	return nil
}

func (s *service) CreateDocument(ctx context.Context, key string, fields map[string]any) (*Document, error) {
	const op = "docstore.CreateDocument"

	if err := validateKey(op, key); err != nil {
		return nil, err
	}
	if err := s.checkRequired(op, fields, false); err != nil {
		return nil, err
	}

	s.log(ctx).WithDocumentKey(key).Build().Debug("creating document")

	doc, err := s.docs.Create(ctx, s.opts.DatabaseID, s.opts.CollectionID, key, fields)
	if err != nil {
		return nil, pberr.FromBackend(op, err)
	}
	return doc, nil
}

func (s *service) UpdateDocument(ctx context.Context, key string, partial map[string]any) (*Document, error) {
	const op = "docstore.UpdateDocument"

	if err := validateKey(op, key); err != nil {
		return nil, err
	}
	if err := s.checkRequired(op, partial, true); err != nil {
		return nil, err
	}

	s.log(ctx).WithDocumentKey(key).Build().Debug("updating document", "fields", len(partial))

	doc, err := s.docs.Update(ctx, s.opts.DatabaseID, s.opts.CollectionID, key, partial)
	if err != nil {
		return nil, pberr.FromBackend(op, err)
	}
	return doc, nil
}

func (s *service) DeleteDocument(ctx context.Context, key string) error {
	const op = "docstore.DeleteDocument"

	if err := validateKey(op, key); err != nil {
		return err
	}

	s.log(ctx).WithDocumentKey(key).Build().Debug("deleting document")

	if err := s.docs.Delete(ctx, s.opts.DatabaseID, s.opts.CollectionID, key); err != nil {
		return pberr.FromBackend(op, err)
	}
	return nil
}

func (s *service) ListDocuments(ctx context.Context, filterExpr string) ([]Document, error) {
	const op = "docstore.ListDocuments"

	f := s.defaultFilter
	if strings.TrimSpace(filterExpr) != "" {
		var err error
		if f, err = filter.Parse(filterExpr); err != nil {
			return nil, pberr.Validation(op, err)
		}
	}

	s.log(ctx).Build().Debug("listing documents", "filter", f.String())

	list, err := s.docs.List(ctx, s.opts.DatabaseID, s.opts.CollectionID, f)
	if err != nil {
		return nil, pberr.FromBackend(op, err)
	}

	if list.Documents == nil {
		return []Document{}, nil
	}
	return list.Documents, nil
}

func (s *service) GetDocument(ctx context.Context, key string) (*Document, error) {
	const op = "docstore.GetDocument"

	if err := validateKey(op, key); err != nil {
		return nil, err
	}

	doc, err := s.docs.Get(ctx, s.opts.DatabaseID, s.opts.CollectionID, key)
	if err != nil {
		return nil, pberr.FromBackend(op, err)
	}
	return doc, nil
}

func (s *service) UploadBlob(ctx context.Context, in Upload) (*BlobHandle, error) {
	const op = "docstore.UploadBlob"

	if len(in.Data) == 0 {
		return nil, pberr.Validationf(op, "blob payload is empty")
	}

	file, err := s.files.Create(ctx, s.opts.BucketID, pbid.Nil, backend.InputFile{
		Name:        in.Name,
		ContentType: in.ContentType,
		Data:        in.Data,
	})
	if err != nil {
		return nil, pberr.FromBackend(op, err)
	}

	s.log(ctx).WithBlobId(file.ID).Build().Debug("uploaded blob", "size", file.Size)
	return file, nil
}

func validateBlobId(op string, id pbid.ID) error {
	if id.IsNil() {
		return pberr.Validationf(op, "blob id is required")
	}
	if err := id.ValidatePrefix(pbid.PrefixFile); err != nil {
		return pberr.Validation(op, err)
	}
	return nil
}

func (s *service) DownloadBlob(ctx context.Context, id pbid.ID) ([]byte, error) {
	const op = "docstore.DownloadBlob"

	if err := validateBlobId(op, id); err != nil {
		return nil, err
	}

	data, err := s.files.Download(ctx, s.opts.BucketID, id)
	if err != nil {
		return nil, pberr.FromBackend(op, err)
	}
	return data, nil
}

func (s *service) DeleteBlob(ctx context.Context, id pbid.ID) error {
	const op = "docstore.DeleteBlob"

	if err := validateBlobId(op, id); err != nil {
		return err
	}

	s.log(ctx).WithBlobId(id).Build().Debug("deleting blob")

	if err := s.files.Delete(ctx, s.opts.BucketID, id); err != nil {
		return pberr.FromBackend(op, err)
	}
	return nil
}

func (s *service) PreviewReference(ctx context.Context, id pbid.ID, opts PreviewOptions) (PreviewLocator, error) {
	const op = "docstore.PreviewReference"

	if err := validateBlobId(op, id); err != nil {
		return PreviewLocator{}, err
	}
	if opts.Width < 0 || opts.Height < 0 || opts.Quality < 0 || opts.Quality > 100 {
		return PreviewLocator{}, pberr.Validationf(op, "invalid preview options %+v", opts)
	}

	u, err := s.files.PreviewURL(ctx, s.opts.BucketID, id, opts)
	if err != nil {
		return PreviewLocator{}, pberr.FromBackend(op, err)
	}

	return PreviewLocator{BlobID: id, URL: u}, nil
}

var _ S = (*service)(nil)
