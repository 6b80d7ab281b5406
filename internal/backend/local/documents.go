package local

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/database"
	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

type documents struct {
	db     database.DB
	logger *slog.Logger
}

// NewDocuments serves documents from the database, translating its errors to backend errors.
func NewDocuments(db database.DB, logger *slog.Logger) backend.Documents {
	return &documents{
		db:     db,
		logger: pblog.NewBuilder(pblog.OrNoop(logger)).WithComponent("documents").Build(),
	}
}

func toDocument(d *database.Document) *backend.Document {
	return &backend.Document{
		Key:          d.ID,
		DatabaseID:   d.DatabaseID,
		CollectionID: d.CollectionID,
		Fields:       d.Data,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func mapError(err error, key database.DocumentKey) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return errors.Wrapf(backend.ErrNotFound, "document '%s' not found", key)
	case errors.Is(err, database.ErrDuplicate):
		return errors.Wrapf(backend.ErrConflict, "document '%s' already exists", key)
	default:
		return err
	}
}

func validKey(key database.DocumentKey) error {
	if key.DatabaseID == "" || key.CollectionID == "" || key.ID == "" {
		return errors.Wrapf(backend.ErrInvalid, "document key '%s' is incomplete", key)
	}
	return nil
}

func (d *documents) Create(ctx context.Context, databaseId, collectionId, documentId string, data map[string]any) (*backend.Document, error) {
	key := database.DocumentKey{DatabaseID: databaseId, CollectionID: collectionId, ID: documentId}
	if err := validKey(key); err != nil {
		return nil, err
	}

	doc := &database.Document{
		DatabaseID:   databaseId,
		CollectionID: collectionId,
		ID:           documentId,
		Data:         data,
	}
	if err := d.db.CreateDocument(ctx, doc); err != nil {
		return nil, mapError(err, key)
	}

	pblog.NewBuilder(d.logger).WithCtx(ctx).WithDocumentKey(key.String()).Build().Debug("document created")

	return toDocument(doc), nil
}

func (d *documents) Update(ctx context.Context, databaseId, collectionId, documentId string, data map[string]any) (*backend.Document, error) {
	key := database.DocumentKey{DatabaseID: databaseId, CollectionID: collectionId, ID: documentId}
	if err := validKey(key); err != nil {
		return nil, err
	}

	doc, err := d.db.UpdateDocument(ctx, key, data)
	if err != nil {
		return nil, mapError(err, key)
	}

	return toDocument(doc), nil
}

func (d *documents) Get(ctx context.Context, databaseId, collectionId, documentId string) (*backend.Document, error) {
	key := database.DocumentKey{DatabaseID: databaseId, CollectionID: collectionId, ID: documentId}
	if err := validKey(key); err != nil {
		return nil, err
	}

	doc, err := d.db.GetDocument(ctx, key)
	if err != nil {
		return nil, mapError(err, key)
	}

	return toDocument(doc), nil
}

func (d *documents) Delete(ctx context.Context, databaseId, collectionId, documentId string) error {
	key := database.DocumentKey{DatabaseID: databaseId, CollectionID: collectionId, ID: documentId}
	if err := validKey(key); err != nil {
		return err
	}

	if err := d.db.DeleteDocument(ctx, key); err != nil {
		return mapError(err, key)
	}

	pblog.NewBuilder(d.logger).WithCtx(ctx).WithDocumentKey(key.String()).Build().Debug("document deleted")

	return nil
}

func (d *documents) List(ctx context.Context, databaseId, collectionId string, f *filter.Filter) (*backend.DocumentList, error) {
	if databaseId == "" || collectionId == "" {
		return nil, errors.Wrap(backend.ErrInvalid, "database id and collection id are required")
	}

	docs, err := d.db.ListDocuments(ctx, databaseId, collectionId, f)
	if err != nil {
		return nil, err
	}

	result := &backend.DocumentList{
		Total:     len(docs),
		Documents: make([]backend.Document, 0, len(docs)),
	}
	for i := range docs {
		result.Documents = append(result.Documents, *toDocument(&docs[i]))
	}

	return result, nil
}

var _ backend.Documents = (*documents)(nil)
