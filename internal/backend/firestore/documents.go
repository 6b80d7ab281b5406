// Package firestore implements backend.Documents over Google Cloud Firestore.
//
// Each logical collection lives at {databaseId}/{collectionId}/documents. A stored record keeps the caller's fields
// under a single map so they never collide with the timestamps kept next to them.
package firestore

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	fs "cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pblog"
	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

const (
	documentsCollection = "documents"

	fieldsKey    = "fields"
	createdAtKey = "created_at"
	updatedAtKey = "updated_at"
)

type Documents struct {
	client *fs.Client
	logger *slog.Logger
}

func New(client *fs.Client, logger *slog.Logger) *Documents {
	return &Documents{
		client: client,
		logger: pblog.NewBuilder(pblog.OrNoop(logger)).WithComponent("firestore").Build(),
	}
}

// NewFromConfig opens a client for the configured project and named database.
func NewFromConfig(ctx context.Context, cfg *sconfig.Firestore, logger *slog.Logger) (*Documents, error) {
	if cfg == nil {
		return nil, errors.New("firestore configuration is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := fs.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.GetDatabase(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create firestore client")
	}

	return New(client, logger), nil
}

func (d *Documents) Close() error {
	return d.client.Close()
}

func (d *Documents) collection(databaseId, collectionId string) (*fs.CollectionRef, error) {
	if err := validateSegment("database id", databaseId); err != nil {
		return nil, err
	}
	if err := validateSegment("collection id", collectionId); err != nil {
		return nil, err
	}
	return d.client.Collection(databaseId).Doc(collectionId).Collection(documentsCollection), nil
}

func (d *Documents) doc(databaseId, collectionId, documentId string) (*fs.DocumentRef, error) {
	coll, err := d.collection(databaseId, collectionId)
	if err != nil {
		return nil, err
	}
	if err := validateSegment("document id", documentId); err != nil {
		return nil, err
	}
	return coll.Doc(documentId), nil
}

func validateSegment(what, v string) error {
	if v == "" {
		return errors.Wrapf(backend.ErrInvalid, "%s must be specified", what)
	}
	if strings.Contains(v, "/") {
		return errors.Wrapf(backend.ErrInvalid, "%s '%s' must not contain '/'", what, v)
	}
	return nil
}

func (d *Documents) Create(ctx context.Context, databaseId, collectionId, documentId string, data map[string]any) (*backend.Document, error) {
	ref, err := d.doc(databaseId, collectionId, documentId)
	if err != nil {
		return nil, err
	}

	if data == nil {
		data = map[string]any{}
	}

	now := pbctx.GetClock(ctx).Now().UTC()
	if _, err := ref.Create(ctx, map[string]any{
		fieldsKey:    data,
		createdAtKey: now,
		updatedAtKey: now,
	}); err != nil {
		return nil, mapError(err, "failed to create document '%s'", documentId)
	}

	return d.Get(ctx, databaseId, collectionId, documentId)
}

// Update writes each top-level key with its own field path, so keys not named in data stay as they are.
func (d *Documents) Update(ctx context.Context, databaseId, collectionId, documentId string, data map[string]any) (*backend.Document, error) {
	ref, err := d.doc(databaseId, collectionId, documentId)
	if err != nil {
		return nil, err
	}

	updates := make([]fs.Update, 0, len(data)+1)
	for k, v := range data {
		updates = append(updates, fs.Update{FieldPath: fs.FieldPath{fieldsKey, k}, Value: v})
	}
	updates = append(updates, fs.Update{Path: updatedAtKey, Value: pbctx.GetClock(ctx).Now().UTC()})

	if _, err := ref.Update(ctx, updates); err != nil {
		return nil, mapError(err, "failed to update document '%s'", documentId)
	}

	return d.Get(ctx, databaseId, collectionId, documentId)
}

func (d *Documents) Get(ctx context.Context, databaseId, collectionId, documentId string) (*backend.Document, error) {
	ref, err := d.doc(databaseId, collectionId, documentId)
	if err != nil {
		return nil, err
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, mapError(err, "failed to get document '%s'", documentId)
	}

	doc := fromSnapshot(databaseId, collectionId, snap.Ref.ID, snap.Data())
	return &doc, nil
}

func (d *Documents) Delete(ctx context.Context, databaseId, collectionId, documentId string) error {
	ref, err := d.doc(databaseId, collectionId, documentId)
	if err != nil {
		return err
	}

	if _, err := ref.Delete(ctx, fs.Exists); err != nil {
		return mapError(err, "failed to delete document '%s'", documentId)
	}

	return nil
}

// List narrows the query with whatever part of the filter Firestore can evaluate, then applies the full filter to
// the results.
func (d *Documents) List(ctx context.Context, databaseId, collectionId string, f *filter.Filter) (*backend.DocumentList, error) {
	coll, err := d.collection(databaseId, collectionId)
	if err != nil {
		return nil, err
	}

	q := coll.Query
	if ef, ok := compile(f.Root()); ok {
		q = q.WhereEntity(ef)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, mapError(err, "failed to list documents in '%s/%s'", databaseId, collectionId)
	}

	docs := make([]backend.Document, 0, len(snaps))
	for _, snap := range snaps {
		doc := fromSnapshot(databaseId, collectionId, snap.Ref.ID, snap.Data())
		if f.Match(doc.Fields) {
			docs = append(docs, doc)
		}
	}

	slices.SortStableFunc(docs, func(a, b backend.Document) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})

	d.logger.Debug("listed documents",
		"database_id", databaseId,
		"collection_id", collectionId,
		"fetched", len(snaps),
		"matched", len(docs),
	)

	return &backend.DocumentList{Total: len(docs), Documents: docs}, nil
}

func fromSnapshot(databaseId, collectionId, id string, data map[string]any) backend.Document {
	doc := backend.Document{
		Key:          id,
		DatabaseID:   databaseId,
		CollectionID: collectionId,
		Fields:       map[string]any{},
	}

	if fields, ok := data[fieldsKey].(map[string]any); ok {
		doc.Fields = fields
	}
	if t, ok := data[createdAtKey].(time.Time); ok {
		doc.CreatedAt = t
	}
	if t, ok := data[updatedAtKey].(time.Time); ok {
		doc.UpdatedAt = t
	}

	return doc
}

// mapError converts a gRPC status into the backend sentinels.
func mapError(err error, format string, args ...any) error {
	switch status.Code(err) {
	case codes.NotFound:
		return errors.Wrapf(backend.ErrNotFound, format, args...)
	case codes.AlreadyExists:
		return errors.Wrapf(backend.ErrConflict, format, args...)
	case codes.InvalidArgument:
		return errors.Wrapf(backend.ErrInvalid, format+": %s", append(args, status.Convert(err).Message())...)
	case codes.Unauthenticated, codes.PermissionDenied:
		return errors.Wrapf(backend.ErrUnauthorized, format, args...)
	default:
		return errors.Wrapf(err, format, args...)
	}
}

var _ backend.Documents = (*Documents)(nil)
