package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/filter"
)

const DocumentsTable = "documents"

// DocumentKey addresses a single document.
type DocumentKey struct {
	DatabaseID   string
	CollectionID string
	ID           string
}

func (k DocumentKey) String() string {
	return k.DatabaseID + "/" + k.CollectionID + "/" + k.ID
}

func (k DocumentKey) validate() error {
	if k.DatabaseID == "" || k.CollectionID == "" || k.ID == "" {
		return errors.Errorf("document key '%s' is incomplete", k)
	}
	return nil
}

func (k DocumentKey) where() sq.Eq {
	return sq.Eq{
		"database_id":   k.DatabaseID,
		"collection_id": k.CollectionID,
		"id":            k.ID,
	}
}

// Document is a schemaless record inside a collection. Numbers in Data are float64 once read back.
type Document struct {
	DatabaseID   string
	CollectionID string
	ID           string
	Data         map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (d *Document) Key() DocumentKey {
	return DocumentKey{DatabaseID: d.DatabaseID, CollectionID: d.CollectionID, ID: d.ID}
}

// documentRow is the storage form of a Document with the data still encoded.
type documentRow struct {
	DatabaseID   string
	CollectionID string
	ID           string
	Data         []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r *documentRow) cols() []string {
	return []string{
		"database_id",
		"collection_id",
		"id",
		"data",
		"created_at",
		"updated_at",
	}
}

func (r *documentRow) fields() []any {
	return []any{
		&r.DatabaseID,
		&r.CollectionID,
		&r.ID,
		&r.Data,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

func (r *documentRow) values() []any {
	return []any{
		r.DatabaseID,
		r.CollectionID,
		r.ID,
		string(r.Data),
		r.CreatedAt,
		r.UpdatedAt,
	}
}

func (r *documentRow) toDocument() (*Document, error) {
	data, err := decodeData(r.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "document '%s/%s/%s' has invalid data", r.DatabaseID, r.CollectionID, r.ID)
	}

	return &Document{
		DatabaseID:   r.DatabaseID,
		CollectionID: r.CollectionID,
		ID:           r.ID,
		Data:         data,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func encodeData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	return json.Marshal(data)
}

func decodeData(b []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *service) CreateDocument(ctx context.Context, d *Document) error {
	if d == nil {
		return errors.New("document is required")
	}

	if err := d.Key().validate(); err != nil {
		return err
	}

	encoded, err := encodeData(d.Data)
	if err != nil {
		return errors.Wrap(err, "failed to encode document data")
	}

	// Round trip so the caller sees the same types a later read returns.
	if d.Data, err = decodeData(encoded); err != nil {
		return errors.Wrap(err, "failed to encode document data")
	}

	now := s.now(ctx).Time
	d.CreatedAt = now
	d.UpdatedAt = now

	row := documentRow{
		DatabaseID:   d.DatabaseID,
		CollectionID: d.CollectionID,
		ID:           d.ID,
		Data:         encoded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.transaction(ctx, func(tx *sql.Tx) error {
		var count int64
		err := s.sq.
			Select("COUNT(*)").
			From(DocumentsTable).
			Where(d.Key().where()).
			RunWith(tx).
			QueryRowContext(ctx).
			Scan(&count)
		if err != nil {
			return errors.Wrap(err, "failed to check for existing document")
		}

		if count > 0 {
			return errors.Wrapf(ErrDuplicate, "document '%s' already exists", d.Key())
		}

		result, err := s.sq.
			Insert(DocumentsTable).
			Columns(row.cols()...).
			Values(row.values()...).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return errors.Wrapf(ErrDuplicate, "document '%s' already exists", d.Key())
			}
			return errors.Wrap(err, "failed to create document")
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "failed to create document")
		}

		if affected != 1 {
			return errors.Wrap(ErrViolation, "document insert did not create exactly one row")
		}

		return nil
	})
}

func (s *service) getDocument(ctx context.Context, runner sq.BaseRunner, key DocumentKey) (*Document, error) {
	var row documentRow
	err := s.sq.
		Select(row.cols()...).
		From(DocumentsTable).
		Where(key.where()).
		RunWith(runner).
		QueryRowContext(ctx).
		Scan(row.fields()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return row.toDocument()
}

func (s *service) GetDocument(ctx context.Context, key DocumentKey) (*Document, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}

	return s.getDocument(ctx, s.db, key)
}

func (s *service) UpdateDocument(ctx context.Context, key DocumentKey, fields map[string]any) (*Document, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}

	var updated *Document
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		existing, err := s.getDocument(ctx, tx, key)
		if err != nil {
			return err
		}

		for k, v := range fields {
			existing.Data[k] = v
		}

		encoded, err := encodeData(existing.Data)
		if err != nil {
			return errors.Wrap(err, "failed to encode document data")
		}

		if existing.Data, err = decodeData(encoded); err != nil {
			return errors.Wrap(err, "failed to encode document data")
		}

		existing.UpdatedAt = s.now(ctx).Time

		result, err := s.sq.
			Update(DocumentsTable).
			Set("data", string(encoded)).
			Set("updated_at", existing.UpdatedAt).
			Where(key.where()).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to update document")
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "failed to update document")
		}

		if affected == 0 {
			return ErrNotFound
		}

		if affected > 1 {
			return errors.Wrap(ErrViolation, "multiple documents were updated")
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *service) DeleteDocument(ctx context.Context, key DocumentKey) error {
	if err := key.validate(); err != nil {
		return err
	}

	result, err := s.sq.
		Delete(DocumentsTable).
		Where(key.where()).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete document")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to delete document")
	}

	if affected == 0 {
		return ErrNotFound
	}

	if affected > 1 {
		return errors.Wrap(ErrViolation, "multiple documents were deleted")
	}

	return nil
}

func (s *service) ListDocuments(ctx context.Context, databaseId, collectionId string, f *filter.Filter) ([]Document, error) {
	if databaseId == "" || collectionId == "" {
		return nil, errors.New("database id and collection id are required")
	}

	preds, err := s.dialect.pushdown(f)
	if err != nil {
		return nil, err
	}

	where := sq.And{
		sq.Eq{"database_id": databaseId},
		sq.Eq{"collection_id": collectionId},
	}
	for _, p := range preds {
		where = append(where, p)
	}

	var row documentRow
	rows, err := s.sq.
		Select(row.cols()...).
		From(DocumentsTable).
		Where(where).
		OrderBy("created_at", "id").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}
	defer rows.Close()

	results := make([]Document, 0)
	for rows.Next() {
		var r documentRow
		if err := rows.Scan(r.fields()...); err != nil {
			return nil, errors.Wrap(err, "failed to read document")
		}

		d, err := r.toDocument()
		if err != nil {
			return nil, err
		}

		if f.Match(d.Data) {
			results = append(results, *d)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	return results, nil
}
