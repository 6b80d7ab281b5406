package database

import (
	"context"

	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

//go:generate mockgen -source=./interface.go -destination=./mock/db.go -package=mock
type DB interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) bool
	Close() error

	/*
	 *  Accounts
	 */

	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id pbid.ID) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	/*
	 *  Sessions
	 */

	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id pbid.ID) (*Session, error)

	// DeleteSessionsForAccount removes every session of the account and returns how many were removed.
	DeleteSessionsForAccount(ctx context.Context, accountId pbid.ID) (int64, error)

	/*
	 *  Documents
	 */

	CreateDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, key DocumentKey) (*Document, error)

	// UpdateDocument merges the top level keys of fields into the stored document.
	UpdateDocument(ctx context.Context, key DocumentKey, fields map[string]any) (*Document, error)
	DeleteDocument(ctx context.Context, key DocumentKey) error

	// ListDocuments returns the documents of a collection matching f, oldest first. A nil filter matches everything.
	ListDocuments(ctx context.Context, databaseId, collectionId string, f *filter.Filter) ([]Document, error)
}
