package backend

import (
	"context"

	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

// Accounts is the identity service. Implementations hold the current session secret in a SessionStore, the way a
// platform SDK client holds its session cookie.
//
//go:generate mockgen -source=./interface.go -destination=./mock/backend.go -package=mock
type Accounts interface {
	// Create registers a new account. Returns ErrConflict if the email is taken.
	Create(ctx context.Context, id pbid.ID, email, password, name string) (*Identity, error)

	// CreateEmailSession exchanges credentials for a session and makes it current.
	// Returns ErrUnauthorized for bad credentials.
	CreateEmailSession(ctx context.Context, email, password string) (*Session, error)

	// Get returns the identity of the current session. Returns ErrUnauthorized if there is none.
	Get(ctx context.Context) (*Identity, error)

	// DeleteSessions revokes every session of the current identity and clears the current session.
	// Returns ErrUnauthorized if there is no current session.
	DeleteSessions(ctx context.Context) error
}

// Documents is the document database.
type Documents interface {
	// Create stores a new document. Returns ErrConflict if the id is taken.
	Create(ctx context.Context, databaseId, collectionId, documentId string, data map[string]any) (*Document, error)

	// Update merges data into an existing document. Returns ErrNotFound if it does not exist.
	Update(ctx context.Context, databaseId, collectionId, documentId string, data map[string]any) (*Document, error)

	// Get returns ErrNotFound if the document does not exist.
	Get(ctx context.Context, databaseId, collectionId, documentId string) (*Document, error)

	// Delete returns ErrNotFound if the document does not exist.
	Delete(ctx context.Context, databaseId, collectionId, documentId string) error

	// List returns the documents matching the filter, oldest first. A nil filter matches everything.
	List(ctx context.Context, databaseId, collectionId string, f *filter.Filter) (*DocumentList, error)
}

// Files is the blob storage service.
type Files interface {
	// Create stores a new file. Returns ErrConflict if the id is taken.
	Create(ctx context.Context, bucketId string, fileId pbid.ID, in InputFile) (*File, error)

	// Download returns the file contents or ErrNotFound.
	Download(ctx context.Context, bucketId string, fileId pbid.ID) ([]byte, error)

	// Delete returns ErrNotFound if the file does not exist.
	Delete(ctx context.Context, bucketId string, fileId pbid.ID) error

	// PreviewURL derives a URL from which a preview of the file can be fetched. It does not check that the file
	// exists.
	PreviewURL(ctx context.Context, bucketId string, fileId pbid.ID, opts PreviewOptions) (string, error)
}

// SessionStore holds the secret of the current session on the client side.
type SessionStore interface {
	// Get returns the current secret or empty string if there is none.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, secret string) error
	Clear(ctx context.Context) error
}
