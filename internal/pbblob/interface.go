package pbblob

import (
	"context"
	"time"
)

type PutInput struct {
	Key         string
	Data        []byte
	ContentType *string
	ExpiresAt   *time.Time
}

// Client is the interface for blob storage operations.
type Client interface {
	// Put stores data under the given key with the specified content type.
	Put(ctx context.Context, input PutInput) error

	// Get retrieves data stored under the given key.
	// Returns ErrBlobNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether a blob is stored under the key without reading it.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes data stored under the given key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Presigner is implemented by clients that can hand out time limited URLs for reading a blob directly.
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
