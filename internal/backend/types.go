package backend

import (
	"time"

	"github.com/Salehmangrio/postbase/internal/pbid"
)

// Identity is the profile of an account as reported by the backend.
type Identity struct {
	ID        pbid.ID   `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an authenticated session. The secret is what proves the session on later calls.
type Session struct {
	ID        pbid.ID   `json:"id"`
	AccountID pbid.ID   `json:"account_id"`
	Secret    string    `json:"secret,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Document is a keyed set of fields in a collection.
type Document struct {
	Key          string         `json:"key"`
	DatabaseID   string         `json:"database_id"`
	CollectionID string         `json:"collection_id"`
	Fields       map[string]any `json:"fields"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// DocumentList is the result of a list call.
type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

// File is the metadata of a stored blob.
type File struct {
	ID        pbid.ID   `json:"id"`
	BucketID  string    `json:"bucket_id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// InputFile is the payload of an upload.
type InputFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// PreviewOptions tune a preview; zero values mean the backend default.
type PreviewOptions struct {
	Width   int
	Height  int
	Quality int
}
