package docstore

import (
	"context"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

type Document = backend.Document

// BlobHandle identifies an uploaded blob.
type BlobHandle = backend.File

type PreviewOptions = backend.PreviewOptions

// PreviewLocator is where a preview of a blob can be fetched from.
type PreviewLocator struct {
	BlobID pbid.ID `json:"blob_id"`
	URL    string  `json:"url"`
}

// Upload is the payload of UploadBlob. The content type is sniffed from the data when empty.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// S is a document collection plus a blob bucket. Every error it returns is a *pberr.Error.
type S interface {
	CreateDocument(ctx context.Context, key string, fields map[string]any) (*Document, error)
	UpdateDocument(ctx context.Context, key string, partial map[string]any) (*Document, error)
	DeleteDocument(ctx context.Context, key string) error

	// ListDocuments returns the documents matching the filter expression, oldest first. An empty expression
	// selects the default filter.
	ListDocuments(ctx context.Context, filterExpr string) ([]Document, error)
	GetDocument(ctx context.Context, key string) (*Document, error)

	UploadBlob(ctx context.Context, in Upload) (*BlobHandle, error)
	DownloadBlob(ctx context.Context, id pbid.ID) ([]byte, error)
	DeleteBlob(ctx context.Context, id pbid.ID) error

	// PreviewReference derives a preview location without contacting the backend.
	PreviewReference(ctx context.Context, id pbid.ID, opts PreviewOptions) (PreviewLocator, error)
}
