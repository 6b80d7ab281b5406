package routes

import (
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

// Request and response bodies of the REST surface. The rest backend decodes the same types.

type CreateAccountRequestJson struct {
	ID       pbid.ID `json:"id,omitempty"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name,omitempty"`
}

type CreateEmailSessionRequestJson struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type IdentityJson = backend.Identity

type SessionJson = backend.Session

type CreateDocumentRequestJson struct {
	DocumentID string         `json:"document_id"`
	Data       map[string]any `json:"data"`
}

type UpdateDocumentRequestJson struct {
	Data map[string]any `json:"data"`
}

type DocumentJson = backend.Document

type ListDocumentsRequestQuery struct {
	Filter *string `form:"filter"`
}

type ListDocumentsResponseJson = backend.DocumentList

type FileJson = backend.File

type PreviewRequestQuery struct {
	Project string `form:"project"`
	Width   int    `form:"width"`
	Height  int    `form:"height"`
	Quality int    `form:"quality"`
}

const (
	// Multipart form fields of a file upload.
	FormFieldFile   = "file"
	FormFieldFileId = "file_id"
)
