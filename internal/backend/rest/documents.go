package rest

import (
	"context"

	"github.com/Salehmangrio/postbase/internal/api_common"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/routes"
)

type documents struct {
	c *Client
}

func NewDocuments(c *Client) backend.Documents {
	return &documents{c: c}
}

const (
	collectionPath = "/databases/{db}/collections/{col}/documents"
	documentPath   = collectionPath + "/{id}"
)

func (d *documents) Create(ctx context.Context, databaseId, collectionId, documentId string, data map[string]any) (*backend.Document, error) {
	req, err := d.c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result routes.DocumentJson
	resp, err := req.
		SetPathParams(map[string]string{"db": databaseId, "col": collectionId}).
		SetBody(routes.CreateDocumentRequestJson{DocumentID: documentId, Data: data}).
		SetResult(&result).
		SetError(&api_common.ErrorResponse{}).
		Post(collectionPath)
	if err := d.c.check(resp, err); err != nil {
		return nil, err
	}

	return &result, nil
}

func (d *documents) Update(ctx context.Context, databaseId, collectionId, documentId string, data map[string]any) (*backend.Document, error) {
	req, err := d.c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result routes.DocumentJson
	resp, err := req.
		SetPathParams(map[string]string{"db": databaseId, "col": collectionId, "id": documentId}).
		SetBody(routes.UpdateDocumentRequestJson{Data: data}).
		SetResult(&result).
		SetError(&api_common.ErrorResponse{}).
		Patch(documentPath)
	if err := d.c.check(resp, err); err != nil {
		return nil, err
	}

	return &result, nil
}

func (d *documents) Get(ctx context.Context, databaseId, collectionId, documentId string) (*backend.Document, error) {
	req, err := d.c.request(ctx)
	if err != nil {
		return nil, err
	}

	var result routes.DocumentJson
	resp, err := req.
		SetPathParams(map[string]string{"db": databaseId, "col": collectionId, "id": documentId}).
		SetResult(&result).
		SetError(&api_common.ErrorResponse{}).
		Get(documentPath)
	if err := d.c.check(resp, err); err != nil {
		return nil, err
	}

	return &result, nil
}

func (d *documents) Delete(ctx context.Context, databaseId, collectionId, documentId string) error {
	req, err := d.c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetPathParams(map[string]string{"db": databaseId, "col": collectionId, "id": documentId}).
		SetError(&api_common.ErrorResponse{}).
		Delete(documentPath)
	return d.c.check(resp, err)
}

// List sends the filter in its canonical form; a nil filter lists the whole collection.
func (d *documents) List(ctx context.Context, databaseId, collectionId string, f *filter.Filter) (*backend.DocumentList, error) {
	req, err := d.c.request(ctx)
	if err != nil {
		return nil, err
	}

	if f != nil {
		req.SetQueryParam("filter", f.String())
	}

	var result routes.ListDocumentsResponseJson
	resp, err := req.
		SetPathParams(map[string]string{"db": databaseId, "col": collectionId}).
		SetResult(&result).
		SetError(&api_common.ErrorResponse{}).
		Get(collectionPath)
	if err := d.c.check(resp, err); err != nil {
		return nil, err
	}

	if result.Documents == nil {
		result.Documents = []backend.Document{}
	}

	return &result, nil
}

var _ backend.Documents = (*documents)(nil)
