package rest

import (
	"bytes"
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/Salehmangrio/postbase/internal/api_common"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/routes"
)

type files struct {
	c *Client
}

func NewFiles(c *Client) backend.Files {
	return &files{c: c}
}

const (
	bucketPath = "/storage/buckets/{bucket}/files"
	filePath   = bucketPath + "/{id}"
)

func (f *files) Create(ctx context.Context, bucketId string, fileId pbid.ID, in backend.InputFile) (*backend.File, error) {
	req, err := f.c.request(ctx)
	if err != nil {
		return nil, err
	}

	if !fileId.IsNil() {
		req.SetFormData(map[string]string{routes.FormFieldFileId: fileId.String()})
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := in.Name
	if name == "" {
		name = "upload"
	}

	var result routes.FileJson
	resp, err := req.
		SetPathParam("bucket", bucketId).
		SetMultipartFields(&resty.MultipartField{
			Param:       routes.FormFieldFile,
			FileName:    name,
			ContentType: contentType,
			Reader:      bytes.NewReader(in.Data),
		}).
		SetResult(&result).
		SetError(&api_common.ErrorResponse{}).
		Post(bucketPath)
	if err := f.c.check(resp, err); err != nil {
		return nil, err
	}

	return &result, nil
}

func (f *files) Download(ctx context.Context, bucketId string, fileId pbid.ID) ([]byte, error) {
	req, err := f.c.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetPathParams(map[string]string{"bucket": bucketId, "id": fileId.String()}).
		SetError(&api_common.ErrorResponse{}).
		Get(filePath + "/download")
	if err := f.c.check(resp, err); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

func (f *files) Delete(ctx context.Context, bucketId string, fileId pbid.ID) error {
	req, err := f.c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetPathParams(map[string]string{"bucket": bucketId, "id": fileId.String()}).
		SetError(&api_common.ErrorResponse{}).
		Delete(filePath)
	return f.c.check(resp, err)
}

// PreviewURL is derived from the connection without a request.
func (f *files) PreviewURL(_ context.Context, bucketId string, fileId pbid.ID, opts backend.PreviewOptions) (string, error) {
	return backend.PreviewURL(f.c.conn, bucketId, fileId, opts)
}

var _ backend.Files = (*files)(nil)
