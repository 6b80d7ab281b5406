// Package blobfiles implements backend.Files over a pbblob.Client. Each file is two blobs: its contents and a small
// JSON metadata record beside them.
package blobfiles

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbblob"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

const DefaultPresignTTL = 15 * time.Minute

type Options struct {
	// Connection is used to derive preview URLs when the blob client cannot presign.
	Connection backend.Connection

	// MaxUploadSize in bytes. Zero means unlimited.
	MaxUploadSize uint64

	PresignTTL time.Duration
}

// Files stores files in blob storage.
type Files struct {
	client pbblob.Client
	opts   Options
	logger *slog.Logger
}

func New(client pbblob.Client, opts Options, logger *slog.Logger) *Files {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = DefaultPresignTTL
	}

	return &Files{
		client: client,
		opts:   opts,
		logger: pblog.NewBuilder(pblog.OrNoop(logger)).WithComponent("files").Build(),
	}
}

func dataKey(bucketId string, fileId pbid.ID) string {
	return bucketId + "/" + fileId.String() + "/data"
}

func metaKey(bucketId string, fileId pbid.ID) string {
	return bucketId + "/" + fileId.String() + "/meta.json"
}

func validate(bucketId string, fileId pbid.ID) error {
	if bucketId == "" {
		return errors.Wrap(backend.ErrInvalid, "bucket id is required")
	}
	if fileId.IsNil() {
		return errors.Wrap(backend.ErrInvalid, "file id is required")
	}
	if err := fileId.ValidatePrefix(pbid.PrefixFile); err != nil {
		return errors.Wrap(backend.ErrInvalid, err.Error())
	}
	return nil
}

func (f *Files) Create(ctx context.Context, bucketId string, fileId pbid.ID, in backend.InputFile) (*backend.File, error) {
	if fileId.IsNil() {
		fileId = pbctx.GetIdGenerator(ctx).New(pbid.PrefixFile)
	}
	if err := validate(bucketId, fileId); err != nil {
		return nil, err
	}
	if len(in.Data) == 0 {
		return nil, errors.Wrap(backend.ErrInvalid, "file is empty")
	}
	if f.opts.MaxUploadSize > 0 && uint64(len(in.Data)) > f.opts.MaxUploadSize {
		return nil, errors.Wrapf(
			backend.ErrInvalid,
			"file of %s exceeds the upload limit of %s",
			humanize.Bytes(uint64(len(in.Data))),
			humanize.Bytes(f.opts.MaxUploadSize),
		)
	}

	exists, err := f.client.Exists(ctx, dataKey(bucketId, fileId))
	if err != nil {
		return nil, errors.Wrap(err, "failed to check for existing file")
	}
	if exists {
		return nil, errors.Wrapf(backend.ErrConflict, "file '%s' already exists", fileId)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(in.Data)
	}

	file := &backend.File{
		ID:        fileId,
		BucketID:  bucketId,
		Name:      in.Name,
		MimeType:  contentType,
		Size:      int64(len(in.Data)),
		CreatedAt: pbctx.GetClock(ctx).Now().UTC(),
	}

	meta, err := json.Marshal(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode file metadata")
	}

	if err := f.client.Put(ctx, pbblob.PutInput{
		Key:         dataKey(bucketId, fileId),
		Data:        in.Data,
		ContentType: &contentType,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to store file")
	}

	metaType := "application/json"
	if err := f.client.Put(ctx, pbblob.PutInput{
		Key:         metaKey(bucketId, fileId),
		Data:        meta,
		ContentType: &metaType,
	}); err != nil {
		_ = f.client.Delete(ctx, dataKey(bucketId, fileId))
		return nil, errors.Wrap(err, "failed to store file metadata")
	}

	pblog.NewBuilder(f.logger).
		WithCtx(ctx).
		WithBucket(bucketId).
		WithBlobId(fileId).
		Build().
		Info("file stored", "size", humanize.Bytes(uint64(file.Size)), "mime_type", contentType)

	return file, nil
}

// Stat returns the metadata of a stored file.
func (f *Files) Stat(ctx context.Context, bucketId string, fileId pbid.ID) (*backend.File, error) {
	if err := validate(bucketId, fileId); err != nil {
		return nil, err
	}

	data, err := f.client.Get(ctx, metaKey(bucketId, fileId))
	if err != nil {
		if errors.Is(err, pbblob.ErrBlobNotFound) {
			return nil, errors.Wrapf(backend.ErrNotFound, "file '%s' not found", fileId)
		}
		return nil, errors.Wrap(err, "failed to read file metadata")
	}

	var file backend.File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to decode file metadata")
	}

	return &file, nil
}

func (f *Files) Download(ctx context.Context, bucketId string, fileId pbid.ID) ([]byte, error) {
	if err := validate(bucketId, fileId); err != nil {
		return nil, err
	}

	data, err := f.client.Get(ctx, dataKey(bucketId, fileId))
	if err != nil {
		if errors.Is(err, pbblob.ErrBlobNotFound) {
			return nil, errors.Wrapf(backend.ErrNotFound, "file '%s' not found", fileId)
		}
		return nil, errors.Wrap(err, "failed to read file")
	}

	return data, nil
}

func (f *Files) Delete(ctx context.Context, bucketId string, fileId pbid.ID) error {
	if err := validate(bucketId, fileId); err != nil {
		return err
	}

	exists, err := f.client.Exists(ctx, dataKey(bucketId, fileId))
	if err != nil {
		return errors.Wrap(err, "failed to check for file")
	}
	if !exists {
		return errors.Wrapf(backend.ErrNotFound, "file '%s' not found", fileId)
	}

	if err := f.client.Delete(ctx, dataKey(bucketId, fileId)); err != nil {
		return errors.Wrap(err, "failed to delete file")
	}
	if err := f.client.Delete(ctx, metaKey(bucketId, fileId)); err != nil {
		return errors.Wrap(err, "failed to delete file metadata")
	}

	pblog.NewBuilder(f.logger).WithCtx(ctx).WithBucket(bucketId).WithBlobId(fileId).Build().Info("file deleted")

	return nil
}

// PreviewURL presigns the stored object when the blob client supports it. Otherwise the URL of the preview route is
// derived from the connection.
func (f *Files) PreviewURL(ctx context.Context, bucketId string, fileId pbid.ID, opts backend.PreviewOptions) (string, error) {
	if err := validate(bucketId, fileId); err != nil {
		return "", err
	}

	if p, ok := f.client.(pbblob.Presigner); ok {
		u, err := p.PresignGet(ctx, dataKey(bucketId, fileId), f.opts.PresignTTL)
		if err != nil {
			return "", errors.Wrap(err, "failed to presign file")
		}
		return u, nil
	}

	return backend.PreviewURL(f.opts.Connection, bucketId, fileId, opts)
}

var _ backend.Files = (*Files)(nil)
