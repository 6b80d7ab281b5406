package blobfiles

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/pbblob"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

var testConn = backend.MustNewConnection("https://api.example.com/v1", "blog")

func TestFiles(t *testing.T) {
	blobs := pbblob.NewMemoryClient()
	files := New(blobs, Options{Connection: testConn}, nil)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id := pbid.MustParse("fil_0000000000000001")
	ctx := pbctx.NewBuilderBackground().WithFixedClock(now).WithFixedIdGenerator(id).Build()

	created, err := files.Create(ctx, "images", pbid.Nil, backend.InputFile{Name: "cat.txt", Data: []byte("meow")})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, "images", created.BucketID)
	assert.Equal(t, "cat.txt", created.Name)
	assert.Equal(t, int64(4), created.Size)
	assert.True(t, strings.HasPrefix(created.MimeType, "text/plain"))
	assert.True(t, created.CreatedAt.Equal(now))

	_, err = files.Create(ctx, "images", id, backend.InputFile{Data: []byte("again")})
	assert.ErrorIs(t, err, backend.ErrConflict)

	stat, err := files.Stat(ctx, "images", id)
	require.NoError(t, err)
	assert.Equal(t, created.Name, stat.Name)
	assert.Equal(t, created.MimeType, stat.MimeType)

	data, err := files.Download(ctx, "images", id)
	require.NoError(t, err)
	assert.Equal(t, []byte("meow"), data)

	require.NoError(t, files.Delete(ctx, "images", id))
	assert.ErrorIs(t, files.Delete(ctx, "images", id), backend.ErrNotFound)

	_, err = files.Download(ctx, "images", id)
	assert.ErrorIs(t, err, backend.ErrNotFound)
	_, err = files.Stat(ctx, "images", id)
	assert.ErrorIs(t, err, backend.ErrNotFound)
	assert.Empty(t, blobs.Keys())
}

func TestFilesValidation(t *testing.T) {
	files := New(pbblob.NewMemoryClient(), Options{Connection: testConn, MaxUploadSize: 4}, nil)
	ctx := context.Background()

	_, err := files.Create(ctx, "images", pbid.Nil, backend.InputFile{})
	assert.ErrorIs(t, err, backend.ErrInvalid)

	_, err = files.Create(ctx, "images", pbid.Nil, backend.InputFile{Data: []byte("too large")})
	assert.ErrorIs(t, err, backend.ErrInvalid)
	assert.Contains(t, err.Error(), "exceeds the upload limit of 4 B")

	_, err = files.Create(ctx, "", pbid.Nil, backend.InputFile{Data: []byte("ok")})
	assert.ErrorIs(t, err, backend.ErrInvalid)

	_, err = files.Create(ctx, "images", pbid.New(pbid.PrefixAccount), backend.InputFile{Data: []byte("ok")})
	assert.ErrorIs(t, err, backend.ErrInvalid)

	f, err := files.Create(ctx, "images", pbid.Nil, backend.InputFile{Data: []byte("ok"), ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.MimeType)
	assert.True(t, f.ID.HasPrefix(pbid.PrefixFile))
}

func TestPreviewURL(t *testing.T) {
	files := New(pbblob.NewMemoryClient(), Options{Connection: testConn}, nil)
	id := pbid.MustParse("fil_abc")

	u, err := files.PreviewURL(context.Background(), "images", id, backend.PreviewOptions{Width: 200, Quality: 80})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/storage/buckets/images/files/fil_abc/preview?project=blog&quality=80&width=200", u)

	u, err = files.PreviewURL(context.Background(), "images", id, backend.PreviewOptions{})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/storage/buckets/images/files/fil_abc/preview?project=blog", u)

}

type presigningClient struct {
	pbblob.Client
	ttl time.Duration
}

func (p *presigningClient) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	p.ttl = ttl
	return "https://bucket.s3.amazonaws.com/" + key + "?X-Amz-Signature=x", nil
}

func TestPreviewURLPresigned(t *testing.T) {
	client := &presigningClient{Client: pbblob.NewMemoryClient()}
	files := New(client, Options{Connection: testConn, PresignTTL: time.Minute}, nil)

	u, err := files.PreviewURL(context.Background(), "images", pbid.MustParse("fil_abc"), backend.PreviewOptions{})
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/images/fil_abc/data?X-Amz-Signature=x", u)
	assert.Equal(t, time.Minute, client.ttl)
}
