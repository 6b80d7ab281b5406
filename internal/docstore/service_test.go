package docstore

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/backend/blobfiles"
	"github.com/Salehmangrio/postbase/internal/backend/local"
	"github.com/Salehmangrio/postbase/internal/backend/mock"
	"github.com/Salehmangrio/postbase/internal/database"
	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/pbblob"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pberr"
	"github.com/Salehmangrio/postbase/internal/pbid"
	pblogmock "github.com/Salehmangrio/postbase/internal/pblog/mock"
)

var testConn = backend.MustNewConnection("https://api.example.com/v1", "blog")

var testOptions = Options{
	DatabaseID:     "main",
	CollectionID:   "posts",
	BucketID:       "images",
	RequiredFields: []string{"title"},
}

func newLocalService(t *testing.T) S {
	t.Helper()

	docs := local.NewDocuments(database.NewMemory(nil), nil)
	files := blobfiles.New(pbblob.NewMemoryClient(), blobfiles.Options{Connection: testConn}, nil)

	s, err := NewService(testConn, testOptions, docs, files, nil)
	require.NoError(t, err)
	return s
}

func TestNewService(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mock.NewMockDocuments(ctrl)
	files := mock.NewMockFiles(ctrl)

	_, err := NewService(testConn, testOptions, nil, files, nil)
	assert.Error(t, err)
	_, err = NewService(testConn, testOptions, docs, nil, nil)
	assert.Error(t, err)
	_, err = NewService(testConn, Options{CollectionID: "posts", BucketID: "images"}, docs, files, nil)
	assert.Error(t, err)
	_, err = NewService(testConn, Options{DatabaseID: "main", CollectionID: "posts", BucketID: "images", DefaultFilter: "status =="}, docs, files, nil)
	assert.Error(t, err)
}

func TestDocumentLifecycle(t *testing.T) {
	s := newLocalService(t)
	ctx := context.Background()

	created, err := s.CreateDocument(ctx, "k1", map[string]any{"title": "One", "status": "draft"})
	require.NoError(t, err)
	assert.Equal(t, "k1", created.Key)

	_, err = s.CreateDocument(ctx, "k1", map[string]any{"title": "Again"})
	require.ErrorIs(t, err, pberr.ErrConflict)

	updated, err := s.UpdateDocument(ctx, "k1", map[string]any{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Fields["status"])
	assert.Equal(t, "One", updated.Fields["title"])

	_, err = s.UpdateDocument(ctx, "ghost", map[string]any{"status": "active"})
	require.ErrorIs(t, err, pberr.ErrNotFound)

	got, err := s.GetDocument(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, updated.Fields, got.Fields)

	require.NoError(t, s.DeleteDocument(ctx, "k1"))
	require.ErrorIs(t, s.DeleteDocument(ctx, "k1"), pberr.ErrNotFound)

	_, err = s.GetDocument(ctx, "k1")
	require.ErrorIs(t, err, pberr.ErrNotFound)
}

func TestDocumentValidation(t *testing.T) {
	s := newLocalService(t)
	ctx := context.Background()

	for _, key := range []string{"", "-leading", "has space", "a/b", strings.Repeat("x", 37)} {
		_, err := s.CreateDocument(ctx, key, map[string]any{"title": "x"})
		assert.ErrorIs(t, err, pberr.ErrValidation, key)
	}

	_, err := s.CreateDocument(ctx, "k1", map[string]any{"status": "active"})
	assert.ErrorIs(t, err, pberr.ErrValidation)

	_, err = s.CreateDocument(ctx, "k1", map[string]any{"title": "  "})
	assert.ErrorIs(t, err, pberr.ErrValidation)

	_, err = s.CreateDocument(ctx, "k1", map[string]any{"title": "One"})
	require.NoError(t, err)

	// partial updates only check the required fields they touch
	_, err = s.UpdateDocument(ctx, "k1", map[string]any{"status": "active"})
	require.NoError(t, err)
	_, err = s.UpdateDocument(ctx, "k1", map[string]any{"title": ""})
	assert.ErrorIs(t, err, pberr.ErrValidation)
}

func TestListDocuments(t *testing.T) {
	s := newLocalService(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, d := range []struct {
		key    string
		fields map[string]any
	}{
		{"a", map[string]any{"title": "A", "status": "active", "views": 5}},
		{"b", map[string]any{"title": "B", "status": "inactive", "views": 50}},
		{"c", map[string]any{"title": "C", "status": "active", "views": 500}},
		{"d", map[string]any{"title": "D"}},
	} {
		ctx := pbctx.NewBuilderBackground().WithFixedClock(base.Add(time.Duration(i) * time.Minute)).Build()
		_, err := s.CreateDocument(ctx, d.key, d.fields)
		require.NoError(t, err)
	}

	ctx := context.Background()
	keys := func(docs []Document) []string {
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.Key)
		}
		return out
	}

	docs, err := s.ListDocuments(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, keys(docs))
	for _, d := range docs {
		assert.Equal(t, "active", d.Fields["status"])
	}

	docs, err = s.ListDocuments(ctx, "views >= 50")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, keys(docs))

	docs, err = s.ListDocuments(ctx, "true")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys(docs))

	docs, err = s.ListDocuments(ctx, `status == "archived"`)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	_, err = s.ListDocuments(ctx, "status ==")
	require.ErrorIs(t, err, pberr.ErrValidation)
	assert.ErrorIs(t, err, filter.ErrInvalidFilter)
}

func TestListDocumentsStatusField(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mock.NewMockDocuments(ctrl)
	files := mock.NewMockFiles(ctrl)

	opts := testOptions
	opts.StatusField = "state"
	s, err := NewService(testConn, opts, docs, files, nil)
	require.NoError(t, err)

	docs.
		EXPECT().
		List(gomock.Any(), "main", "posts", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, f *filter.Filter) (*backend.DocumentList, error) {
			assert.Equal(t, `state == "active"`, f.String())
			return &backend.DocumentList{}, nil
		})

	list, err := s.ListDocuments(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, list)
}

func TestBlobs(t *testing.T) {
	s := newLocalService(t)
	id := pbid.MustParse("fil_0000000000000001")
	ctx := pbctx.NewBuilderBackground().WithFixedIdGenerator(id).Build()

	_, err := s.UploadBlob(ctx, Upload{Name: "empty.png"})
	require.ErrorIs(t, err, pberr.ErrValidation)

	handle, err := s.UploadBlob(ctx, Upload{Name: "cat.png", ContentType: "image/png", Data: []byte("meow")})
	require.NoError(t, err)
	assert.Equal(t, id, handle.ID)
	assert.Equal(t, "images", handle.BucketID)

	data, err := s.DownloadBlob(ctx, handle.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("meow"), data)

	loc, err := s.PreviewReference(ctx, handle.ID, PreviewOptions{Width: 300})
	require.NoError(t, err)
	assert.Equal(t, handle.ID, loc.BlobID)
	assert.Contains(t, loc.URL, handle.ID.String())
	assert.Equal(t, "https://api.example.com/v1/storage/buckets/images/files/fil_0000000000000001/preview?project=blog&width=300", loc.URL)

	require.NoError(t, s.DeleteBlob(ctx, handle.ID))
	require.ErrorIs(t, s.DeleteBlob(ctx, handle.ID), pberr.ErrNotFound)

	_, err = s.DownloadBlob(ctx, handle.ID)
	require.ErrorIs(t, err, pberr.ErrNotFound)

	_, err = s.DownloadBlob(ctx, pbid.Nil)
	require.ErrorIs(t, err, pberr.ErrValidation)
	_, err = s.PreviewReference(ctx, pbid.MustParse("acc_0000000000000001"), PreviewOptions{})
	require.ErrorIs(t, err, pberr.ErrValidation)
	_, err = s.PreviewReference(ctx, id, PreviewOptions{Quality: 101})
	require.ErrorIs(t, err, pberr.ErrValidation)
}

func TestBackendFailuresAreTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := mock.NewMockDocuments(ctrl)
	files := mock.NewMockFiles(ctrl)
	s, err := NewService(testConn, testOptions, docs, files, nil)
	require.NoError(t, err)

	down := errors.New("connection refused")
	docs.EXPECT().Get(gomock.Any(), "main", "posts", "k1").Return(nil, down)
	files.EXPECT().Create(gomock.Any(), "images", pbid.Nil, gomock.Any()).Return(nil, down)

	_, err = s.GetDocument(context.Background(), "k1")
	require.ErrorIs(t, err, pberr.ErrTransport)
	assert.ErrorIs(t, err, down)

	_, err = s.UploadBlob(context.Background(), Upload{Data: []byte("x")})
	require.ErrorIs(t, err, pberr.ErrTransport)
}

func TestSoft(t *testing.T) {
	logger, h := pblogmock.NewTestLogger(t)
	strict := newLocalService(t)
	soft := NewSoft(strict, logger)
	ctx := context.Background()

	assert.Same(t, strict, soft.Strict())

	assert.Nil(t, soft.GetDocument(ctx, "missing"))
	assert.True(t, h.HasMessage(slog.LevelError, "failed to get document"))

	_, err := soft.CreateDocument(ctx, "k1", map[string]any{"title": "One", "status": "active"})
	require.NoError(t, err)
	_, err = soft.CreateDocument(ctx, "k1", map[string]any{"title": "One"})
	assert.ErrorIs(t, err, pberr.ErrConflict)
	_, err = soft.UpdateDocument(ctx, "ghost", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, pberr.ErrNotFound)

	assert.NotNil(t, soft.GetDocument(ctx, "k1"))
	assert.Len(t, soft.ListDocuments(ctx, ""), 1)

	list := soft.ListDocuments(ctx, "status ==")
	assert.NotNil(t, list)
	assert.Empty(t, list)

	assert.True(t, soft.DeleteDocument(ctx, "k1"))
	assert.False(t, soft.DeleteDocument(ctx, "k1"))

	assert.Nil(t, soft.UploadBlob(ctx, Upload{}))
	handle := soft.UploadBlob(ctx, Upload{Name: "a.txt", Data: []byte("a")})
	require.NotNil(t, handle)
	assert.Equal(t, []byte("a"), soft.DownloadBlob(ctx, handle.ID))

	loc, err := soft.PreviewReference(ctx, handle.ID, PreviewOptions{})
	require.NoError(t, err)
	assert.Equal(t, handle.ID, loc.BlobID)

	assert.True(t, soft.DeleteBlob(ctx, handle.ID))
	assert.False(t, soft.DeleteBlob(ctx, handle.ID))
	assert.Nil(t, soft.DownloadBlob(ctx, handle.ID))
}
