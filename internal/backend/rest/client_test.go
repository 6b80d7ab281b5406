package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

const testEndpoint = "https://api.example.com"

func newTestClient(t *testing.T) (*Client, backend.SessionStore) {
	t.Helper()
	t.Cleanup(gock.Off)

	hc := &http.Client{}
	gock.InterceptClient(hc)

	store := backend.NewMemorySessionStore()
	return NewClient(backend.MustNewConnection(testEndpoint+"/v1", "blog"), store, WithHttpClient(hc)), store
}

func TestAccounts(t *testing.T) {
	c, store := newTestClient(t)
	accounts := NewAccounts(c)
	ctx := pbctx.NewBuilderBackground().WithCorrelationID("cor_test").Build()

	gock.New(testEndpoint).
		Post("/v1/account").
		MatchHeader("X-Postbase-Project", "blog").
		MatchHeader("X-Correlation-Id", "cor_test").
		JSON(map[string]any{"id": "acc_1", "email": "a@x.com", "password": "pw123456", "name": "A"}).
		Reply(http.StatusCreated).
		JSON(map[string]any{"id": "acc_1", "email": "a@x.com", "name": "A"})

	created, err := accounts.Create(ctx, pbid.ID("acc_1"), "a@x.com", "pw123456", "A")
	require.NoError(t, err)
	assert.Equal(t, pbid.ID("acc_1"), created.ID)

	gock.New(testEndpoint).
		Post("/v1/account/sessions/email").
		Reply(http.StatusCreated).
		JSON(map[string]any{"id": "ses_1", "account_id": "acc_1", "secret": "s3cret"})

	s, err := accounts.CreateEmailSession(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", s.Secret)

	secret, _ := store.Get(ctx)
	assert.Equal(t, "s3cret", secret)

	gock.New(testEndpoint).
		Get("/v1/account").
		MatchHeader("X-Postbase-Session", "s3cret").
		Reply(http.StatusOK).
		JSON(map[string]any{"id": "acc_1", "email": "a@x.com", "name": "A"})

	me, err := accounts.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)

	gock.New(testEndpoint).
		Delete("/v1/account/sessions").
		MatchHeader("X-Postbase-Session", "s3cret").
		Reply(http.StatusNoContent)

	require.NoError(t, accounts.DeleteSessions(ctx))
	secret, _ = store.Get(ctx)
	assert.Empty(t, secret)

	// without a session no request is sent
	_, err = accounts.Get(ctx)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	assert.ErrorIs(t, accounts.DeleteSessions(ctx), backend.ErrUnauthorized)

	assert.True(t, gock.IsDone())
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		expected error
	}{
		{http.StatusUnauthorized, backend.ErrUnauthorized},
		{http.StatusForbidden, backend.ErrUnauthorized},
		{http.StatusNotFound, backend.ErrNotFound},
		{http.StatusConflict, backend.ErrConflict},
		{http.StatusBadRequest, backend.ErrInvalid},
		{http.StatusUnprocessableEntity, backend.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, _ := newTestClient(t)

			gock.New(testEndpoint).
				Get("/v1/databases/blog/collections/posts/documents/k1").
				Reply(tt.status).
				JSON(map[string]any{"error": "backend said no"})

			_, err := NewDocuments(c).Get(context.Background(), "blog", "posts", "k1")
			require.ErrorIs(t, err, tt.expected)
			assert.Contains(t, err.Error(), "backend said no")
		})
	}

	t.Run("server error is not a sentinel", func(t *testing.T) {
		c, _ := newTestClient(t)

		gock.New(testEndpoint).
			Get("/v1/databases/blog/collections/posts/documents/k1").
			Reply(http.StatusBadGateway)

		_, err := NewDocuments(c).Get(context.Background(), "blog", "posts", "k1")
		require.Error(t, err)
		for _, sentinel := range []error{backend.ErrUnauthorized, backend.ErrNotFound, backend.ErrConflict, backend.ErrInvalid} {
			assert.NotErrorIs(t, err, sentinel)
		}
		assert.Contains(t, err.Error(), "502")
	})
}

func TestDocuments(t *testing.T) {
	c, _ := newTestClient(t)
	docs := NewDocuments(c)
	ctx := context.Background()

	gock.New(testEndpoint).
		Post("/v1/databases/blog/collections/posts/documents").
		JSON(map[string]any{"document_id": "k1", "data": map[string]any{"title": "One"}}).
		Reply(http.StatusCreated).
		JSON(map[string]any{"key": "k1", "fields": map[string]any{"title": "One"}})

	created, err := docs.Create(ctx, "blog", "posts", "k1", map[string]any{"title": "One"})
	require.NoError(t, err)
	assert.Equal(t, "k1", created.Key)

	gock.New(testEndpoint).
		Patch("/v1/databases/blog/collections/posts/documents/k1").
		JSON(map[string]any{"data": map[string]any{"status": "active"}}).
		Reply(http.StatusOK).
		JSON(map[string]any{"key": "k1", "fields": map[string]any{"title": "One", "status": "active"}})

	updated, err := docs.Update(ctx, "blog", "posts", "k1", map[string]any{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Fields["status"])

	gock.New(testEndpoint).
		Get("/v1/databases/blog/collections/posts/documents").
		MatchParam("filter", `status == "active"`).
		Reply(http.StatusOK).
		JSON(map[string]any{"total": 1, "documents": []any{map[string]any{"key": "k1"}}})

	list, err := docs.List(ctx, "blog", "posts", filter.Default)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "k1", list.Documents[0].Key)

	gock.New(testEndpoint).
		Get("/v1/databases/blog/collections/empty/documents").
		Reply(http.StatusOK).
		JSON(map[string]any{"total": 0})

	list, err = docs.List(ctx, "blog", "empty", nil)
	require.NoError(t, err)
	assert.NotNil(t, list.Documents)

	gock.New(testEndpoint).
		Delete("/v1/databases/blog/collections/posts/documents/k1").
		Reply(http.StatusNoContent)

	require.NoError(t, docs.Delete(ctx, "blog", "posts", "k1"))
	assert.True(t, gock.IsDone())
}

func TestFiles(t *testing.T) {
	c, _ := newTestClient(t)
	files := NewFiles(c)
	ctx := context.Background()

	gock.New(testEndpoint).
		Post("/v1/storage/buckets/images/files").
		MatchType("multipart/form-data").
		Reply(http.StatusCreated).
		JSON(map[string]any{"id": "fil_1", "bucket_id": "images", "name": "cat.png", "size": 4})

	created, err := files.Create(ctx, "images", pbid.Nil, backend.InputFile{Name: "cat.png", ContentType: "image/png", Data: []byte("meow")})
	require.NoError(t, err)
	assert.Equal(t, pbid.ID("fil_1"), created.ID)

	gock.New(testEndpoint).
		Get("/v1/storage/buckets/images/files/fil_1/download").
		Reply(http.StatusOK).
		BodyString("meow")

	data, err := files.Download(ctx, "images", "fil_1")
	require.NoError(t, err)
	assert.Equal(t, []byte("meow"), data)

	gock.New(testEndpoint).
		Delete("/v1/storage/buckets/images/files/fil_1").
		Reply(http.StatusNotFound).
		JSON(map[string]any{"error": "file 'fil_1' not found"})

	assert.ErrorIs(t, files.Delete(ctx, "images", "fil_1"), backend.ErrNotFound)

	u, err := files.PreviewURL(ctx, "images", "fil_1", backend.PreviewOptions{Width: 64})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/storage/buckets/images/files/fil_1/preview?project=blog&width=64", u)

	assert.True(t, gock.IsDone())
}

func TestTransportError(t *testing.T) {
	c, _ := newTestClient(t)

	gock.New(testEndpoint).
		Get("/v1/account").
		ReplyError(assert.AnError)

	require.NoError(t, c.store.Set(context.Background(), "s3cret"))
	_, err := NewAccounts(c).Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, backend.ErrUnauthorized)
}
