package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Salehmangrio/postbase/internal/auth"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/backend/rest"
	"github.com/Salehmangrio/postbase/internal/config"
	"github.com/Salehmangrio/postbase/internal/docstore"
	"github.com/Salehmangrio/postbase/internal/pberr"
	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
	"github.com/Salehmangrio/postbase/internal/service"
)

func testRoot() *sconfig.Root {
	return &sconfig.Root{
		Connection: sconfig.Connection{Endpoint: "http://localhost:8080/v1", ProjectID: "blog"},
		Accounts:   &sconfig.Accounts{Provider: sconfig.AccountsProviderLocal},
		Documents: sconfig.Documents{
			Provider:       sconfig.DocumentsProviderLocal,
			DatabaseID:     "main",
			CollectionID:   "posts",
			RequiredFields: []string{"title"},
		},
		Files:       sconfig.Files{Provider: sconfig.FilesProviderBlob, BucketID: "images"},
		Database:    &sconfig.Database{InnerVal: &sconfig.DatabaseMemory{Provider: sconfig.DatabaseProviderMemory}},
		BlobStorage: &sconfig.BlobStorage{InnerVal: &sconfig.BlobStorageMemory{Provider: sconfig.BlobStorageProviderMemory}},
		SystemAuth: &sconfig.SystemAuth{
			SessionKey: sconfig.NewStringValueDirect("test-session-key"),
			BcryptCost: 4,
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, backend.Connection) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dm := service.NewDependencyManager("api", config.FromRoot(testRoot()))
	srv := httptest.NewServer(GetGinEngine(dm))
	t.Cleanup(func() {
		srv.Close()
		_ = dm.Close()
	})

	return srv, backend.MustNewConnection(srv.URL+"/v1", "blog")
}

func TestPing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pong", body["message"])
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-Id"))
}

func TestCors(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/account", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://blog.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "X-Postbase-Session")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Less(t, resp.StatusCode, 300)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// The facades over the rest backends against the dev server.
func TestRoundTrip(t *testing.T) {
	srv, conn := newTestServer(t)
	ctx := context.Background()

	client := rest.NewClient(conn, backend.NewMemorySessionStore(), rest.WithHttpClient(srv.Client()))
	a := auth.NewService(conn, rest.NewAccounts(client), nil)

	session, err := a.CreateAccount(ctx, auth.Credentials{Email: "a@x.com", Password: "pw123456", Name: "A"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Secret)

	_, err = a.CreateAccount(ctx, auth.Credentials{Email: "a@x.com", Password: "pw123456"})
	require.ErrorIs(t, err, pberr.ErrConflict)

	me, err := a.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)
	assert.Equal(t, "A", me.Name)

	ds, err := docstore.NewService(
		conn,
		docstore.Options{DatabaseID: "main", CollectionID: "posts", BucketID: "images", RequiredFields: []string{"title"}},
		rest.NewDocuments(client),
		rest.NewFiles(client),
		nil,
	)
	require.NoError(t, err)

	_, err = ds.CreateDocument(ctx, "k1", map[string]any{"title": "One", "status": "active"})
	require.NoError(t, err)
	_, err = ds.CreateDocument(ctx, "k2", map[string]any{"title": "Two", "status": "inactive"})
	require.NoError(t, err)
	_, err = ds.CreateDocument(ctx, "k1", map[string]any{"title": "Again"})
	require.ErrorIs(t, err, pberr.ErrConflict)

	_, err = ds.UpdateDocument(ctx, "ghost", map[string]any{"title": "x"})
	require.ErrorIs(t, err, pberr.ErrNotFound)

	docs, err := ds.ListDocuments(ctx, "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "k1", docs[0].Key)

	docs, err = ds.ListDocuments(ctx, `title in ["One", "Two"]`)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	require.NoError(t, ds.DeleteDocument(ctx, "k2"))
	require.ErrorIs(t, ds.DeleteDocument(ctx, "k2"), pberr.ErrNotFound)

	handle, err := ds.UploadBlob(ctx, docstore.Upload{Name: "cat.txt", ContentType: "text/plain", Data: []byte("meow")})
	require.NoError(t, err)
	assert.Equal(t, "images", handle.BucketID)
	assert.Equal(t, int64(4), handle.Size)

	data, err := ds.DownloadBlob(ctx, handle.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("meow"), data)

	loc, err := ds.PreviewReference(ctx, handle.ID, docstore.PreviewOptions{Width: 100})
	require.NoError(t, err)
	assert.Equal(t, handle.ID, loc.BlobID)

	resp, err := srv.Client().Get(loc.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, ds.DeleteBlob(ctx, handle.ID))
	require.ErrorIs(t, ds.DeleteBlob(ctx, handle.ID), pberr.ErrNotFound)

	require.NoError(t, a.Logout(ctx))
	_, err = a.GetCurrentUser(ctx)
	require.ErrorIs(t, err, pberr.ErrAuth)
	require.NoError(t, a.Logout(ctx))
}
