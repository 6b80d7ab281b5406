package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/config"
	"github.com/Salehmangrio/postbase/internal/docstore"
	"github.com/Salehmangrio/postbase/internal/posts"
	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
	"github.com/Salehmangrio/postbase/internal/service"
	"github.com/Salehmangrio/postbase/internal/service/api"
)

func serverRoot() *sconfig.Root {
	return &sconfig.Root{
		Connection: sconfig.Connection{Endpoint: "http://localhost:8080/v1", ProjectID: "blog"},
		Accounts:   &sconfig.Accounts{Provider: sconfig.AccountsProviderLocal},
		Documents: sconfig.Documents{
			Provider:     sconfig.DocumentsProviderLocal,
			DatabaseID:   "main",
			CollectionID: "posts",
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

// setup starts a dev server and writes a client config pointing at it.
func setup(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dm := service.NewDependencyManager("api", config.FromRoot(serverRoot()))
	srv := httptest.NewServer(api.GetGinEngine(dm))
	t.Cleanup(func() {
		srv.Close()
		_ = dm.Close()
	})

	dir := t.TempDir()
	t.Setenv("POSTBASE_SESSION_FILE", filepath.Join(dir, "session"))

	cfgPath := filepath.Join(dir, "postbase.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
connection:
  endpoint: %s/v1
  project_id: blog
documents:
  database_id: main
  collection_id: posts
files:
  bucket_id: images
`, srv.URL)), 0o644))

	return cfgPath
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cfgFile = ""

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

func TestCli(t *testing.T) {
	cfgPath := setup(t)

	_, err := run(t, cfgPath, "account", "whoami")
	require.Error(t, err)

	out, err := run(t, cfgPath, "account", "create", "--email", "a@x.com", "--password", "pw123456", "--name", "A")
	require.NoError(t, err)
	session := decode[backend.Session](t, out)
	assert.Empty(t, session.Secret)
	assert.False(t, session.AccountID.IsNil())

	out, err = run(t, cfgPath, "account", "whoami")
	require.NoError(t, err)
	ident := decode[backend.Identity](t, out)
	assert.Equal(t, "a@x.com", ident.Email)
	assert.Equal(t, "A", ident.Name)

	_, err = run(t, cfgPath, "post", "create", "hello", "--title", "Hello", "--content", "Body")
	require.NoError(t, err)
	_, err = run(t, cfgPath, "post", "create", "draft", "--title", "Draft", "--status", posts.StatusInactive)
	require.NoError(t, err)

	_, err = run(t, cfgPath, "post", "create", "hello", "--title", "Again")
	require.Error(t, err)

	out, err = run(t, cfgPath, "post", "get", "hello")
	require.NoError(t, err)
	p := decode[posts.Post](t, out)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, ident.ID, p.UserID)

	out, err = run(t, cfgPath, "post", "list")
	require.NoError(t, err)
	listed := decode[[]posts.Post](t, out)
	require.Len(t, listed, 1)
	assert.Equal(t, "hello", listed[0].Slug)

	out, err = run(t, cfgPath, "post", "list", "--filter", `status == "inactive"`)
	require.NoError(t, err)
	listed = decode[[]posts.Post](t, out)
	require.Len(t, listed, 1)
	assert.Equal(t, "draft", listed[0].Slug)

	out, err = run(t, cfgPath, "post", "update", "draft", "--status", posts.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, posts.StatusActive, decode[posts.Post](t, out).Status)

	imgPath := filepath.Join(t.TempDir(), "cover.txt")
	require.NoError(t, os.WriteFile(imgPath, []byte("not really an image"), 0o644))

	out, err = run(t, cfgPath, "file", "upload", imgPath)
	require.NoError(t, err)
	handle := decode[docstore.BlobHandle](t, out)
	assert.Equal(t, "cover.txt", handle.Name)

	out, err = run(t, cfgPath, "file", "download", handle.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "not really an image", out)

	out, err = run(t, cfgPath, "file", "preview", handle.ID.String(), "--width", "64")
	require.NoError(t, err)
	loc := decode[docstore.PreviewLocator](t, out)
	assert.Equal(t, handle.ID, loc.BlobID)
	assert.Contains(t, loc.URL, handle.ID.String())

	_, err = run(t, cfgPath, "file", "delete", handle.ID.String())
	require.NoError(t, err)
	_, err = run(t, cfgPath, "file", "delete", handle.ID.String())
	require.Error(t, err)

	_, err = run(t, cfgPath, "post", "delete", "hello")
	require.NoError(t, err)
	_, err = run(t, cfgPath, "post", "get", "hello")
	require.Error(t, err)

	_, err = run(t, cfgPath, "account", "logout")
	require.NoError(t, err)
	_, err = run(t, cfgPath, "account", "whoami")
	require.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	t.Run("schema without config", func(t *testing.T) {
		cfgFile = ""
		t.Setenv("POSTBASE_CONFIG", "")

		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"config", "schema", "database.sqlite"})
		require.NoError(t, cmd.Execute())

		schemas := decode[map[string]any](t, out.String())
		assert.Contains(t, schemas, "database.sqlite")
	})

	t.Run("validate", func(t *testing.T) {
		cfgPath := setup(t)
		_, err := run(t, cfgPath, "config", "validate")
		require.NoError(t, err)
	})

	t.Run("missing config", func(t *testing.T) {
		cfgFile = ""
		t.Setenv("POSTBASE_CONFIG", "")

		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"post", "list"})
		require.Error(t, cmd.Execute())
	})
}
