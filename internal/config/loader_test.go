package config

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

func TestLoadConfig_TestData(t *testing.T) {
	files, err := filepath.Glob("test_data/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			c, err := LoadConfig(path)
			require.NoError(t, err)
			require.NotNil(t, c.GetRoot())
			assert.NotNil(t, c.GetRootLogger())
		})
	}
}

func TestLoadConfig_Local(t *testing.T) {
	c, err := LoadConfig("test_data/local.yaml")
	require.NoError(t, err)

	root := c.GetRoot()
	assert.Equal(t, sconfig.AccountsProviderLocal, root.Accounts.GetProvider())
	assert.Equal(t, sconfig.BlobStorageProviderFilesystem, root.BlobStorage.GetProvider())
	assert.Equal(t, uint64(10_000_000), root.Files.GetMaxUploadSize())
	assert.True(t, root.NeedsDatabase())
}

func TestLoadConfigBytes_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing connection",
			yaml: "documents: {database_id: a, collection_id: b}\nfiles: {bucket_id: c}\n",
		},
		{
			name: "unknown top level key",
			yaml: "connection: {endpoint: 'http://x', project_id: p}\ndocuments: {database_id: a, collection_id: b}\nfiles: {bucket_id: c}\nredis: {}\n",
		},
		{
			name: "bad provider",
			yaml: "connection: {endpoint: 'http://x', project_id: p}\ndocuments: {provider: mongo, database_id: a, collection_id: b}\nfiles: {bucket_id: c}\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadConfigBytes([]byte(test.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config schema validation failed")
		})
	}
}

func TestLoadConfigBytes_SemanticValidation(t *testing.T) {
	_, err := LoadConfigBytes([]byte(`
connection: {endpoint: 'http://x', project_id: p}
accounts: {provider: local}
documents: {database_id: a, collection_id: b}
files: {bucket_id: c}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system_auth block is required")
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFromRoot(t *testing.T) {
	c := FromRoot(&sconfig.Root{})
	assert.NotNil(t, c.GetRootLogger())
	assert.False(t, c.IsDebugMode())
}
