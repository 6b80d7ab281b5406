package config

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fullConfig = `
connection:
  endpoint: https://api.example.com/v1
  project_id: blog
accounts:
  provider: local
documents:
  provider: local
  database_id: main
  collection_id: posts
  required_fields: [title, content]
files:
  provider: blob
  bucket_id: images
  max_upload_size: 5MB
database:
  provider: sqlite
  path: /tmp/postbase.db
  auto_migrate: true
blob_storage:
  provider: s3
  bucket: postbase
  region: us-east-1
  presign_ttl: 5m
  credentials:
    type: access_key
    access_key_id: AKID
    secret_access_key:
      env_var: POSTBASE_TEST_SECRET_KEY
system_auth:
  session_key:
    value: super-secret
  session_ttl: 24h
server:
  port: 9000
  cors_origins: ["http://localhost:5173"]
logging:
  type: tint
  level: debug
`

func TestRoot_Unmarshal(t *testing.T) {
	root, err := UnmarshallYamlRootString(fullConfig)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", root.Connection.Endpoint)
	assert.Equal(t, AccountsProviderLocal, root.Accounts.GetProvider())
	assert.Equal(t, DocumentsProviderLocal, root.Documents.GetProvider())
	assert.Equal(t, []string{"title", "content"}, root.Documents.RequiredFields)
	assert.Equal(t, FilesProviderBlob, root.Files.GetProvider())
	assert.Equal(t, uint64(5_000_000), root.Files.GetMaxUploadSize())

	sqlite, ok := root.Database.InnerVal.(*DatabaseSqlite)
	require.True(t, ok)
	assert.Equal(t, "/tmp/postbase.db", sqlite.Path)
	assert.True(t, root.Database.GetAutoMigrate())
	assert.Equal(t, "file:/tmp/postbase.db?_foreign_keys=on&_journal_mode=WAL", root.Database.GetDsn())

	s3, ok := root.BlobStorage.InnerVal.(*BlobStorageS3)
	require.True(t, ok)
	assert.Equal(t, 5*time.Minute, s3.GetPresignTTL())
	assert.Equal(t, AwsCredentialsTypeAccessKey, s3.Credentials.GetCredentialsType())

	key, err := root.SystemAuth.SessionKey.GetValue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "super-secret", key)
	assert.Equal(t, 24*time.Hour, root.SystemAuth.GetSessionTTL())
	assert.Equal(t, "postbase", root.SystemAuth.Issuer())

	assert.Equal(t, ":9000", root.Server.GetBindAddress())
	assert.Equal(t, LoggingConfigTypeTint, root.Logging.GetType())
	assert.NotNil(t, root.GetRootLogger())

	require.NoError(t, root.Validate())
}

func TestRoot_Defaults(t *testing.T) {
	root, err := UnmarshallYamlRootString(`
connection: {endpoint: "http://localhost:8080/v1", project_id: p}
documents: {database_id: main, collection_id: posts}
files: {bucket_id: images}
`)
	require.NoError(t, err)

	assert.Equal(t, AccountsProviderRest, root.Accounts.GetProvider())
	assert.Equal(t, DocumentsProviderRest, root.Documents.GetProvider())
	assert.Equal(t, FilesProviderRest, root.Files.GetProvider())
	assert.False(t, root.NeedsDatabase())
	assert.Equal(t, ":8080", root.Server.GetBindAddress())
	assert.Equal(t, []string{"*"}, root.Server.GetCorsOrigins())
	assert.Equal(t, LoggingConfigTypeNone, root.Logging.GetType())
	assert.Equal(t, 30*24*time.Hour, root.SystemAuth.GetSessionTTL())

	require.NoError(t, root.Validate())
}

func TestRoot_Validate(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errors []string
	}{
		{
			name: "bad endpoint",
			yaml: `
connection: {endpoint: "ftp://x", project_id: p}
documents: {database_id: main, collection_id: posts}
files: {bucket_id: images}
`,
			errors: []string{"$.connection.endpoint: endpoint must be an absolute http(s) url, got 'ftp://x'"},
		},
		{
			name: "local providers need database and system auth",
			yaml: `
connection: {endpoint: "http://x", project_id: p}
accounts: {provider: local}
documents: {provider: local, database_id: main, collection_id: posts}
files: {bucket_id: images}
`,
			errors: []string{
				"$: database block is required for local providers",
				"$: system_auth block is required for local accounts",
			},
		},
		{
			name: "firestore needs project",
			yaml: `
connection: {endpoint: "http://x", project_id: p}
documents: {provider: firestore, database_id: main, collection_id: posts}
files: {bucket_id: images}
firestore: {database: d}
`,
			errors: []string{"$.firestore.project_id: project_id must be specified"},
		},
		{
			name: "missing collection and bucket",
			yaml: `
connection: {endpoint: "http://x", project_id: p}
documents: {database_id: main, collection_id: ""}
files: {bucket_id: ""}
`,
			errors: []string{
				"$.documents.collection_id: collection_id must be specified",
				"$.files.bucket_id: bucket_id must be specified",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root, err := UnmarshallYamlRootString(test.yaml)
			require.NoError(t, err)

			err = root.Validate()
			require.Error(t, err)

			var merr *multierror.Error
			require.ErrorAs(t, err, &merr)

			var messages []string
			for _, e := range merr.Errors {
				if nested, ok := e.(*multierror.Error); ok {
					for _, n := range nested.Errors {
						messages = append(messages, n.Error())
					}
					continue
				}
				messages = append(messages, e.Error())
			}
			assert.Equal(t, test.errors, messages)
		})
	}
}

func TestPolymorphicHolders(t *testing.T) {
	t.Run("database providers", func(t *testing.T) {
		var db Database
		require.NoError(t, yaml.Unmarshal([]byte("provider: memory"), &db))
		assert.Equal(t, DatabaseProviderMemory, db.GetProvider())

		require.NoError(t, yaml.Unmarshal([]byte(`
provider: postgres
host: db.internal
port: 6543
user: blog
password: {env_var: POSTBASE_TEST_PG_PASSWORD, default: pw}
database: posts
params: {application_name: postbase}
`), &db))
		assert.Equal(t, "postgres://blog:pw@db.internal:6543/posts?application_name=postbase&sslmode=disable", db.GetDsn())
		require.NoError(t, db.Validate(&ValidationContext{}))

		require.Error(t, yaml.Unmarshal([]byte("provider: oracle"), &db))
		require.Error(t, yaml.Unmarshal([]byte("path: x"), &db))
	})

	t.Run("blob storage providers", func(t *testing.T) {
		var bs BlobStorage
		require.NoError(t, yaml.Unmarshal([]byte("provider: filesystem\npath: ~/blobs"), &bs))
		assert.Equal(t, BlobStorageProviderFilesystem, bs.GetProvider())

		require.NoError(t, yaml.Unmarshal([]byte("bucket: b"), &bs))
		assert.Equal(t, BlobStorageProviderS3, bs.GetProvider())

		require.Error(t, yaml.Unmarshal([]byte("provider: gcs"), &bs))
	})

	t.Run("logging types", func(t *testing.T) {
		var l LoggingConfig
		require.NoError(t, yaml.Unmarshal([]byte("type: json\nlevel: warn"), &l))
		assert.Equal(t, LoggingConfigTypeJson, l.GetType())

		require.Error(t, yaml.Unmarshal([]byte("level: warn"), &l))
	})

	t.Run("aws credentials default to implicit", func(t *testing.T) {
		var c AwsCredentials
		require.NoError(t, yaml.Unmarshal([]byte("{}"), &c))
		assert.Equal(t, AwsCredentialsTypeImplicit, c.GetCredentialsType())
	})
}
