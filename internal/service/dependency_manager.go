package service

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/auth"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/backend/blobfiles"
	"github.com/Salehmangrio/postbase/internal/backend/firestore"
	"github.com/Salehmangrio/postbase/internal/backend/local"
	"github.com/Salehmangrio/postbase/internal/backend/rest"
	"github.com/Salehmangrio/postbase/internal/config"
	"github.com/Salehmangrio/postbase/internal/database"
	"github.com/Salehmangrio/postbase/internal/docstore"
	"github.com/Salehmangrio/postbase/internal/pbblob"
	"github.com/Salehmangrio/postbase/internal/pblog"
	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

// DependencyManager lazily builds the backends and facades described by a config. Getters panic when a dependency
// cannot be built. It is not safe for concurrent use until every dependency has been requested once.
type DependencyManager struct {
	serviceId string
	cfg       config.C

	logger     *slog.Logger
	conn       *backend.Connection
	store      backend.SessionStore
	db         database.DB
	blobs      pbblob.Client
	identity   *local.Identity
	restClient *rest.Client
	firestore  *firestore.Documents
	blobFiles  *blobfiles.Files
	accounts   backend.Accounts
	documents  backend.Documents
	files      backend.Files
}

func NewDependencyManager(serviceId string, cfg config.C) *DependencyManager {
	return &DependencyManager{
		serviceId: serviceId,
		cfg:       cfg,
	}
}

// WithSessionStore sets where client side backends keep the current session. It must be called before any
// backend is built.
func (dm *DependencyManager) WithSessionStore(store backend.SessionStore) *DependencyManager {
	dm.store = store
	return dm
}

func (dm *DependencyManager) GetConfig() config.C {
	return dm.cfg
}

func (dm *DependencyManager) GetConfigRoot() *sconfig.Root {
	return dm.cfg.GetRoot()
}

func (dm *DependencyManager) GetRootLogger() *slog.Logger {
	return dm.cfg.GetRootLogger()
}

func (dm *DependencyManager) GetLogger() *slog.Logger {
	if dm.logger == nil {
		dm.logger = pblog.NewBuilder(dm.GetRootLogger()).WithComponent(dm.serviceId).Build()
	}

	return dm.logger
}

func (dm *DependencyManager) GetConnection() backend.Connection {
	if dm.conn == nil {
		c := dm.GetConfigRoot().Connection
		conn, err := backend.NewConnection(c.Endpoint, c.ProjectID)
		if err != nil {
			panic(errors.Wrap(err, "invalid connection config"))
		}
		dm.conn = &conn
	}

	return *dm.conn
}

func (dm *DependencyManager) GetSessionStore() backend.SessionStore {
	if dm.store == nil {
		dm.store = backend.NewMemorySessionStore()
	}

	return dm.store
}

func (dm *DependencyManager) GetDatabase() database.DB {
	if dm.db == nil {
		var err error
		dm.db, err = database.NewConnectionForRoot(dm.GetConfigRoot(), dm.GetLogger())
		if err != nil {
			panic(err)
		}
	}

	return dm.db
}

// AutoMigrateDatabase migrates the database if the config has auto migrate enabled.
func (dm *DependencyManager) AutoMigrateDatabase(ctx context.Context) error {
	if !dm.GetConfigRoot().Database.GetAutoMigrate() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, dm.GetConfigRoot().Database.GetAutoMigrationLockDuration())
	defer cancel()

	return dm.GetDatabase().Migrate(ctx)
}

func (dm *DependencyManager) GetBlobClient() pbblob.Client {
	if dm.blobs == nil {
		var err error
		dm.blobs, err = pbblob.NewFromConfig(context.Background(), dm.GetConfigRoot().BlobStorage)
		if err != nil {
			panic(errors.Wrap(err, "failed to create blob storage client"))
		}
	}

	return dm.blobs
}

func (dm *DependencyManager) GetIdentity() *local.Identity {
	if dm.identity == nil {
		opts, err := local.IdentityOptionsFromConfig(context.Background(), dm.GetConfigRoot().SystemAuth)
		if err != nil {
			panic(err)
		}

		dm.identity, err = local.NewIdentity(dm.GetDatabase(), opts, dm.GetLogger())
		if err != nil {
			panic(err)
		}
	}

	return dm.identity
}

func (dm *DependencyManager) GetRestClient() *rest.Client {
	if dm.restClient == nil {
		dm.restClient = rest.NewClient(dm.GetConnection(), dm.GetSessionStore(), rest.WithLogger(dm.GetLogger()))
	}

	return dm.restClient
}

func (dm *DependencyManager) GetFirestoreDocuments() *firestore.Documents {
	if dm.firestore == nil {
		var err error
		dm.firestore, err = firestore.NewFromConfig(context.Background(), dm.GetConfigRoot().Firestore, dm.GetLogger())
		if err != nil {
			panic(err)
		}
	}

	return dm.firestore
}

// GetBlobFiles is the Files backend kept in this process's blob storage, whatever files provider the config
// selects for clients.
func (dm *DependencyManager) GetBlobFiles() *blobfiles.Files {
	if dm.blobFiles == nil {
		root := dm.GetConfigRoot()
		opts := blobfiles.Options{
			Connection:    dm.GetConnection(),
			MaxUploadSize: root.Files.GetMaxUploadSize(),
		}
		if root.BlobStorage != nil {
			if s3, ok := root.BlobStorage.InnerVal.(*sconfig.BlobStorageS3); ok {
				opts.PresignTTL = s3.GetPresignTTL()
			}
		}

		dm.blobFiles = blobfiles.New(dm.GetBlobClient(), opts, dm.GetLogger())
	}

	return dm.blobFiles
}

// GetServerDocuments is the Documents backend the dev server stores documents in. A rest provider in the config
// describes the clients, so the server falls back to the local database.
func (dm *DependencyManager) GetServerDocuments() backend.Documents {
	if dm.GetConfigRoot().Documents.GetProvider() == sconfig.DocumentsProviderFirestore {
		return dm.GetFirestoreDocuments()
	}

	return local.NewDocuments(dm.GetDatabase(), dm.GetLogger())
}

func (dm *DependencyManager) GetAccounts() backend.Accounts {
	if dm.accounts == nil {
		switch dm.GetConfigRoot().Accounts.GetProvider() {
		case sconfig.AccountsProviderLocal:
			dm.accounts = local.NewAccounts(dm.GetIdentity(), dm.GetSessionStore())
		default:
			dm.accounts = rest.NewAccounts(dm.GetRestClient())
		}
	}

	return dm.accounts
}

func (dm *DependencyManager) GetDocuments() backend.Documents {
	if dm.documents == nil {
		switch dm.GetConfigRoot().Documents.GetProvider() {
		case sconfig.DocumentsProviderLocal:
			dm.documents = local.NewDocuments(dm.GetDatabase(), dm.GetLogger())
		case sconfig.DocumentsProviderFirestore:
			dm.documents = dm.GetFirestoreDocuments()
		default:
			dm.documents = rest.NewDocuments(dm.GetRestClient())
		}
	}

	return dm.documents
}

func (dm *DependencyManager) GetFiles() backend.Files {
	if dm.files == nil {
		switch dm.GetConfigRoot().Files.GetProvider() {
		case sconfig.FilesProviderBlob:
			dm.files = dm.GetBlobFiles()
		default:
			dm.files = rest.NewFiles(dm.GetRestClient())
		}
	}

	return dm.files
}

func (dm *DependencyManager) GetAuth() auth.A {
	return auth.NewService(dm.GetConnection(), dm.GetAccounts(), dm.GetLogger())
}

func (dm *DependencyManager) GetDocStore() docstore.S {
	root := dm.GetConfigRoot()
	s, err := docstore.NewService(
		dm.GetConnection(),
		docstore.OptionsFromConfig(&root.Documents, &root.Files),
		dm.GetDocuments(),
		dm.GetFiles(),
		dm.GetLogger(),
	)
	if err != nil {
		panic(err)
	}

	return s
}

// Close releases whatever connections were opened.
func (dm *DependencyManager) Close() error {
	result := &multierror.Error{}

	if dm.db != nil {
		if err := dm.db.Close(); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "failed to close database"))
		}
	}

	if dm.firestore != nil {
		if err := dm.firestore.Close(); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "failed to close firestore"))
		}
	}

	return result.ErrorOrNil()
}
