package database

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pblog"
	"github.com/Salehmangrio/postbase/internal/schema/config"
)

// NewConnectionForRoot creates a new database connection from the specified configuration. The type of the database
// returned will be determined by the configuration.
func NewConnectionForRoot(root *config.Root, logger *slog.Logger) (DB, error) {
	if root == nil || root.Database == nil {
		return nil, errors.New("database is not configured")
	}

	return NewConnection(root.Database, logger)
}

// NewConnection opens the database described by dbConfig. Memory databases need no migration.
func NewConnection(dbConfig *config.Database, logger *slog.Logger) (DB, error) {
	logger = pblog.NewBuilder(pblog.OrNoop(logger)).WithComponent("database").Build()

	var db DB
	var err error

	switch v := dbConfig.InnerVal.(type) {
	case *config.DatabaseSqlite:
		db, err = NewSqliteConnection(v, logger)
	case *config.DatabasePostgres:
		db, err = NewPostgresConnection(v, logger)
	case *config.DatabaseMemory:
		return NewMemory(logger), nil
	default:
		return nil, errors.New("database type not supported")
	}

	if err != nil {
		return nil, err
	}

	if dbConfig.GetAutoMigrate() {
		ctx, cancel := context.WithTimeout(context.Background(), dbConfig.GetAutoMigrationLockDuration())
		defer cancel()

		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

// NewSqliteConnection creates a new database connection to a SQLite database, creating the file if needed.
func NewSqliteConnection(dbConfig *config.DatabaseSqlite, logger *slog.Logger) (DB, error) {
	path := dbConfig.GetPath()

	if _, err := os.Stat(path); err != nil {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "could not create directory for sqlite database '%s'", dbConfig.Path)
		}

		file, err := os.Create(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not load sqlite database path '%s'; failed to create", dbConfig.Path)
		}
		_ = file.Close()
	}

	db, err := sql.Open("sqlite3", dbConfig.GetDsn())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database '%s'", dbConfig.GetDsn())
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrapf(err, "failed to ping sqlite database '%s'", dbConfig.GetDsn())
	}

	return newService(&config.Database{InnerVal: dbConfig}, db, logger), nil
}

// NewPostgresConnection creates a new database connection to Postgres through the pgx stdlib driver.
func NewPostgresConnection(dbConfig *config.DatabasePostgres, logger *slog.Logger) (DB, error) {
	db, err := sql.Open("pgx", dbConfig.GetDsn())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping postgres database")
	}

	return newService(&config.Database{InnerVal: dbConfig}, db, logger), nil
}

func newService(cfg *config.Database, db *sql.DB, logger *slog.Logger) *service {
	return &service{
		cfg:     cfg,
		sq:      sq.StatementBuilder.PlaceholderFormat(cfg.GetPlaceholderFormat()),
		db:      db,
		dialect: dialectFor(cfg.GetProvider()),
		logger:  logger,
	}
}

type service struct {
	cfg     *config.Database
	sq      sq.StatementBuilderType
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

func (s *service) now(ctx context.Context) sql.NullTime {
	return sql.NullTime{Time: pbctx.GetClock(ctx).Now().UTC(), Valid: true}
}

func (s *service) Ping(ctx context.Context) bool {
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("failed to ping database", "error", err)
		return false
	}

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		s.logger.Error("failed to ping database with query", "error", err)
		return false
	}

	return true
}

func (s *service) Close() error {
	return s.db.Close()
}

func (s *service) transaction(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("panic in transaction; rolling back", "panic", p)
			if err2 := tx.Rollback(); err2 != nil {
				s.logger.Error("error rolling back transaction after panic", "error", err2)
			}
			panic(p)
		} else if err != nil {
			s.logger.Debug("error in transaction; rolling back", "error", err)
			if err2 := tx.Rollback(); err2 != nil {
				s.logger.Error("error rolling back transaction after error", "error", err2)
			}
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)

	return err
}

var _ DB = (*service)(nil)
