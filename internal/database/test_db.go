package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/golangmigrator"

	"github.com/Salehmangrio/postbase/internal/config"
	sconfig "github.com/Salehmangrio/postbase/internal/schema/config"
)

var postgresTestLimiter = make(chan struct{}, getEnvIntDefault("POSTGRES_TEST_MAX_PARALLEL", 4))

// MustApplyBlankTestDbConfig points the database of the config root at a blank, migrated database and returns a
// connection to it. A sqlite file under the temp directory is used unless POSTBASE_TEST_DATABASE_PROVIDER=postgres,
// in which case a throwaway database is created with POSTGRES_TEST_HOST, POSTGRES_TEST_PORT, POSTGRES_TEST_USER,
// POSTGRES_TEST_PASSWORD, POSTGRES_TEST_DATABASE and POSTGRES_TEST_OPTIONS.
//
// SQLITE_TEST_DATABASE_PATH pins the sqlite file so it can be inspected after a test run.
func MustApplyBlankTestDbConfig(t testing.TB, cfg config.C) (config.C, DB) {
	t.Helper()

	// Optionally load the dotenv file as to force tests into postgres using environment variables while debugging
	_ = godotenv.Load()

	if cfg == nil {
		cfg = config.FromRoot(&sconfig.Root{})
	}

	if cfg.GetRoot() == nil {
		panic("No root in config")
	}

	provider := strings.ToLower(strings.TrimSpace(os.Getenv("POSTBASE_TEST_DATABASE_PROVIDER")))

	switch provider {
	case "postgres":
		return mustApplyBlankPostgresTestDbConfig(t, cfg)
	case "memory":
		cfg.GetRoot().Database = &sconfig.Database{InnerVal: &sconfig.DatabaseMemory{Provider: sconfig.DatabaseProviderMemory}}
		return cfg, NewMemory(cfg.GetRootLogger())
	default:
		return mustApplyBlankSqliteTestDbConfig(t, cfg)
	}
}

func mustApplyBlankSqliteTestDbConfig(t testing.TB, cfg config.C) (config.C, DB) {
	t.Helper()

	root := cfg.GetRoot()
	testName := strings.ReplaceAll(t.Name(), "/", "_")
	if testName != "" {
		testName = testName + "-"
	}

	tempFilePath := os.Getenv("SQLITE_TEST_DATABASE_PATH")
	if tempFilePath != "" {
		if os.Getenv("SQLITE_TEST_DATABASE_PATH_CLEAR") != "false" {
			_ = os.Remove(tempFilePath)
		}
	} else {
		tempFilePath = filepath.Join(
			os.TempDir(),
			fmt.Sprintf("postbase-tests/db/%s-%d-%s%s.sqlite3", time.Now().Format("2006-01-02T15-04-05"), os.Getpid(), testName, uuid.New().String()),
		)
	}

	root.Database = &sconfig.Database{InnerVal: &sconfig.DatabaseSqlite{
		Provider: sconfig.DatabaseProviderSqlite,
		Path:     tempFilePath,
	}}

	db, err := NewConnectionForRoot(root, root.GetRootLogger())
	if err != nil {
		t.Fatalf("failed to connect sqlite test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate sqlite test database: %v", err)
	}

	return cfg, db
}

func mustApplyBlankPostgresTestDbConfig(t testing.TB, cfg config.C) (config.C, DB) {
	t.Helper()

	root := cfg.GetRoot()

	postgresTestLimiter <- struct{}{}
	defer func() { <-postgresTestLimiter }()

	adminConfig := pgtestdb.Config{
		DriverName: "pgx",
		User:       getEnvDefault("POSTGRES_TEST_USER", "postgres"),
		Password:   getEnvDefault("POSTGRES_TEST_PASSWORD", "postgres"),
		Host:       getEnvDefault("POSTGRES_TEST_HOST", "localhost"),
		Port:       getEnvDefault("POSTGRES_TEST_PORT", "5432"),
		Database:   getEnvDefault("POSTGRES_TEST_DATABASE", "postgres"),
		Options:    getEnvDefault("POSTGRES_TEST_OPTIONS", "sslmode=disable"),
	}

	migrator := golangmigrator.New(
		"migrations/postgres",
		golangmigrator.WithFS(migrationsFs),
	)

	testDbConfig := pgtestdb.Custom(t, adminConfig, migrator)
	rawDb, err := testDbConfig.Connect()
	if err != nil {
		t.Fatalf("failed to connect postgres test database: %v", err)
	}
	maxConns := getEnvIntDefault("POSTGRES_TEST_MAX_CONNS", 2)
	rawDb.SetMaxOpenConns(maxConns)
	rawDb.SetMaxIdleConns(maxConns)
	rawDb.SetConnMaxLifetime(2 * time.Minute)
	t.Cleanup(func() {
		_ = rawDb.Close()
	})

	port, err := strconv.ParseInt(testDbConfig.Port, 10, 64)
	if err != nil {
		port = 5432
	}

	sslMode := ""
	params := map[string]string{}
	if query, err := url.ParseQuery(testDbConfig.Options); err == nil {
		for key, values := range query {
			if len(values) == 0 {
				continue
			}
			if key == "sslmode" {
				sslMode = values[0]
			} else {
				params[key] = values[0]
			}
		}
	}

	root.Database = &sconfig.Database{InnerVal: &sconfig.DatabasePostgres{
		Provider: sconfig.DatabaseProviderPostgres,
		Host:     sconfig.NewStringValueDirect(testDbConfig.Host),
		Port:     sconfig.NewIntegerValue(port),
		User:     sconfig.NewStringValueDirect(testDbConfig.User),
		Password: sconfig.NewStringValueDirect(testDbConfig.Password),
		Database: sconfig.NewStringValueDirect(testDbConfig.Database),
		SSLMode:  sslMode,
		Params:   params,
	}}

	return cfg, newService(root.Database, rawDb, root.GetRootLogger())
}

func getEnvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvIntDefault(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	if parsed < 1 {
		return fallback
	}
	return parsed
}
