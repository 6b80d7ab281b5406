package config

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Salehmangrio/postbase/internal/schema/common"
)

type DatabaseProvider string

const (
	DatabaseProviderSqlite   DatabaseProvider = "sqlite"
	DatabaseProviderPostgres DatabaseProvider = "postgres"
	DatabaseProviderMemory   DatabaseProvider = "memory"
)

const defaultAutoMigrationLockDuration = 2 * time.Minute

// DatabaseImpl is the interface implemented by concrete database configurations.
type DatabaseImpl interface {
	GetProvider() DatabaseProvider
	GetAutoMigrate() bool
	GetAutoMigrationLockDuration() time.Duration
	GetUri() string
	GetDsn() string
	GetPlaceholderFormat() sq.PlaceholderFormat
	Validate(vc *common.ValidationContext) error
}

// Database is the holder for a DatabaseImpl instance.
type Database struct {
	InnerVal DatabaseImpl `json:"-" yaml:"-"`
}

func (d *Database) GetProvider() DatabaseProvider {
	if d == nil || d.InnerVal == nil {
		return ""
	}
	return d.InnerVal.GetProvider()
}

func (d *Database) GetAutoMigrate() bool {
	if d == nil || d.InnerVal == nil {
		return false
	}
	return d.InnerVal.GetAutoMigrate()
}

func (d *Database) GetAutoMigrationLockDuration() time.Duration {
	if d == nil || d.InnerVal == nil {
		return defaultAutoMigrationLockDuration
	}
	return d.InnerVal.GetAutoMigrationLockDuration()
}

func (d *Database) GetUri() string {
	if d == nil || d.InnerVal == nil {
		return ""
	}
	return d.InnerVal.GetUri()
}

func (d *Database) GetDsn() string {
	if d == nil || d.InnerVal == nil {
		return ""
	}
	return d.InnerVal.GetDsn()
}

func (d *Database) GetPlaceholderFormat() sq.PlaceholderFormat {
	if d == nil || d.InnerVal == nil {
		return sq.Question
	}
	return d.InnerVal.GetPlaceholderFormat()
}

func (d *Database) Validate(vc *common.ValidationContext) error {
	if d == nil || d.InnerVal == nil {
		return vc.NewError("database must be specified")
	}

	return d.InnerVal.Validate(vc)
}

// DatabaseMemory keeps everything in process. Data is lost on exit.
type DatabaseMemory struct {
	Provider DatabaseProvider `json:"provider" yaml:"provider"`
}

func (d *DatabaseMemory) GetProvider() DatabaseProvider {
	return DatabaseProviderMemory
}

func (d *DatabaseMemory) GetAutoMigrate() bool {
	return false
}

func (d *DatabaseMemory) GetAutoMigrationLockDuration() time.Duration {
	return 0
}

func (d *DatabaseMemory) GetUri() string {
	return ""
}

func (d *DatabaseMemory) GetDsn() string {
	return ""
}

func (d *DatabaseMemory) GetPlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *DatabaseMemory) Validate(_ *common.ValidationContext) error {
	return nil
}

var _ DatabaseImpl = (*Database)(nil)
var _ DatabaseImpl = (*DatabaseMemory)(nil)
