package config

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/hashicorp/go-multierror"

	"github.com/Salehmangrio/postbase/internal/schema/common"
)

type DatabasePostgres struct {
	Provider                  DatabaseProvider  `json:"provider" yaml:"provider"`
	Host                      *StringValue      `json:"host" yaml:"host"`
	Port                      *IntegerValue     `json:"port,omitempty" yaml:"port,omitempty"`
	User                      *StringValue      `json:"user,omitempty" yaml:"user,omitempty"`
	Password                  *StringValue      `json:"password,omitempty" yaml:"password,omitempty"`
	Database                  *StringValue      `json:"database" yaml:"database"`
	SSLMode                   string            `json:"sslmode,omitempty" yaml:"sslmode,omitempty"`
	Params                    map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	AutoMigrate               bool              `json:"auto_migrate,omitempty" yaml:"auto_migrate,omitempty"`
	AutoMigrationLockDuration *HumanDuration    `json:"auto_migration_lock_duration,omitempty" yaml:"auto_migration_lock_duration,omitempty"`
}

func (d *DatabasePostgres) GetProvider() DatabaseProvider {
	return DatabaseProviderPostgres
}

func (d *DatabasePostgres) GetAutoMigrate() bool {
	return d.AutoMigrate
}

func (d *DatabasePostgres) GetAutoMigrationLockDuration() time.Duration {
	return d.AutoMigrationLockDuration.OrDefault(defaultAutoMigrationLockDuration)
}

func (d *DatabasePostgres) GetUri() string {
	return d.buildUrl().String()
}

// GetDsn gets the Data Source Name
func (d *DatabasePostgres) GetDsn() string {
	return d.buildUrl().String()
}

func (d *DatabasePostgres) GetPlaceholderFormat() sq.PlaceholderFormat {
	return sq.Dollar
}

// valueOr resolves sv, returning def when it is missing or cannot be resolved. Validate reports the latter.
func valueOr(ctx context.Context, sv *StringValue, def string) string {
	if sv == nil {
		return def
	}
	v, err := sv.GetValue(ctx)
	if err != nil || v == "" {
		return def
	}
	return v
}

func (d *DatabasePostgres) buildUrl() *url.URL {
	ctx := context.Background()

	u := &url.URL{
		Scheme: "postgres",
		Path:   "/" + valueOr(ctx, d.Database, ""),
	}

	user := valueOr(ctx, d.User, "")
	password := valueOr(ctx, d.Password, "")
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}

	port := int64(5432)
	if d.Port != nil {
		if p, err := d.Port.GetValue(ctx); err == nil {
			port = p
		}
	}

	u.Host = fmt.Sprintf("%s:%d", valueOr(ctx, d.Host, "localhost"), port)

	params := url.Values{}
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	params.Set("sslmode", sslmode)

	keys := make([]string, 0, len(d.Params))
	for k := range d.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "" {
			continue
		}
		params.Set(k, d.Params[k])
	}

	u.RawQuery = params.Encode()
	return u
}

func (d *DatabasePostgres) Validate(vc *common.ValidationContext) error {
	ctx := context.Background()
	result := &multierror.Error{}

	if d.Host == nil {
		result = multierror.Append(result, vc.NewErrorForField("host", "host must be specified"))
	} else if _, err := d.Host.GetValue(ctx); err != nil {
		result = multierror.Append(result, vc.NewErrorfForField("host", "invalid host value: %v", err))
	}

	if d.Database == nil {
		result = multierror.Append(result, vc.NewErrorForField("database", "database must be specified"))
	} else if _, err := d.Database.GetValue(ctx); err != nil {
		result = multierror.Append(result, vc.NewErrorfForField("database", "invalid database value: %v", err))
	}

	if d.Port != nil {
		port, err := d.Port.GetValue(ctx)
		if err != nil {
			result = multierror.Append(result, vc.NewErrorfForField("port", "invalid port value: %v", err))
		} else if port <= 0 || port > 65535 {
			result = multierror.Append(result, vc.NewErrorfForField("port", "port must be between 1 and 65535, got %d", port))
		}
	}

	return result.ErrorOrNil()
}

var _ DatabaseImpl = (*DatabasePostgres)(nil)
