package database

import (
	"encoding/json"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/filter"
	"github.com/Salehmangrio/postbase/internal/schema/config"
)

// dialect captures the few places where sqlite and postgres SQL differ.
type dialect int

const (
	dialectSqlite dialect = iota
	dialectPostgres
)

func dialectFor(p config.DatabaseProvider) dialect {
	if p == config.DatabaseProviderPostgres {
		return dialectPostgres
	}
	return dialectSqlite
}

// isUniqueViolation reports whether err came from a unique or primary key constraint.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}

// isForeignKeyViolation reports whether err came from a reference to a missing row.
func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}

	return false
}

// pushdown translates the equality conditions at the top of an and-chain into SQL predicates over the JSON data
// column. The result selects a superset of the matching rows; callers still apply the filter to every row.
func (d dialect) pushdown(f *filter.Filter) ([]sq.Sqlizer, error) {
	var preds []sq.Sqlizer

	for _, c := range topLevelEqualities(f.Root()) {
		switch d {
		case dialectPostgres:
			contains, err := json.Marshal(nestedObject(c.Field, c.Value))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to encode filter on '%s'", c.Field)
			}
			preds = append(preds, sq.Expr("data @> ?::jsonb", string(contains)))
		default:
			v := c.Value
			if b, ok := v.(bool); ok {
				// json_extract yields 1 or 0 for json booleans
				v = 0
				if b {
					v = 1
				}
			}
			preds = append(preds, sq.Expr("json_extract(data, ?) = ?", sqliteJsonPath(c.Field), v))
		}
	}

	return preds, nil
}

func topLevelEqualities(c filter.Condition) []*filter.Compare {
	switch n := c.(type) {
	case *filter.And:
		return append(topLevelEqualities(n.Left), topLevelEqualities(n.Right)...)
	case *filter.Compare:
		if n.Op != filter.OpEq {
			return nil
		}
		switch n.Value.(type) {
		case string, bool, int64, float64:
			return []*filter.Compare{n}
		}
	}
	return nil
}

func sqliteJsonPath(field string) string {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		parts[i] = strconv.Quote(p)
	}
	return "$." + strings.Join(parts, ".")
}

func nestedObject(field string, value any) map[string]any {
	parts := strings.Split(field, ".")
	var cur any = value
	for i := len(parts) - 1; i >= 0; i-- {
		cur = map[string]any{parts[i]: cur}
	}
	return cur.(map[string]any)
}
