package database

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Salehmangrio/postbase/internal/filter"
)

func TestPushdown(t *testing.T) {
	render := func(t *testing.T, d dialect, expression string) (string, []any) {
		preds, err := d.pushdown(filter.MustParse(expression))
		require.NoError(t, err)
		if len(preds) == 0 {
			return "", nil
		}
		q, args, err := sq.And(preds).ToSql()
		require.NoError(t, err)
		return q, args
	}

	t.Run("sqlite", func(t *testing.T) {
		q, args := render(t, dialectSqlite, `status == "active" && meta.lang == "en" && draft == true`)
		assert.Equal(t, "(json_extract(data, ?) = ? AND json_extract(data, ?) = ? AND json_extract(data, ?) = ?)", q)
		assert.Equal(t, []any{`$."status"`, "active", `$."meta"."lang"`, "en", `$."draft"`, 1}, args)
	})

	t.Run("postgres", func(t *testing.T) {
		q, args := render(t, dialectPostgres, `meta.lang == "en" && views == 3`)
		assert.Equal(t, "(data @> ?::jsonb AND data @> ?::jsonb)", q)
		assert.Equal(t, []any{`{"meta":{"lang":"en"}}`, `{"views":3}`}, args)
	})

	t.Run("only top level equalities", func(t *testing.T) {
		for _, expression := range []string{
			`status != "active"`,
			`status == "a" || status == "b"`,
			`!(status == "a")`,
			`views > 3`,
			`status in ["a"]`,
			`true`,
		} {
			q, _ := render(t, dialectSqlite, expression)
			assert.Empty(t, q, expression)
		}
	})

	t.Run("mixed chain keeps equalities", func(t *testing.T) {
		q, args := render(t, dialectSqlite, `status == "active" && views > 3`)
		assert.Equal(t, "(json_extract(data, ?) = ?)", q)
		assert.Equal(t, []any{`$."status"`, "active"}, args)
	})
}
