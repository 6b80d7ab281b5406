package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		canonical string
	}{
		{name: "default", expr: DefaultExpression, canonical: `status == "active"`},
		{name: "bare identifier value", expr: `status == active`, canonical: `status == "active"`},
		{name: "not equal", expr: `status != "draft"`, canonical: `status != "draft"`},
		{name: "integer", expr: `views >= 10`, canonical: `views >= 10`},
		{name: "negative float", expr: `score > -1.5`, canonical: `score > -1.5`},
		{name: "and keyword", expr: `a == 1 and b == 2`, canonical: `(a == 1 && b == 2)`},
		{name: "or symbol", expr: `a == 1 || b == 2`, canonical: `(a == 1 || b == 2)`},
		{name: "in", expr: `tag in ["go", "rust"]`, canonical: `tag in ["go", "rust"]`},
		{name: "not in", expr: `tag not in ["go"]`, canonical: `tag not in ["go"]`},
		{name: "negated comparison", expr: `!(status == "active")`, canonical: `status != "active"`},
		{name: "negated group", expr: `not (a == 1 && b == 2)`, canonical: `!((a == 1 && b == 2))`},
		{name: "nested field", expr: `author.name == "A"`, canonical: `author.name == "A"`},
		{name: "nil", expr: `deleted_at == nil`, canonical: `deleted_at == nil`},
		{name: "bool", expr: `draft == false`, canonical: `draft == false`},
		{name: "all", expr: `true`, canonical: `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.canonical, f.String())

			again, err := Parse(f.String())
			require.NoError(t, err)
			assert.Equal(t, f.String(), again.String())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, expr := range []string{
		``,
		`status ==`,
		`"active" == status`,
		`status == other.field + 1`,
		`len(tags) > 2`,
		`tag in other`,
		`false`,
		`status`,
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFilter))
		})
	}
}

func TestMatch(t *testing.T) {
	doc := map[string]any{
		"status": "active",
		"views":  12,
		"score":  4.5,
		"tag":    "go",
		"draft":  false,
		"author": map[string]any{"name": "A"},
	}

	tests := []struct {
		expr  string
		match bool
	}{
		{`status == "active"`, true},
		{`status == active`, true},
		{`status == "draft"`, false},
		{`status != "draft"`, true},
		{`views == 12`, true},
		{`views > 12`, false},
		{`views >= 12`, true},
		{`score < 5`, true},
		{`score <= 4.5`, true},
		{`tag in ["go", "rust"]`, true},
		{`tag not in ["go", "rust"]`, false},
		{`draft == false`, true},
		{`author.name == "A"`, true},
		{`author.missing == nil`, true},
		{`missing == nil`, true},
		{`missing != nil`, false},
		{`missing == "x"`, false},
		{`status > 10`, false},
		{`status == "active" && views > 100`, false},
		{`status == "active" || views > 100`, true},
		{`!(status == "active" && draft == false)`, false},
		{`title >= "a"`, false},
		{`true`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.match, f.Match(doc))
		})
	}
}

func TestMatchNumberTypes(t *testing.T) {
	f := MustParse(`views == 3`)
	assert.True(t, f.Match(map[string]any{"views": int64(3)}))
	assert.True(t, f.Match(map[string]any{"views": float64(3)}))
	assert.True(t, f.Match(map[string]any{"views": uint8(3)}))
	assert.False(t, f.Match(map[string]any{"views": "3"}))
}

func TestDefaultNeverMatchesInactive(t *testing.T) {
	docs := []map[string]any{
		{"status": "active"},
		{"status": "inactive"},
		{"satus": "active"},
		{},
		{"status": nil},
	}
	var kept []map[string]any
	for _, d := range docs {
		if Default.Match(d) {
			kept = append(kept, d)
		}
	}
	require.Len(t, kept, 1)
	assert.Equal(t, "active", kept[0]["status"])
}

func TestFieldEquals(t *testing.T) {
	f := FieldEquals("count", 3)
	assert.Equal(t, `count == 3`, f.String())
	assert.True(t, f.Match(map[string]any{"count": 3}))

	f = New(&Compare{Field: "tag", Op: OpIn, Value: normalizeLiteral([]string{"a", "b"})})
	assert.True(t, f.Match(map[string]any{"tag": "b"}))
}

func TestFields(t *testing.T) {
	f := MustParse(`status == active && (views > 1 || status == "x") && tag in ["a"]`)
	assert.Equal(t, []string{"status", "views", "tag"}, f.Fields())
}

func TestNilFilterIsAll(t *testing.T) {
	var f *Filter
	assert.Equal(t, All{}, f.Root())
	assert.True(t, f.Match(map[string]any{}))
	assert.Equal(t, "true", f.String())
}

func TestOpNegate(t *testing.T) {
	for _, op := range []Op{OpEq, OpNe, OpIn, OpNotIn} {
		neg, ok := op.Negate()
		require.True(t, ok, op)
		back, ok := neg.Negate()
		require.True(t, ok, neg)
		assert.Equal(t, op, back)
	}

	for _, op := range []Op{OpLt, OpLte, OpGt, OpGte} {
		neg, ok := op.Negate()
		assert.False(t, ok, op)
		assert.Equal(t, op, neg)
	}
}

func TestNegationOverMissingField(t *testing.T) {
	docs := []map[string]any{
		{"title": "no views"},
		{"title": "few", "views": int64(3)},
		{"title": "many", "views": int64(30)},
		{"title": "text", "views": "lots"},
	}

	pairs := []struct {
		positive string
		negated  string
	}{
		{`views < 10`, `!(views < 10)`},
		{`views <= 10`, `not (views <= 10)`},
		{`views > 10`, `!(views > 10)`},
		{`views >= 10`, `!(views >= 10)`},
		{`views == 3`, `!(views == 3)`},
		{`views in [3, 4]`, `!(views in [3, 4])`},
	}

	for _, p := range pairs {
		t.Run(p.negated, func(t *testing.T) {
			pos := MustParse(p.positive)
			neg := MustParse(p.negated)
			grouped := MustParse("!(" + p.positive + " && true)")

			for _, d := range docs {
				assert.Equal(t, !pos.Match(d), neg.Match(d), "%v", d)
				assert.Equal(t, neg.Match(d), grouped.Match(d), "%v", d)
			}
		})
	}

	assert.Equal(t, `!(views < 10)`, MustParse(`!(views < 10)`).String())
	assert.True(t, MustParse(`!(views < 10)`).Match(map[string]any{"title": "no views"}))
}
