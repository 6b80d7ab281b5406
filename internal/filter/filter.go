// Package filter implements the document query language used by ListDocuments.
//
// Expressions are written in expr syntax and restricted to comparisons of a document field with a literal,
// combined with boolean operators:
//
//	status == "active"
//	status == active and views >= 10
//	category in ["go", "rust"] || !(draft == true)
//
// A bare identifier on the right of a comparison is read as a string, so `status == active` and
// `status == "active"` are the same filter. The expression `true` selects every document.
package filter

import (
	"strings"

	"github.com/expr-lang/expr/parser"
	"github.com/pkg/errors"
)

// DefaultExpression selects documents whose status is active.
const DefaultExpression = `status == "active"`

// ErrInvalidFilter is returned when an expression cannot be parsed or uses an unsupported construct.
var ErrInvalidFilter = errors.New("invalid filter expression")

// Default is the parsed DefaultExpression.
var Default = MustParse(DefaultExpression)

// Filter is a parsed, validated filter expression.
type Filter struct {
	root Condition
}

// Parse parses the expression into a Filter.
func Parse(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, errors.Wrap(ErrInvalidFilter, "empty expression")
	}

	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilter, "%q: %v", expression, err)
	}

	root, err := convert(tree.Node)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilter, "%q: %v", expression, err)
	}

	return &Filter{root: root}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expression string) *Filter {
	f, err := Parse(expression)
	if err != nil {
		panic(err)
	}
	return f
}

// New wraps an already built condition.
func New(root Condition) *Filter {
	return &Filter{root: root}
}

// FieldEquals builds the filter `field == value`.
func FieldEquals(field string, value any) *Filter {
	return New(&Compare{Field: field, Op: OpEq, Value: normalizeLiteral(value)})
}

// Root returns the top of the condition tree.
func (f *Filter) Root() Condition {
	if f == nil {
		return All{}
	}
	return f.root
}

// Match evaluates the filter against a set of document fields.
func (f *Filter) Match(fields map[string]any) bool {
	return f.Root().Match(fields)
}

// String renders the filter in canonical form; the result parses back to an equivalent filter.
func (f *Filter) String() string {
	return f.Root().String()
}

// Fields lists the distinct document fields the filter references, in first-seen order.
func (f *Filter) Fields() []string {
	seen := map[string]bool{}
	var out []string
	Walk(f.Root(), func(c Condition) {
		if cmp, ok := c.(*Compare); ok && !seen[cmp.Field] {
			seen[cmp.Field] = true
			out = append(out, cmp.Field)
		}
	})
	return out
}

// Walk calls fn for every condition in the tree, parents before children.
func Walk(c Condition, fn func(Condition)) {
	fn(c)
	switch n := c.(type) {
	case *And:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Or:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Not:
		Walk(n.Cond, fn)
	}
}
