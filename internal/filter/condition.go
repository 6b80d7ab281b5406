package filter

import (
	"fmt"
	"strconv"
	"strings"
)

type Op string

const (
	OpEq    Op = "=="
	OpNe    Op = "!="
	OpLt    Op = "<"
	OpLte   Op = "<="
	OpGt    Op = ">"
	OpGte   Op = ">="
	OpIn    Op = "in"
	OpNotIn Op = "not in"
)

// Negate returns the operator that matches exactly the documents op does not. Only equality and membership have
// one: a range comparison is false on both sides when the field is missing or not comparable, so ok is false for
// those.
func (o Op) Negate() (neg Op, ok bool) {
	switch o {
	case OpEq:
		return OpNe, true
	case OpNe:
		return OpEq, true
	case OpIn:
		return OpNotIn, true
	case OpNotIn:
		return OpIn, true
	}
	return o, false
}

// Condition is a node of a parsed filter.
type Condition interface {
	Match(fields map[string]any) bool
	String() string
}

// All matches every document.
type All struct{}

func (All) Match(map[string]any) bool { return true }
func (All) String() string            { return "true" }

// Compare tests a single field against a literal. For OpIn and OpNotIn the value is a []any.
type Compare struct {
	Field string
	Op    Op
	Value any
}

type And struct {
	Left, Right Condition
}

type Or struct {
	Left, Right Condition
}

type Not struct {
	Cond Condition
}

func (a *And) Match(fields map[string]any) bool {
	return a.Left.Match(fields) && a.Right.Match(fields)
}

func (a *And) String() string {
	return fmt.Sprintf("(%s && %s)", a.Left, a.Right)
}

func (o *Or) Match(fields map[string]any) bool {
	return o.Left.Match(fields) || o.Right.Match(fields)
}

func (o *Or) String() string {
	return fmt.Sprintf("(%s || %s)", o.Left, o.Right)
}

func (n *Not) Match(fields map[string]any) bool {
	return !n.Cond.Match(fields)
}

func (n *Not) String() string {
	return fmt.Sprintf("!(%s)", n.Cond)
}

func (c *Compare) Match(fields map[string]any) bool {
	actual, _ := Lookup(fields, c.Field)

	switch c.Op {
	case OpEq:
		return equal(actual, c.Value)
	case OpNe:
		return !equal(actual, c.Value)
	case OpIn, OpNotIn:
		found := false
		if list, ok := c.Value.([]any); ok {
			for _, v := range list {
				if equal(actual, v) {
					found = true
					break
				}
			}
		}
		return found == (c.Op == OpIn)
	default:
		cmp, ok := compare(actual, c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case OpLt:
			return cmp < 0
		case OpLte:
			return cmp <= 0
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		}
	}
	return false
}

func (c *Compare) String() string {
	return fmt.Sprintf("%s %s %s", c.Field, c.Op, renderLiteral(c.Value))
}

// Lookup resolves a dotted field path against nested maps.
func Lookup(fields map[string]any, path string) (any, bool) {
	var cur any = fields
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func renderLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = renderLiteral(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return strconv.Quote(fmt.Sprint(t))
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func compare(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	as, ok := a.(string)
	if !ok {
		return 0, false
	}
	bs, ok := b.(string)
	if !ok {
		return 0, false
	}
	return strings.Compare(as, bs), true
}

// normalizeLiteral converts Go values supplied by callers into the literal types produced by the parser.
func normalizeLiteral(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return v
}
