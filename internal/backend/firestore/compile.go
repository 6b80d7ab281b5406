package firestore

import (
	fs "cloud.google.com/go/firestore"

	"github.com/Salehmangrio/postbase/internal/filter"
)

// Firestore rejects larger disjunctions.
const maxInValues = 30

// compile translates the part of a condition Firestore evaluates the same way Filter.Match does. The query it
// produces may return more documents than the filter matches, never fewer; callers always re-apply the filter.
//
// Only equality and membership against non-nil literals are pushed down. Firestore skips documents that lack a
// field for != and range operators, while Match treats a missing field as nil, so those stay in memory along with
// negation.
func compile(c filter.Condition) (fs.EntityFilter, bool) {
	switch n := c.(type) {
	case *filter.Compare:
		return compileCompare(n)
	case *filter.And:
		var parts []fs.EntityFilter
		for _, child := range []filter.Condition{n.Left, n.Right} {
			if ef, ok := compile(child); ok {
				parts = append(parts, flattenAnd(ef)...)
			}
		}
		switch len(parts) {
		case 0:
			return nil, false
		case 1:
			return parts[0], true
		default:
			return fs.AndFilter{Filters: parts}, true
		}
	case *filter.Or:
		left, ok := compile(n.Left)
		if !ok {
			return nil, false
		}
		right, ok := compile(n.Right)
		if !ok {
			return nil, false
		}
		return fs.OrFilter{Filters: append(flattenOr(left), flattenOr(right)...)}, true
	default:
		return nil, false
	}
}

func compileCompare(c *filter.Compare) (fs.EntityFilter, bool) {
	path := fieldsKey + "." + c.Field

	switch c.Op {
	case filter.OpEq:
		if !pushable(c.Value) {
			return nil, false
		}
		return fs.PropertyFilter{Path: path, Operator: "==", Value: c.Value}, true
	case filter.OpIn:
		list, ok := c.Value.([]any)
		if !ok || len(list) == 0 || len(list) > maxInValues {
			return nil, false
		}
		for _, v := range list {
			if !pushable(v) {
				return nil, false
			}
		}
		return fs.PropertyFilter{Path: path, Operator: "in", Value: list}, true
	default:
		return nil, false
	}
}

func pushable(v any) bool {
	switch v.(type) {
	case string, bool, int64, float64:
		return true
	default:
		return false
	}
}

func flattenAnd(ef fs.EntityFilter) []fs.EntityFilter {
	if and, ok := ef.(fs.AndFilter); ok {
		return and.Filters
	}
	return []fs.EntityFilter{ef}
}

func flattenOr(ef fs.EntityFilter) []fs.EntityFilter {
	if or, ok := ef.(fs.OrFilter); ok {
		return or.Filters
	}
	return []fs.EntityFilter{ef}
}
