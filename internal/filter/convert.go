package filter

import (
	"fmt"

	"github.com/expr-lang/expr/ast"
)

func convert(node ast.Node) (Condition, error) {
	switch n := node.(type) {
	case *ast.BoolNode:
		if n.Value {
			return All{}, nil
		}
		return nil, fmt.Errorf("constant false selects nothing")
	case *ast.BinaryNode:
		switch n.Operator {
		case "and", "&&":
			l, r, err := convertPair(n.Left, n.Right)
			if err != nil {
				return nil, err
			}
			return &And{Left: l, Right: r}, nil
		case "or", "||":
			l, r, err := convertPair(n.Left, n.Right)
			if err != nil {
				return nil, err
			}
			return &Or{Left: l, Right: r}, nil
		case "==", "!=", "<", "<=", ">", ">=", "in", "not in":
			return convertCompare(n)
		default:
			return nil, fmt.Errorf("unsupported operator %q", n.Operator)
		}
	case *ast.UnaryNode:
		switch n.Operator {
		case "not", "!":
			inner, err := convert(n.Node)
			if err != nil {
				return nil, err
			}
			if cmp, ok := inner.(*Compare); ok {
				if op, exact := cmp.Op.Negate(); exact {
					return &Compare{Field: cmp.Field, Op: op, Value: cmp.Value}, nil
				}
			}
			return &Not{Cond: inner}, nil
		default:
			return nil, fmt.Errorf("unsupported unary operator %q", n.Operator)
		}
	default:
		return nil, fmt.Errorf("expected a comparison, got %s", describe(node))
	}
}

func convertPair(left, right ast.Node) (Condition, Condition, error) {
	l, err := convert(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := convert(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func convertCompare(n *ast.BinaryNode) (Condition, error) {
	field, err := fieldPath(n.Left)
	if err != nil {
		return nil, err
	}

	op := Op(n.Operator)
	if op == OpIn || op == OpNotIn {
		arr, ok := n.Right.(*ast.ArrayNode)
		if !ok {
			return nil, fmt.Errorf("%q requires an array literal", op)
		}
		values := make([]any, 0, len(arr.Nodes))
		for _, e := range arr.Nodes {
			v, err := literal(e)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return &Compare{Field: field, Op: op, Value: values}, nil
	}

	v, err := literal(n.Right)
	if err != nil {
		return nil, err
	}
	return &Compare{Field: field, Op: op, Value: v}, nil
}

func fieldPath(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return n.Value, nil
	case *ast.MemberNode:
		parent, err := fieldPath(n.Node)
		if err != nil {
			return "", err
		}
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return "", fmt.Errorf("unsupported member access in field path")
		}
		return parent + "." + prop.Value, nil
	default:
		return "", fmt.Errorf("left side of a comparison must be a field, got %s", describe(node))
	}
}

func literal(node ast.Node) (any, error) {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value, nil
	case *ast.IdentifierNode:
		return n.Value, nil
	case *ast.IntegerNode:
		return int64(n.Value), nil
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.NilNode:
		return nil, nil
	case *ast.UnaryNode:
		if n.Operator == "-" {
			switch v := n.Node.(type) {
			case *ast.IntegerNode:
				return -int64(v.Value), nil
			case *ast.FloatNode:
				return -v.Value, nil
			}
		}
	}
	return nil, fmt.Errorf("right side of a comparison must be a literal, got %s", describe(node))
}

func describe(node ast.Node) string {
	return fmt.Sprintf("%T", node)
}
