package lang

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/cedric-h/spoodly/lang/ast"
	"github.com/cedric-h/spoodly/lang/token"
)

// ToNative converts v to plain Go values: float64, string or bool for
// literals and []any for lists. Functions and lambdas become a descriptive
// string since they have no data representation.
func (v Var) ToNative() any {
	switch v.Kind {
	case KindRaw:
		return rawToNative(v.Raw)

	case KindList:
		list := make([]any, len(v.List))
		for i, e := range v.List {
			list[i] = e.ToNative()
		}

		return list

	default:
		return v.String()
	}
}

// MarshalJSON implements json.Marshaler for Var.
func (v Var) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToNative())
}

func rawToNative(r ast.Raw) any {
	switch r.Type {
	case ast.RawNumber:
		// JSON has no infinities or NaN.
		if math.IsInf(r.Number, 0) || math.IsNaN(r.Number) {
			return strconv.FormatFloat(r.Number, 'f', -1, 64)
		}

		return r.Number
	case ast.RawText:
		return r.Text
	case ast.RawBool:
		return r.Bool
	default:
		return nil
	}
}

// NodeToMap converts a syntax tree to nested maps keyed by field name, with
// only the fields relevant to each node's type.
func NodeToMap(n *ast.Node) map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{"type": n.Type.String()}

	switch n.Type {
	case ast.TypeValue:
		if n.Raw != nil {
			m["raw"] = rawToNative(*n.Raw)
		}

	case ast.TypeVar:
		m["name"] = n.Name

	case ast.TypeAssign:
		m["name"] = n.Name
		m["value"] = NodeToMap(n.Value)

	case ast.TypeCall:
		m["name"] = n.Name
		m["args"] = nodesToNative(n.Children)

	case ast.TypeLambda:
		m["body"] = NodeToMap(n.Value)

	default:
		m["children"] = nodesToNative(n.Children)
	}

	return m
}

func nodesToNative(nodes []*ast.Node) []any {
	list := make([]any, len(nodes))
	for i, c := range nodes {
		list[i] = NodeToMap(c)
	}

	return list
}

// TokenToMap converts a token to a map of its kind, payload and position.
func TokenToMap(t token.Token) map[string]any {
	m := map[string]any{
		"kind": t.Kind.String(),
		"pos":  t.Pos.String(),
	}

	switch t.Kind {
	case token.Number:
		m["number"] = t.Number
	case token.BinaryOperation, token.LessThan, token.StringLiteral, token.Identifier:
		m["text"] = t.Text
	}

	return m
}

// TokensToNative converts a token stream with [TokenToMap].
func TokensToNative(toks []token.Token) []any {
	list := make([]any, len(toks))
	for i, t := range toks {
		list[i] = TokenToMap(t)
	}

	return list
}
