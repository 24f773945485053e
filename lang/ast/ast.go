// Package ast defines the syntax tree produced by package parser.
package ast

import (
	"strconv"
	"strings"
)

// Type indicates the type of a [Node].
type Type int

const (
	// TypeBlock is a sequence of statements evaluated in a fresh scope.
	TypeBlock Type = iota
	// TypeList is a sequence of expressions evaluated in the current scope.
	TypeList
	// TypeValue is a literal.
	TypeValue
	// TypeVar is a variable reference.
	TypeVar
	// TypeAssign binds Name to the value of Value.
	TypeAssign
	// TypeCall invokes Name with Children as arguments.
	TypeCall
	// TypeLambda wraps Value for deferred evaluation.
	TypeLambda
)

var typeName = [...]string{
	TypeBlock:  "block",
	TypeList:   "list",
	TypeValue:  "value",
	TypeVar:    "var",
	TypeAssign: "assign",
	TypeCall:   "call",
	TypeLambda: "lambda",
}

// String returns the lower-case name of the type.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeName) {
		return "type(" + strconv.Itoa(int(t)) + ")"
	}

	return typeName[t]
}

// MarshalText implements [encoding.TextMarshaler].
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Node is a single syntax tree node.
type Node struct {
	Type Type `json:"type" yaml:"type"`
	// Exactly the fields relevant to Type are set:
	//
	//	TypeBlock, TypeList: Children
	//	TypeValue:           Raw
	//	TypeVar:             Name
	//	TypeAssign:          Name, Value
	//	TypeCall:            Name, Children (arguments)
	//	TypeLambda:          Value
	Name     string  `json:"name,omitempty"     yaml:"name,omitempty"`
	Raw      *Raw    `json:"raw,omitempty"      yaml:"raw,omitempty"`
	Value    *Node   `json:"value,omitempty"    yaml:"value,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewBlock creates a block of statements.
func NewBlock(children ...*Node) *Node {
	return &Node{Type: TypeBlock, Children: children}
}

// NewList creates a list of expressions.
func NewList(children ...*Node) *Node {
	return &Node{Type: TypeList, Children: children}
}

// NewValue creates a literal node.
func NewValue(raw Raw) *Node {
	return &Node{Type: TypeValue, Raw: &raw}
}

// NewVar creates a reference to name.
func NewVar(name string) *Node {
	return &Node{Type: TypeVar, Name: name}
}

// NewAssign creates an assignment of value to name.
func NewAssign(name string, value *Node) *Node {
	return &Node{Type: TypeAssign, Name: name, Value: value}
}

// NewCall creates a call of name with the given arguments.
func NewCall(name string, args ...*Node) *Node {
	return &Node{Type: TypeCall, Name: name, Children: args}
}

// NewLambda creates a deferred expression.
func NewLambda(body *Node) *Node {
	return &Node{Type: TypeLambda, Value: body}
}

// String renders the node as an S-expression, for example
//
//	(block (assign s (call + 3 2)) (call DISPLAY s))
func (n *Node) String() string {
	var sb strings.Builder

	n.write(&sb)

	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("()")

		return
	}

	switch n.Type {
	case TypeValue:
		if n.Raw != nil {
			sb.WriteString(n.Raw.Quote())
		}

		return

	case TypeVar:
		sb.WriteString(n.Name)

		return
	}

	sb.WriteByte('(')
	sb.WriteString(n.Type.String())

	if n.Name != "" {
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
	}

	if n.Value != nil {
		sb.WriteByte(' ')
		n.Value.write(sb)
	}

	for _, c := range n.Children {
		sb.WriteByte(' ')
		c.write(sb)
	}

	sb.WriteByte(')')
}

// Walk calls fn for n and each of its descendants in depth-first order.
// Descendants of a node are skipped when fn returns false for it.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	if n.Value != nil {
		Walk(n.Value, fn)
	}

	for _, c := range n.Children {
		Walk(c, fn)
	}
}
