// Package token defines the lexical alphabet shared by the lexer and parser,
// along with the source positions and structured errors both stages report.
package token

import (
	"log/slog"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	// StorageArrow is the assignment operator "<-".
	StorageArrow Kind = iota
	// LessThan is a lone "<" not followed by "-".
	LessThan
	// ArgsOpen is "(".
	ArgsOpen
	// ArgsClose is ")".
	ArgsClose
	// BlockOpen opens a block. Besides "{", the lexer emits it to frame the
	// program, each line, and the right-hand side of an assignment.
	BlockOpen
	// BlockClose closes the innermost open block.
	BlockClose
	// BinaryOperation is an infix operator. Its symbol is stored in Text.
	BinaryOperation
	// StringLiteral is a double-quoted string. Its body is stored in Text.
	StringLiteral
	// Number is a numeric literal stored in Number.
	Number
	// Identifier is a name stored in Text.
	Identifier
	// LambdaStart is "\".
	LambdaStart
)

var kindName = [...]string{
	StorageArrow:    "storage-arrow",
	LessThan:        "less-than",
	ArgsOpen:        "args-open",
	ArgsClose:       "args-close",
	BlockOpen:       "block-open",
	BlockClose:      "block-close",
	BinaryOperation: "binary-operation",
	StringLiteral:   "string-literal",
	Number:          "number",
	Identifier:      "identifier",
	LambdaStart:     "lambda-start",
}

// String returns the hyphenated name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Position identifies a location in source text.
// Line and Column are 1-based and count runes, Offset counts bytes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Attrs returns the position as structured logging attributes.
func (p Position) Attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
		slog.Int("offset", p.Offset),
	}
}

// Token is a single lexeme.
//
// Only the payload relevant to Kind is set: Text for BinaryOperation,
// StringLiteral and Identifier; Number for Number. Pos is diagnostic and
// does not take part in structural comparison of token streams.
type Token struct {
	Kind   Kind     `json:"kind"             yaml:"kind"`
	Text   string   `json:"text,omitempty"   yaml:"text,omitempty"`
	Number float64  `json:"number,omitempty" yaml:"number,omitempty"`
	Pos    Position `json:"pos"              yaml:"pos"`
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// String renders the token for diagnostics, e.g. identifier(x) or number(3).
func (t Token) String() string {
	switch t.Kind {
	case BinaryOperation, Identifier:
		return t.Kind.String() + "(" + t.Text + ")"
	case StringLiteral:
		return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")"
	case Number:
		return t.Kind.String() + "(" +
			strconv.FormatFloat(t.Number, 'f', -1, 64) + ")"
	default:
		return t.Kind.String()
	}
}

// LogValue implements [slog.LogValuer].
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("token", t.String()),
		slog.String("pos", t.Pos.String()),
	)
}
