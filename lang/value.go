package lang

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/cedric-h/spoodly/lang/ast"
)

// Kind indicates the kind of a [Var].
type Kind int

const (
	KindRaw      Kind = iota // raw
	KindList                 // list
	KindFunction             // function
	KindLambda               // lambda
)

var kindName = [...]string{
	KindRaw:      "raw",
	KindList:     "list",
	KindFunction: "function",
	KindLambda:   "lambda",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// Function is a native callable. Operators and builtins are Functions bound
// by name in a [Context] like any other value.
type Function func(args []Var) (Var, error)

// Var is a runtime value.
type Var struct {
	Kind Kind
	// Exactly one of these will be set based on Kind
	Raw      ast.Raw
	List     []Var
	Function Function
	Lambda   *ast.Node // unevaluated body
}

// NewRaw wraps a literal.
func NewRaw(raw ast.Raw) Var { return Var{Kind: KindRaw, Raw: raw} }

// NewNumber returns a numeric value.
func NewNumber(n float64) Var { return NewRaw(ast.Number(n)) }

// NewText returns a text value.
func NewText(s string) Var { return NewRaw(ast.Text(s)) }

// NewBool returns a boolean value.
func NewBool(b bool) Var { return NewRaw(ast.Bool(b)) }

// NewList returns a list of values.
func NewList(vs ...Var) Var {
	if vs == nil {
		vs = []Var{}
	}

	return Var{Kind: KindList, List: vs}
}

// NewFunction wraps a native callable.
func NewFunction(fn Function) Var { return Var{Kind: KindFunction, Function: fn} }

// NewLambda defers evaluation of body. See [Evaluator.Force].
func NewLambda(body *ast.Node) Var { return Var{Kind: KindLambda, Lambda: body} }

// TypeName names the type of the value as it appears in diagnostics:
// number, text, bool, list, function or lambda.
func (v Var) TypeName() string {
	if v.Kind == KindRaw {
		return v.Raw.Type.String()
	}

	return v.Kind.String()
}

// IsRaw reports whether v is a literal of type t.
func (v Var) IsRaw(t ast.RawType) bool {
	return v.Kind == KindRaw && v.Raw.Type == t
}

// AsNumber returns the number held by v.
func (v Var) AsNumber() (float64, error) {
	if !v.IsRaw(ast.RawNumber) {
		return 0, v.coerceError(ast.RawNumber)
	}

	return v.Raw.Number, nil
}

// AsText returns the text held by v.
func (v Var) AsText() (string, error) {
	if !v.IsRaw(ast.RawText) {
		return "", v.coerceError(ast.RawText)
	}

	return v.Raw.Text, nil
}

// AsBool returns the boolean held by v.
func (v Var) AsBool() (bool, error) {
	if !v.IsRaw(ast.RawBool) {
		return false, v.coerceError(ast.RawBool)
	}

	return v.Raw.Bool, nil
}

func (v Var) coerceError(want ast.RawType) *Error {
	return ErrCoerce.With(
		slog.String("want", want.String()),
		slog.String("got", v.TypeName()))
}

// Display formats v for output. Literals use their plain form (12, hi,
// true); lists are bracketed with text elements quoted, as in [1, "a"].
// Functions and lambdas cannot be displayed.
func (v Var) Display() (string, error) {
	var sb strings.Builder

	if err := v.display(&sb, false); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (v Var) display(sb *strings.Builder, nested bool) error {
	switch v.Kind {
	case KindRaw:
		if nested {
			sb.WriteString(v.Raw.Quote())
		} else {
			sb.WriteString(v.Raw.String())
		}

		return nil

	case KindList:
		sb.WriteByte('[')

		for i, e := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}

			if err := e.display(sb, true); err != nil {
				return err
			}
		}

		sb.WriteByte(']')

		return nil

	default:
		return ErrNotDisplayable.With(slog.String("kind", v.Kind.String()))
	}
}

// String renders v for diagnostics. Unlike [Var.Display] it never fails.
func (v Var) String() string {
	switch v.Kind {
	case KindRaw:
		return v.Raw.Quote()

	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"

	case KindFunction:
		return "<function>"

	case KindLambda:
		return `\` + v.Lambda.String()

	default:
		return v.Kind.String()
	}
}

// LogValue implements [slog.LogValuer].
func (v Var) LogValue() slog.Value {
	return slog.StringValue(v.String())
}
