package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/cedric-h/spoodly/lang/ast"
)

// DefaultPrompt is the prompt INPUT passes to the host when called without
// arguments.
const DefaultPrompt = "input"

// Std returns a root context holding the standard library. DISPLAY and INPUT
// exchange text with host.
//
// Operators accept a fixed list of argument shapes, tried in order. A call
// that matches none of them does not fail: it yields a text value describing
// the mismatch, which then flows through the program like any other text.
// The other builtins report unusable arguments as hard errors.
func Std(host Host) *Context {
	c := NewContext()

	for name, fn := range Operators() {
		c.Set(name, NewFunction(fn))
	}

	return c.
		Set("true", NewBool(true)).
		Set("false", NewBool(false)).
		Set("DISPLAY", NewFunction(display(host))).
		Set("INPUT", NewFunction(input(host))).
		Set("NUMBER", NewFunction(toNumber)).
		Set("TEXT", NewFunction(toText)).
		Set("NOT", NewFunction(not))
}

// Builtins returns the names bound by [Std] in sorted order.
func Builtins() []string {
	return Std(nil).Names()
}

// Operators returns the binary operators bound by [Std], keyed by symbol.
func Operators() map[string]Function {
	return map[string]Function{
		"+": operator("+",
			numbers(func(a, b float64) Var { return NewNumber(a + b) }),
			texts(func(a, b string) Var { return NewText(a + b) })),
		"-": operator("-",
			numbers(func(a, b float64) Var { return NewNumber(a - b) })),
		"*": operator("*",
			numbers(func(a, b float64) Var { return NewNumber(a * b) })),
		"/": operator("/",
			numbers(func(a, b float64) Var { return NewNumber(a / b) })),
		"MOD": operator("MOD",
			numbers(func(a, b float64) Var { return NewNumber(math.Mod(a, b)) })),
		"^": operator("^",
			numbers(func(a, b float64) Var { return NewNumber(math.Pow(a, b)) })),
		">": operator(">",
			numbers(func(a, b float64) Var { return NewBool(a > b) })),
		"<": operator("<",
			numbers(func(a, b float64) Var { return NewBool(a < b) })),
		"=": operator("=",
			numbers(func(a, b float64) Var { return NewBool(a == b) }),
			bools(func(a, b bool) Var { return NewBool(a == b) }),
			texts(func(a, b string) Var { return NewBool(a == b) })),
		"AND": operator("AND",
			bools(func(a, b bool) Var { return NewBool(a && b) })),
		"OR": operator("OR",
			bools(func(a, b bool) Var { return NewBool(a || b) })),
	}
}

// shape is one accepted pair of operand types.
type shape struct {
	name  string
	apply func(a, b Var) (Var, bool)
}

func pair[T any](t ast.RawType, get func(ast.Raw) T, fn func(a, b T) Var) shape {
	return shape{
		name: "(" + t.String() + ", " + t.String() + ")",
		apply: func(a, b Var) (Var, bool) {
			if !a.IsRaw(t) || !b.IsRaw(t) {
				return Var{}, false
			}

			return fn(get(a.Raw), get(b.Raw)), true
		},
	}
}

func numbers(fn func(a, b float64) Var) shape {
	return pair(ast.RawNumber, func(r ast.Raw) float64 { return r.Number }, fn)
}

func texts(fn func(a, b string) Var) shape {
	return pair(ast.RawText, func(r ast.Raw) string { return r.Text }, fn)
}

func bools(fn func(a, b bool) Var) shape {
	return pair(ast.RawBool, func(r ast.Raw) bool { return r.Bool }, fn)
}

// operator returns a Function applying the first of shapes that matches its
// two arguments.
func operator(symbol string, shapes ...shape) Function {
	return func(args []Var) (Var, error) {
		if len(args) == 2 {
			for _, s := range shapes {
				if v, ok := s.apply(args[0], args[1]); ok {
					return v, nil
				}
			}
		}

		return NewText(mismatch(symbol, args, shapes)), nil
	}
}

// mismatch describes an operator call that matched no shape, for example
//
//	cannot apply "+" to (number, text): accepts (number, number) or (text, text)
func mismatch(symbol string, args []Var, shapes []shape) string {
	got := make([]string, len(args))
	for i, a := range args {
		got[i] = a.TypeName()
	}

	want := make([]string, len(shapes))
	for i, s := range shapes {
		want[i] = s.name
	}

	return "cannot apply " + strconv.Quote(symbol) +
		" to (" + strings.Join(got, ", ") + "): accepts " +
		strings.Join(want, " or ")
}

func display(host Host) Function {
	return func(args []Var) (Var, error) {
		parts := make([]string, len(args))

		for i, a := range args {
			s, err := a.Display()
			if err != nil {
				return Var{}, err
			}

			parts[i] = s
		}

		text := strings.Join(parts, " ")

		if host != nil {
			if err := host.Display(text); err != nil {
				return Var{}, ErrHostIO.Wrap(err).With(slog.String("builtin", "DISPLAY"))
			}
		}

		return NewText(text), nil
	}
}

func input(host Host) Function {
	return func(args []Var) (Var, error) {
		prompt := DefaultPrompt

		switch len(args) {
		case 0:
		case 1:
			s, err := args[0].Display()
			if err != nil {
				return Var{}, err
			}

			prompt = s

		default:
			return Var{}, arity("INPUT", "0 or 1", len(args))
		}

		if host == nil {
			return Var{}, ErrEndOfInput.With(slog.String("prompt", prompt))
		}

		text, err := host.Input(prompt)
		if err != nil {
			return Var{}, ErrHostIO.Wrap(err).With(slog.String("builtin", "INPUT"))
		}

		return NewText(text), nil
	}
}

func toNumber(args []Var) (Var, error) {
	if len(args) != 1 {
		return Var{}, arity("NUMBER", "1", len(args))
	}

	if args[0].IsRaw(ast.RawText) {
		n, err := strconv.ParseFloat(strings.TrimSpace(args[0].Raw.Text), 64)
		if err != nil {
			return Var{}, ErrCoerce.Wrap(err).With(
				slog.String("want", ast.RawNumber.String()),
				slog.String("text", args[0].Raw.Text))
		}

		return NewNumber(n), nil
	}

	n, err := args[0].AsNumber()
	if err != nil {
		return Var{}, err
	}

	return NewNumber(n), nil
}

func toText(args []Var) (Var, error) {
	if len(args) != 1 {
		return Var{}, arity("TEXT", "1", len(args))
	}

	s, err := args[0].Display()
	if err != nil {
		return Var{}, err
	}

	return NewText(s), nil
}

func not(args []Var) (Var, error) {
	if len(args) != 1 {
		return Var{}, arity("NOT", "1", len(args))
	}

	b, err := args[0].AsBool()
	if err != nil {
		return Var{}, err
	}

	return NewBool(!b), nil
}

func arity(name, want string, got int) *Error {
	return ErrArity.With(
		slog.String("builtin", name),
		slog.String("want", want),
		slog.Int("got", got))
}
