package lang

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/cedric-h/spoodly/lang/ast"
	"github.com/cedric-h/spoodly/lang/lexer"
	"github.com/cedric-h/spoodly/lang/parser"
	"github.com/cedric-h/spoodly/lang/token"
)

// Tokenize converts source to tokens.
func Tokenize(source string, opts ...Option) ([]token.Token, error) {
	cfg := makeConfig(opts...)

	return lexer.Tokenize(source, lexer.WithLogger(cfg.logger))
}

// Parse converts source to a syntax tree.
func Parse(source string, opts ...Option) (*ast.Node, error) {
	cfg := makeConfig(opts...)

	return parser.Parse(source, parser.WithLogger(cfg.logger))
}

// Interpret parses source and evaluates it in a new [Evaluator] seeded with
// root, typically the result of [Std].
//
// The program is a block, so it runs in a scope enclosed by root and its
// assignments never modify root.
func Interpret(
	ctx context.Context,
	source string,
	root *Context,
	opts ...Option,
) (Var, error) {
	cfg := makeConfig(opts...)

	tree, err := Parse(source, opts...)
	if err != nil {
		return Var{}, err
	}

	result, err := NewEvaluator(root, opts...).Eval(ctx, tree, Root)
	if err != nil {
		return Var{}, err
	}

	cfg.logger.DebugContext(ctx, "interpret complete",
		slog.Any("result", result))

	return result, nil
}

// InterpretReader reads a program from r and interprets it.
func InterpretReader(
	ctx context.Context,
	r io.Reader,
	root *Context,
	opts ...Option,
) (Var, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Var{}, ErrReadSource.Wrap(err)
	}

	if !utf8.Valid(data) {
		return Var{}, ErrInvalidEncoding.With(invalidUTF8(data))
	}

	return Interpret(ctx, string(data), root, opts...)
}

// invalidUTF8 reports the offset of the first byte that is not valid UTF-8.
func invalidUTF8(data []byte) slog.Attr {
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}

		offset += size
	}

	return slog.Int("offset", offset)
}

// ErrReadSource is returned when program text cannot be read.
var ErrReadSource = NewError("failed to read source")
