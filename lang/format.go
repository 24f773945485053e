package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/cedric-h/spoodly/lang/ast"
	"github.com/cedric-h/spoodly/lang/token"
)

// Encoding selects how tokens, trees and values are written.
type Encoding int

const (
	EncodingText Encoding = iota // text
	EncodingJSON                 // json
	EncodingYAML                 // yaml
)

// Encodings lists the names accepted by [ParseEncoding].
var Encodings = []string{"text", "json", "yaml"}

// ParseEncoding parses an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return EncodingText, nil
	case "json":
		return EncodingJSON, nil
	case "yaml", "yml":
		return EncodingYAML, nil
	default:
		return EncodingText, ErrInvalidEncoding.Wrap(fmt.Errorf("%q", s))
	}
}

// ErrInvalidEncoding is returned by [ParseEncoding] for unknown names, and by
// [InterpretReader] for source that is not valid UTF-8.
var ErrInvalidEncoding = NewError("invalid encoding")

// WriteTokens writes a token stream. The text encoding writes one token per
// line prefixed with its position.
func WriteTokens(
	ctx context.Context,
	w io.Writer,
	toks []token.Token,
	enc Encoding,
	indent int,
) error {
	if enc != EncodingText {
		return encode(ctx, w, TokensToNative(toks), enc, indent)
	}

	for _, t := range toks {
		if _, err := fmt.Fprintf(w, "%-8s %s\n", t.Pos, t); err != nil {
			return err
		}
	}

	return nil
}

// WriteAST writes a syntax tree. The text encoding writes one node per line,
// with children indented below their parent.
func WriteAST(
	ctx context.Context,
	w io.Writer,
	n *ast.Node,
	enc Encoding,
	indent int,
) error {
	if enc != EncodingText {
		return encode(ctx, w, NodeToMap(n), enc, indent)
	}

	if indent <= 0 {
		_, err := fmt.Fprintln(w, n)

		return err
	}

	return writeNode(w, n, strings.Repeat(" ", indent), 0)
}

func writeNode(w io.Writer, n *ast.Node, pad string, depth int) error {
	prefix := strings.Repeat(pad, depth)

	var line string

	switch n.Type {
	case ast.TypeValue, ast.TypeVar:
		line = n.String()
	case ast.TypeAssign, ast.TypeCall:
		line = n.Type.String() + " " + n.Name
	default:
		line = n.Type.String()
	}

	if _, err := fmt.Fprintln(w, prefix+line); err != nil {
		return err
	}

	if n.Value != nil {
		if err := writeNode(w, n.Value, pad, depth+1); err != nil {
			return err
		}
	}

	for _, c := range n.Children {
		if err := writeNode(w, c, pad, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// WriteValue writes a runtime value. The text encoding writes its display
// form, falling back to its diagnostic form for values that cannot be
// displayed.
func WriteValue(
	ctx context.Context,
	w io.Writer,
	v Var,
	enc Encoding,
	indent int,
) error {
	if enc != EncodingText {
		return encode(ctx, w, v.ToNative(), enc, indent)
	}

	s, err := v.Display()
	if err != nil {
		s = v.String()
	}

	_, err = fmt.Fprintln(w, s)

	return err
}

func encode(ctx context.Context, w io.Writer, v any, enc Encoding, indent int) error {
	switch enc {
	case EncodingJSON:
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(v)
		}

		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case EncodingYAML:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err := yaml.MarshalContext(ctx, v, opts...)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(w, string(data))

		return err

	default:
		return ErrInvalidEncoding.Wrap(fmt.Errorf("%d", enc))
	}
}
