// Package parser builds syntax trees from token streams.
//
// The grammar has no operator precedence. A binary operator takes the node
// parsed immediately before it as its left operand and the next node as its
// right operand, so a chain of operators folds strictly to the left and
// "3/2*4 + 1 MOD 6" means "((((3/2)*4)+1) MOD 6)". Parentheses group.
package parser

import (
	"log/slog"

	"github.com/cedric-h/spoodly/lang/ast"
	"github.com/cedric-h/spoodly/lang/lexer"
	"github.com/cedric-h/spoodly/lang/token"
	"github.com/cedric-h/spoodly/log"
)

// Predefined errors (sentinel values).
var (
	ErrUnbalancedBlock   = token.NewError("unbalanced block")
	ErrUnbalancedArgs    = token.NewError("unbalanced argument list")
	ErrIdentifierAtEnd   = token.NewError("identifier at end of input")
	ErrArrowMissingValue = token.NewError("assignment has no value")
	ErrMissingOperand    = token.NewError("operator is missing an operand")
	ErrArgumentsNotAList = token.NewError("call arguments are not a list")
	ErrUnexpectedToken   = token.NewError("unexpected token")
)

// Option configures a call to [Parse] or [ParseTokens].
type Option func(*parser)

// WithLogger sets the logger used for trace output. It is also passed to the
// lexer by [Parse].
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

type parser struct {
	toks   []token.Token
	pos    int
	logger log.Logger
}

// Parse tokenizes source and parses the result.
func Parse(source string, opts ...Option) (*ast.Node, error) {
	p := newParser(nil, opts...)

	toks, err := lexer.Tokenize(source, lexer.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}

	p.toks = toks

	return p.program()
}

// ParseTokens parses a token stream produced by [lexer.Tokenize].
//
// The result is always a [ast.TypeBlock] holding one node per statement.
// Nested blocks with a single statement are replaced by that statement and
// nested blocks with no statements are dropped.
func ParseTokens(toks []token.Token, opts ...Option) (*ast.Node, error) {
	return newParser(toks, opts...).program()
}

func newParser(toks []token.Token, opts ...Option) *parser {
	p := &parser{toks: toks}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *parser) program() (*ast.Node, error) {
	if p.eof() {
		return nil, ErrUnbalancedBlock.With(slog.String("reason", "no tokens"))
	}

	open := p.next()
	if open.Kind != token.BlockOpen {
		return nil, ErrUnexpectedToken.WithPosition(open.Pos).
			With(slog.String("token", open.String()),
				slog.String("expected", token.BlockOpen.String()))
	}

	root, err := p.block(open)
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		tok := p.next()
		if tok.Kind == token.BlockClose {
			return nil, ErrUnbalancedBlock.WithPosition(tok.Pos)
		}

		return nil, ErrUnexpectedToken.WithPosition(tok.Pos).
			With(slog.String("token", tok.String()))
	}

	p.logger.Trace("parsed",
		slog.Int("tokens", len(p.toks)),
		slog.Int("statements", len(root.Children)))

	return root, nil
}

// block parses the statements up to the BlockClose matching open.
func (p *parser) block(open token.Token) (*ast.Node, error) {
	var (
		seq []*ast.Node
		err error
	)

	for {
		if p.eof() {
			return nil, ErrUnbalancedBlock.WithPosition(open.Pos)
		}

		switch tok := p.peek(); tok.Kind {
		case token.BlockClose:
			p.next()

			return ast.NewBlock(seq...), nil

		case token.ArgsClose:
			return nil, ErrUnbalancedArgs.WithPosition(tok.Pos)
		}

		if seq, err = p.sequence(seq); err != nil {
			return nil, err
		}
	}
}

// list parses the expressions up to the ArgsClose matching open.
func (p *parser) list(open token.Token) (*ast.Node, error) {
	var (
		seq []*ast.Node
		err error
	)

	for {
		if p.eof() {
			return nil, ErrUnbalancedArgs.WithPosition(open.Pos)
		}

		switch tok := p.peek(); tok.Kind {
		case token.ArgsClose:
			p.next()

			return ast.NewList(seq...), nil

		case token.BlockClose:
			return nil, ErrUnbalancedArgs.WithPosition(open.Pos)
		}

		if seq, err = p.sequence(seq); err != nil {
			return nil, err
		}
	}
}

// sequence parses one node and appends it to seq. A binary operator instead
// replaces the last node of seq with the call it forms.
func (p *parser) sequence(seq []*ast.Node) ([]*ast.Node, error) {
	tok := p.peek()

	if tok.Kind != token.BinaryOperation && tok.Kind != token.LessThan {
		node, err := p.node()
		if err != nil {
			return nil, err
		}

		if node == nil {
			return seq, nil
		}

		return append(seq, node), nil
	}

	p.next()

	if len(seq) == 0 {
		return nil, ErrMissingOperand.WithPosition(tok.Pos).
			With(slog.String("operator", tok.Text), slog.String("side", "left"))
	}

	left := seq[len(seq)-1]

	right, err := p.operand(tok)
	if err != nil {
		return nil, err
	}

	return append(seq[:len(seq)-1], ast.NewCall(tok.Text, left, right)), nil
}

// operand parses the node following op. Reaching a closing token, or
// parsing only empty blocks, means the operand is missing.
func (p *parser) operand(op token.Token) (*ast.Node, error) {
	missing := ErrMissingOperand.WithPosition(op.Pos).
		With(slog.String("operator", op.Text), slog.String("side", "right"))

	if p.eof() {
		return nil, missing
	}

	switch p.peek().Kind {
	case token.BlockClose, token.ArgsClose, token.BinaryOperation, token.LessThan:
		return nil, missing
	}

	node, err := p.node()
	if err != nil {
		return nil, err
	}

	if node == nil {
		return nil, missing
	}

	return node, nil
}

// node parses a single node. It returns nil for a block with no statements.
func (p *parser) node() (*ast.Node, error) {
	tok := p.next()

	switch tok.Kind {
	case token.BlockOpen:
		b, err := p.block(tok)
		if err != nil {
			return nil, err
		}

		switch len(b.Children) {
		case 0:
			return nil, nil
		case 1:
			return b.Children[0], nil
		default:
			return b, nil
		}

	case token.ArgsOpen:
		return p.list(tok)

	case token.Identifier:
		return p.identifier(tok)

	case token.StringLiteral:
		return ast.NewValue(ast.Text(tok.Text)), nil

	case token.Number:
		return ast.NewValue(ast.Number(tok.Number)), nil

	case token.LambdaStart:
		body, err := p.operand(tok)
		if err != nil {
			return nil, err
		}

		return ast.NewLambda(body), nil

	case token.BlockClose:
		return nil, ErrUnbalancedBlock.WithPosition(tok.Pos)

	case token.ArgsClose:
		return nil, ErrUnbalancedArgs.WithPosition(tok.Pos)

	case token.BinaryOperation, token.LessThan:
		return nil, ErrMissingOperand.WithPosition(tok.Pos).
			With(slog.String("operator", tok.Text), slog.String("side", "left"))

	default:
		return nil, ErrUnexpectedToken.WithPosition(tok.Pos).
			With(slog.String("token", tok.String()))
	}
}

// identifier parses what follows an identifier: an assignment, a call, or
// nothing (a variable reference).
func (p *parser) identifier(name token.Token) (*ast.Node, error) {
	if p.eof() {
		return nil, ErrIdentifierAtEnd.WithPosition(name.Pos).
			With(slog.String("name", name.Text))
	}

	switch p.peek().Kind {
	case token.StorageArrow:
		arrow := p.next()
		missing := ErrArrowMissingValue.WithPosition(arrow.Pos).
			With(slog.String("name", name.Text))

		if p.eof() {
			return nil, missing
		}

		value, err := p.node()
		if err != nil {
			return nil, err
		}

		if value == nil {
			return nil, missing
		}

		return ast.NewAssign(name.Text, value), nil

	case token.ArgsOpen:
		args, err := p.node()
		if err != nil {
			return nil, err
		}

		if args == nil || args.Type != ast.TypeList {
			return nil, ErrArgumentsNotAList.WithPosition(name.Pos).
				With(slog.String("name", name.Text))
		}

		return ast.NewCall(name.Text, args.Children...), nil

	default:
		return ast.NewVar(name.Text), nil
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token.Token { return p.toks[p.pos] }

func (p *parser) next() token.Token {
	tok := p.toks[p.pos]
	p.pos++

	return tok
}
