package lang

import (
	"context"
	"log/slog"

	"github.com/cedric-h/spoodly/lang/ast"
)

// Session interprets a sequence of programs that share their top-level
// bindings, as an interactive prompt does. Each program still evaluates
// braced blocks in scopes of their own.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg   config
	eval  *Evaluator
	scope Handle
	runs  int
}

// NewSession returns a Session whose programs run in a scope enclosed by a
// copy of root.
func NewSession(root *Context, opts ...Option) *Session {
	e := NewEvaluator(root, opts...)

	return &Session{
		cfg:   makeConfig(opts...),
		eval:  e,
		scope: e.newScope(Root),
	}
}

// Run parses source and evaluates its statements in the session scope.
// Bindings made before a hard error are kept.
func (s *Session) Run(ctx context.Context, source string) (Var, error) {
	tree, err := Parse(source, WithLogger(s.cfg.logger))
	if err != nil {
		return Var{}, err
	}

	s.runs++

	body := tree
	if tree.Type == ast.TypeBlock {
		body = ast.NewList(tree.Children...)
	}

	result, err := s.eval.Eval(ctx, body, s.scope)
	if err != nil {
		return Var{}, err
	}

	s.cfg.logger.DebugContext(ctx, "session run complete",
		slog.Int("run", s.runs),
		slog.Int("scopes", s.eval.Len()),
		slog.Any("result", result))

	return result, nil
}

// Names returns the names bound by earlier runs in sorted order.
func (s *Session) Names() []string {
	c, _ := s.eval.Scope(s.scope)

	return c.Names()
}

// Lookup resolves name as the next run would.
func (s *Session) Lookup(name string) (Var, error) {
	return s.eval.Lookup(name, s.scope)
}
