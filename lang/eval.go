package lang

import (
	"context"
	"log/slog"

	"github.com/cedric-h/spoodly/lang/ast"
	"github.com/cedric-h/spoodly/log"
)

// Evaluator walks syntax trees. It owns every [Context] created while
// evaluating, addressed by [Handle]. Contexts are created on block entry and
// never reclaimed, so an Evaluator should be used for a single program run.
//
// An Evaluator is not safe for concurrent use. Programs that run at the same
// time need an Evaluator each.
type Evaluator struct {
	arena  []*Context
	logger log.Logger
}

// NewEvaluator returns an Evaluator whose [Root] context is a copy of root.
// A nil root starts empty. Later changes to root are not observed.
func NewEvaluator(root *Context, opts ...Option) *Evaluator {
	cfg := makeConfig(opts...)

	if root == nil {
		root = NewContext()
	}

	seed := root.Clone()
	seed.parent = NoParent

	return &Evaluator{
		arena:  []*Context{seed},
		logger: cfg.logger,
	}
}

// Len returns the number of contexts created so far, including the root.
func (e *Evaluator) Len() int { return len(e.arena) }

// Scope returns the context addressed by h.
func (e *Evaluator) Scope(h Handle) (*Context, bool) {
	if h < 0 || int(h) >= len(e.arena) {
		return nil, false
	}

	return e.arena[h], true
}

// NewScope creates an empty context enclosed by parent.
func (e *Evaluator) NewScope(parent Handle) (Handle, error) {
	if _, ok := e.Scope(parent); !ok {
		return NoParent, ErrInvalidScope.With(slog.Int("handle", int(parent)))
	}

	return e.newScope(parent), nil
}

func (e *Evaluator) newScope(parent Handle) Handle {
	e.arena = append(e.arena, &Context{vars: map[string]Var{}, parent: parent})
	h := Handle(len(e.arena) - 1)

	e.logger.Trace("new scope",
		slog.Int("scope", int(h)),
		slog.Int("parent", int(parent)))

	return h
}

// Lookup resolves name starting at scope and walking outward through the
// enclosing scopes.
func (e *Evaluator) Lookup(name string, scope Handle) (Var, error) {
	if _, ok := e.Scope(scope); !ok {
		return Var{}, ErrInvalidScope.With(slog.Int("handle", int(scope)))
	}

	for h := scope; h != NoParent; h = e.arena[h].parent {
		if v, ok := e.arena[h].vars[name]; ok {
			return v, nil
		}
	}

	return Var{}, ErrUnknownIdentifier.With(slog.String("name", name))
}

// Assign binds name to v in scope itself, shadowing any binding of an
// enclosing scope.
func (e *Evaluator) Assign(scope Handle, name string, v Var) error {
	c, ok := e.Scope(scope)
	if !ok {
		return ErrInvalidScope.With(slog.Int("handle", int(scope)))
	}

	c.vars[name] = v

	e.logger.Trace("assign",
		slog.String("name", name),
		slog.Int("scope", int(scope)),
		slog.Any("value", v))

	return nil
}

// Eval evaluates node in scope.
//
// A block evaluates its statements in a new scope enclosed by scope, and a
// list evaluates its elements in scope itself. Both yield the values of
// their non-assignment children: a single value as is, otherwise a list.
// The first hard error aborts evaluation.
func (e *Evaluator) Eval(ctx context.Context, node *ast.Node, scope Handle) (Var, error) {
	if _, ok := e.Scope(scope); !ok {
		return Var{}, ErrInvalidScope.With(slog.Int("handle", int(scope)))
	}

	return e.eval(ctx, node, scope)
}

// Force evaluates the body of lambda v in scope.
func (e *Evaluator) Force(ctx context.Context, v Var, scope Handle) (Var, error) {
	if v.Kind != KindLambda {
		return Var{}, ErrNotLambda.With(slog.String("kind", v.Kind.String()))
	}

	return e.Eval(ctx, v.Lambda, scope)
}

func (e *Evaluator) eval(ctx context.Context, node *ast.Node, scope Handle) (Var, error) {
	if node == nil {
		return Var{}, ErrInvalidNode.With(slog.String("reason", "nil node"))
	}

	switch node.Type {
	case ast.TypeBlock:
		vals, err := e.sequence(ctx, node.Children, e.newScope(scope))
		if err != nil {
			return Var{}, err
		}

		return collapse(vals), nil

	case ast.TypeList:
		vals, err := e.sequence(ctx, node.Children, scope)
		if err != nil {
			return Var{}, err
		}

		return collapse(vals), nil

	case ast.TypeAssign:
		if err := e.assign(ctx, node, scope); err != nil {
			return Var{}, err
		}

		return NewList(), nil

	case ast.TypeCall:
		return e.call(ctx, node, scope)

	case ast.TypeVar:
		v, err := e.Lookup(node.Name, scope)
		if err != nil {
			return Var{}, err
		}

		if v.Kind != KindRaw {
			return Var{}, ErrUnsupportedVariableKind.With(
				slog.String("name", node.Name),
				slog.String("kind", v.Kind.String()))
		}

		return v, nil

	case ast.TypeValue:
		if node.Raw == nil {
			return Var{}, ErrInvalidNode.With(slog.String("reason", "value without literal"))
		}

		return NewRaw(*node.Raw), nil

	case ast.TypeLambda:
		return NewLambda(node.Value), nil

	default:
		return Var{}, ErrInvalidNode.With(slog.String("type", node.Type.String()))
	}
}

// sequence evaluates nodes in order within scope and returns the values of
// those that are not assignments.
func (e *Evaluator) sequence(
	ctx context.Context,
	nodes []*ast.Node,
	scope Handle,
) ([]Var, error) {
	vals := make([]Var, 0, len(nodes))

	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, ErrCanceled.Wrap(context.Cause(ctx))
		}

		if n != nil && n.Type == ast.TypeAssign {
			if err := e.assign(ctx, n, scope); err != nil {
				return nil, err
			}

			continue
		}

		v, err := e.eval(ctx, n, scope)
		if err != nil {
			return nil, err
		}

		vals = append(vals, v)
	}

	return vals, nil
}

func (e *Evaluator) assign(ctx context.Context, node *ast.Node, scope Handle) error {
	v, err := e.eval(ctx, node.Value, scope)
	if err != nil {
		return err
	}

	return e.Assign(scope, node.Name, v)
}

func (e *Evaluator) call(ctx context.Context, node *ast.Node, scope Handle) (Var, error) {
	vals, err := e.sequence(ctx, node.Children, scope)
	if err != nil {
		return Var{}, err
	}

	// The argument list collapses like any list, so a lone list argument is
	// spread into the call.
	args := vals
	if len(vals) == 1 && vals[0].Kind == KindList {
		args = vals[0].List
	}

	target, err := e.Lookup(node.Name, scope)
	if err != nil {
		return Var{}, err
	}

	if target.Kind != KindFunction || target.Function == nil {
		return Var{}, ErrNotCallable.With(
			slog.String("name", node.Name),
			slog.String("kind", target.Kind.String()))
	}

	e.logger.TraceContext(ctx, "call",
		slog.String("name", node.Name),
		slog.Int("scope", int(scope)),
		slog.Int("args", len(args)))

	return target.Function(args)
}

// collapse returns the only value of vals, or vals as a list.
func collapse(vals []Var) Var {
	if len(vals) == 1 {
		return vals[0]
	}

	return NewList(vals...)
}
