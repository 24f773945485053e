package lang

import "maps"

// Handle addresses a [Context] held by an [Evaluator].
type Handle int

const (
	// NoParent is the parent of a root context.
	NoParent Handle = -1
	// Root is the handle of the context an Evaluator is seeded with.
	Root Handle = 0
)

// Context is one lexical scope: bindings from identifier to value and the
// handle of the enclosing scope.
type Context struct {
	vars   map[string]Var
	parent Handle
}

// NewContext returns an empty root context.
func NewContext() *Context {
	return &Context{vars: map[string]Var{}, parent: NoParent}
}

// Set binds name to v, replacing any previous binding in c.
func (c *Context) Set(name string, v Var) *Context {
	c.vars[name] = v

	return c
}

// Get returns the value bound to name in c only.
func (c *Context) Get(name string) (Var, bool) {
	v, ok := c.vars[name]

	return v, ok
}

// Parent returns the handle of the enclosing scope, or [NoParent].
func (c *Context) Parent() Handle { return c.parent }

// Names returns the names bound in c in sorted order.
func (c *Context) Names() []string { return sortedKeys(c.vars) }

// Len returns the number of bindings in c.
func (c *Context) Len() int { return len(c.vars) }

// Clone returns a copy of c with the same parent.
func (c *Context) Clone() *Context {
	return &Context{vars: maps.Clone(c.vars), parent: c.parent}
}
