package specialize

import "github.com/tapelang/tmc/ast"

// Env is a chain of binding frames, one per let group / lambda
// application / Y body, mirroring the lexical nesting of the source.
// Frames are mutable at construction time only, which is what lets a
// let group build its own frame before any of its bindings are forced
// (mutual recursion within the group).
type Env struct {
	parent *Env
	vars   map[string]*cell
}

func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]*cell)}
}

func (e *Env) Bind(name string, c *cell) { e.vars[name] = c }

func (e *Env) Lookup(name string) (*cell, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if c, ok := cur.vars[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// cell is a call-by-need thunk: an unevaluated (expr, env) pair that
// forces to a Value at most once, memoizing the result per binding.
type cell struct {
	expr   ast.Expr
	env    *Env
	forced bool
	value  Value
	err    error
}

func newLazyCell(expr ast.Expr, env *Env) *cell { return &cell{expr: expr, env: env} }

func newForcedCell(v Value) *cell { return &cell{forced: true, value: v} }

func (c *cell) Force(s *Specializer) (Value, error) {
	if c.forced {
		return c.value, c.err
	}
	// Mark forced before recursing so a self-referential thunk (a let
	// binding whose value mentions its own name outside any Y) can't
	// re-enter Force and recurse at the Go level. The Y machinery binds
	// the recursive name to an already-forced cell instead.
	c.forced = true
	c.value, c.err = s.evalExpr(c.expr, c.env)
	return c.value, c.err
}
