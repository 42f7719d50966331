// Package specialize implements the heart of the compiler: it
// evaluates the resolved AST against a concrete alphabet, beta-reducing
// the higher-order source language down to first-order tape-IR and
// naming the recursive transformers introduced by Y.
package specialize

import (
	"fmt"
	"hash/maphash"
	"sort"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/ast"
	"github.com/tapelang/tmc/ir"
	"github.com/tapelang/tmc/resolve"
	"github.com/tapelang/tmc/token"
)

var builtinNames = map[string]bool{"next": true, "prev": true, "get": true, "set": true}

var builtinArity = map[string]int{"next": 1, "prev": 1, "get": 1, "set": 2}

// Specializer holds the state threaded through one compilation: the
// transformer table under construction, the Y memoization cache, and
// diagnostics configuration.
type Specializer struct {
	sigma   *alphabet.Alphabet
	strict  bool
	seed    maphash.Seed
	nextID  int
	cellIDs map[*cell]uint64
	cellSeq uint64

	transformers map[string]*ir.Transformer
	fixMemo      map[string]string
	warnings     []error
}

// Specialize evaluates prog's body under sigma, producing the
// compiled entry node and transformer table. strict promotes
// AmbiguousMatch from a warning to a fatal error.
func Specialize(prog *resolve.Program, sigma *alphabet.Alphabet, strict bool) (*ir.Program, []error, error) {
	s := &Specializer{
		sigma:        sigma,
		strict:       strict,
		seed:         maphash.MakeSeed(),
		cellIDs:      map[*cell]uint64{},
		transformers: map[string]*ir.Transformer{},
		fixMemo:      map[string]string{},
	}

	top := NewEnv(nil)
	for _, b := range prog.Bindings {
		if b.Symbol != nil {
			u, err := s.resolveUnion(b.Symbol, top)
			if err != nil {
				return nil, s.warnings, err
			}
			top.Bind(b.Name, newForcedCell(SymVal{U: u}))
			continue
		}
		top.Bind(b.Name, newLazyCell(b.Value, top))
	}

	bodyVal, err := s.evalExpr(prog.Body, top)
	if err != nil {
		return nil, s.warnings, err
	}
	// The program's body denotes a tape transformer: a function from
	// the entry tape cursor to the final result, the same shape as a
	// Y-bound transformer's body. Invoke it with the symbolic starting
	// cursor, same as evalFix does for each named transformer.
	if closure, ok := bodyVal.(ClosureVal); ok {
		bodyVal, err = s.apply(closure, newForcedCell(TapeVal{}), prog.Body)
		if err != nil {
			return nil, s.warnings, err
		}
	}
	entry, err := s.toNode(bodyVal, prog.Body.Span())
	if err != nil {
		return nil, s.warnings, err
	}

	return &ir.Program{Entry: entry, Transformers: s.transformers}, s.warnings, nil
}

func (s *Specializer) freshName() string {
	s.nextID++
	return fmt.Sprintf("t%d", s.nextID)
}

func (s *Specializer) cellID(c *cell) uint64 {
	if id, ok := s.cellIDs[c]; ok {
		return id
	}
	s.cellSeq++
	s.cellIDs[c] = s.cellSeq
	return s.cellSeq
}

// evalExpr evaluates e in env to a Value. It never itself produces
// IR; callers at terminal positions call toNode to coerce the result.
func (s *Specializer) evalExpr(e ast.Expr, env *Env) (Value, error) {
	switch e := e.(type) {
	case *ast.Literal:
		if !s.sigma.Contains(e.Sym) {
			return nil, AlphabetUnknownSymbolError{Span: e.Span(), Symbol: e.Sym}
		}
		return SymVal{U: s.sigma.Single(e.Sym)}, nil

	case *ast.Union:
		u, err := s.resolveUnion(e, env)
		if err != nil {
			return nil, err
		}
		return SymVal{U: u}, nil

	case *ast.Ident:
		if builtinNames[e.Name] {
			return BuiltinVal{Name: e.Name}, nil
		}
		c, ok := env.Lookup(e.Name)
		if !ok {
			return nil, fmt.Errorf("specialize: %v: %q did not resolve (internal error, resolve should have caught this)", e.Span(), e.Name)
		}
		return c.Force(s)

	case *ast.Lambda:
		return ClosureVal{Param: e.Param, Body: e.Body, Env: env}, nil

	case *ast.App:
		fn, err := s.evalExpr(e.Func, env)
		if err != nil {
			return nil, err
		}
		arg := newLazyCell(e.Arg, env)
		return s.apply(fn, arg, e)

	case *ast.Let:
		inner := NewEnv(env)
		for _, b := range e.Bindings {
			if b.Symbol != nil {
				u, err := s.resolveUnion(b.Symbol, inner)
				if err != nil {
					return nil, err
				}
				inner.Bind(b.Name, newForcedCell(SymVal{U: u}))
				continue
			}
			inner.Bind(b.Name, newLazyCell(b.Value, inner))
		}
		return s.evalExpr(e.Body, inner)

	case *ast.Fix:
		return s.evalFix(e, env)

	case *ast.Match:
		return s.evalMatch(e, env)

	default:
		return nil, fmt.Errorf("specialize: unhandled expression type %T", e)
	}
}

func (s *Specializer) apply(fn Value, arg *cell, exprSpan ast.Expr) (Value, error) {
	span := exprSpan.Span()
	switch fn := fn.(type) {
	case ClosureVal:
		inner := NewEnv(fn.Env)
		inner.Bind(fn.Param, arg)
		return s.evalExpr(fn.Body, inner)

	case BuiltinVal:
		argVal, err := arg.Force(s)
		if err != nil {
			return nil, err
		}
		args := append(append([]Value(nil), fn.Args...), argVal)
		if len(args) < builtinArity[fn.Name] {
			return BuiltinVal{Name: fn.Name, Args: args}, nil
		}
		return s.applyBuiltin(fn.Name, args, span)

	case CallSelfVal:
		argVal, err := arg.Force(s)
		if err != nil {
			return nil, err
		}
		argNode, err := s.asTapeNode(argVal, span)
		if err != nil {
			return nil, err
		}
		return TapeVal{Node: seq(argNode, ir.Call{Name: fn.Name})}, nil

	default:
		return nil, NonReducibleError{Span: span, Reason: "applied a value that is not a function"}
	}
}

func (s *Specializer) applyBuiltin(name string, args []Value, span token.Span) (Value, error) {
	switch name {
	case "next":
		n, err := s.asTapeNode(args[0], span)
		if err != nil {
			return nil, err
		}
		return TapeVal{Node: seq(n, ir.MoveRight{})}, nil

	case "prev":
		n, err := s.asTapeNode(args[0], span)
		if err != nil {
			return nil, err
		}
		return TapeVal{Node: seq(n, ir.MoveLeft{})}, nil

	case "get":
		n, err := s.asTapeNode(args[0], span)
		if err != nil {
			return nil, err
		}
		return DynVal{Node: n}, nil

	case "set":
		sv, ok := args[0].(SymVal)
		if !ok || sv.U.Count() != 1 {
			return nil, NonReducibleError{Span: span, Reason: "set requires a single literal symbol as its first argument"}
		}
		n, err := s.asTapeNode(args[1], span)
		if err != nil {
			return nil, err
		}
		return TapeVal{Node: seq(n, ir.Write{Sym: s.sigma.Members(sv.U)[0]})}, nil

	default:
		return nil, fmt.Errorf("specialize: unknown builtin %q", name)
	}
}

// asTapeNode coerces v, used in tape-cursor argument position, to its
// accumulated node chain.
func (s *Specializer) asTapeNode(v Value, span token.Span) (ir.Node, error) {
	switch v := v.(type) {
	case TapeVal:
		return v.Node, nil
	default:
		return nil, NonReducibleError{Span: span, Reason: "expected a tape cursor value here"}
	}
}

// resolveUnion resolves a parsed union/pattern to a concrete
// alphabet.Union, substituting alias identifiers and rejecting symbols
// outside Σ.
func (s *Specializer) resolveUnion(u *ast.Union, env *Env) (alphabet.Union, error) {
	if u.AliasName != "" {
		c, ok := env.Lookup(u.AliasName)
		if !ok {
			return 0, fmt.Errorf("specialize: %v: alias %q did not resolve", u.Span(), u.AliasName)
		}
		v, err := c.Force(s)
		if err != nil {
			return 0, err
		}
		sv, ok := v.(SymVal)
		if !ok {
			return 0, NonReducibleError{Span: u.Span(), Reason: fmt.Sprintf("%q is not a symbol alias", u.AliasName)}
		}
		return sv.U, nil
	}
	if u.IsAny {
		return s.sigma.Full(), nil
	}
	for _, c := range u.Syms {
		if !s.sigma.Contains(c) {
			return 0, AlphabetUnknownSymbolError{Span: u.Span(), Symbol: c}
		}
	}
	return u.Resolve(s.sigma), nil
}

// toNode coerces a terminal-position Value to tape-IR, appending an
// implicit accept-halt when v's accumulated sequence doesn't already
// end in a terminal node.
func (s *Specializer) toNode(v Value, span token.Span) (ir.Node, error) {
	switch v := v.(type) {
	case SymVal:
		if v.U.Count() != 1 {
			return nil, NonReducibleError{Span: span, Reason: "a multi-symbol union cannot be a terminal value"}
		}
		sym := s.sigma.Members(v.U)[0]
		return ir.Halt{Accept: sym != '0'}, nil

	case TapeVal:
		if v.Node == nil {
			return ir.Halt{Accept: true}, nil
		}
		return appendHalt(v.Node), nil

	case DynVal:
		return nil, NonReducibleError{Span: span, Reason: "a tape read (`get`) must be used as a match scrutinee, not a bare terminal value"}

	case ClosureVal:
		return nil, NonReducibleError{Span: span, Reason: "an unapplied lambda escaped into the tape-IR"}

	case BuiltinVal:
		return nil, NonReducibleError{Span: span, Reason: "a partially applied primitive escaped into the tape-IR"}

	case CallSelfVal:
		return ir.Call{Name: v.Name}, nil

	default:
		return nil, fmt.Errorf("specialize: unhandled value type %T", v)
	}
}

func isTerminal(n ir.Node) bool {
	switch n := n.(type) {
	case ir.Branch, ir.Call, ir.Halt:
		return true
	case ir.Seq:
		return isTerminal(n.Second)
	default:
		return false
	}
}

func appendHalt(n ir.Node) ir.Node {
	if isTerminal(n) {
		return n
	}
	return ir.Seq{First: n, Second: ir.Halt{Accept: true}}
}

// evalFix specializes a Y expression: it allocates (or reuses, via
// fixMemo) a stable transformer name, binds the recursive name to a
// call on that transformer, and compiles the body exactly once.
func (s *Specializer) evalFix(e *ast.Fix, env *Env) (Value, error) {
	lambda, ok := e.Body.(*ast.Lambda)
	if !ok {
		return nil, fmt.Errorf("specialize: %v: Y body must be a lambda over the tape cursor", e.Span())
	}

	key := s.fixKey(e, env)
	if name, ok := s.fixMemo[key]; ok {
		return CallSelfVal{Name: name}, nil
	}

	name := s.freshName()
	s.fixMemo[key] = name
	s.transformers[name] = &ir.Transformer{Name: name}

	bodyEnv := NewEnv(env)
	bodyEnv.Bind(e.Param, newForcedCell(CallSelfVal{Name: name}))
	innerEnv := NewEnv(bodyEnv)
	innerEnv.Bind(lambda.Param, newForcedCell(TapeVal{}))

	bodyVal, err := s.evalExpr(lambda.Body, innerEnv)
	if err != nil {
		return nil, err
	}
	bodyNode, err := s.toNode(bodyVal, lambda.Body.Span())
	if err != nil {
		return nil, err
	}
	s.transformers[name].Body = bodyNode

	return CallSelfVal{Name: name}, nil
}

// fixKey fingerprints a Y expression by its AST identity plus the
// cell identity of every free variable it captures from env, so two
// specializations of the same Y node with referentially identical
// captured bindings share one transformer, which is what keeps
// compilation terminating on recursive definitions. Cell identity is a sound
// approximation of structural equality here: two evaluations only
// ever share a cell when they trace back to the same let binding.
func (s *Specializer) fixKey(e *ast.Fix, env *Env) string {
	var h maphash.Hash
	h.SetSeed(s.seed)
	fmt.Fprintf(&h, "%p|", e)

	names := freeVarsOfFix(e)
	sort.Strings(names)
	for _, n := range names {
		c, ok := env.Lookup(n)
		if !ok {
			continue
		}
		fmt.Fprintf(&h, "%s=%d;", n, s.cellID(c))
	}
	return fmt.Sprintf("%x", h.Sum64())
}
