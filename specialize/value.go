package specialize

import (
	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/ast"
	"github.com/tapelang/tmc/ir"
)

// Value is the tagged-variant interface for everything the specializer
// can produce while evaluating an expression. Only SymVal, TapeVal and
// CallSelfVal are legal once evaluation reaches a terminal position;
// a DynVal (legal only as a match scrutinee), a ClosureVal or a
// partially-applied BuiltinVal escaping that far is NonReducible.
type Value interface{ valueNode() }

// SymVal is a statically known symbol or union, e.g. a literal, a
// resolved alias, or the result of a static match.
type SymVal struct{ U alphabet.Union }

// ClosureVal is an unapplied lambda plus its captured environment.
type ClosureVal struct {
	Param string
	Body  ast.Expr
	Env   *Env
}

// BuiltinVal is a partially applied tape primitive (next, prev, get,
// set), accumulating arguments until it reaches the primitive's
// arity.
type BuiltinVal struct {
	Name string
	Args []Value
}

// TapeVal is the accumulated tape-IR built so far along one thread of
// evaluation: the sequence of MoveLeft/MoveRight/Write/Call nodes
// produced by tape primitives applied in evaluation order. A nil Node
// denotes the symbolic starting cursor, i.e. the empty sequence.
type TapeVal struct{ Node ir.Node }

// DynVal is the result of `get`: a symbol whose value is not known
// until runtime. It is legal only as the immediate scrutinee of a
// match, which compiles it to a Branch; Node is the accumulated
// sequence up to the read point. No Read node is added: the Branch
// itself reads the symbol under the head.
type DynVal struct{ Node ir.Node }

// CallSelfVal is the value bound to a Y-bound name inside its own
// body: a reference to the named transformer the Y is compiling into.
type CallSelfVal struct{ Name string }

func (SymVal) valueNode()      {}
func (ClosureVal) valueNode()  {}
func (BuiltinVal) valueNode()  {}
func (TapeVal) valueNode()     {}
func (DynVal) valueNode()      {}
func (CallSelfVal) valueNode() {}

// seq appends b after a, skipping the append entirely when a is the
// empty (nil) sequence so chains built up from the symbolic starting
// cursor don't accumulate spurious Seq wrappers.
func seq(a, b ir.Node) ir.Node {
	if a == nil {
		return b
	}
	return ir.Seq{First: a, Second: b}
}
