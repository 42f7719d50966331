package graph

import (
	"fmt"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/ir"
)

// Graph is the fully built, deduplicated, Σ-complete state machine,
// ready for package emit.
type Graph struct {
	Start  *State
	States []*State // all reachable states, start first, in a stable emission order
	Accept *State
	Reject *State
}

// UnresolvedCallError reports a Call node naming a transformer absent
// from the table -- package specialize never produces one, so this
// only fires against a hand-assembled ir.Program.
type UnresolvedCallError struct{ Name string }

func (e UnresolvedCallError) Error() string {
	return fmt.Sprintf("call to unknown transformer %q", e.Name)
}

type callKey struct {
	name string
	cont *State
}

type builder struct {
	prog   *ir.Program
	sigma  *alphabet.Alphabet
	accept *State
	reject *State

	resolved map[callKey]*State
	building map[callKey]*State
	err      error
}

// Build lowers prog to a Turing state graph over sigma.
func Build(prog *ir.Program, sigma *alphabet.Alphabet) (*Graph, error) {
	b := &builder{
		prog:     prog,
		sigma:    sigma,
		accept:   &State{Name: "halt", Accept: true},
		reject:   &State{Name: "halt-reject", Reject: true},
		resolved: map[callKey]*State{},
		building: map[callKey]*State{},
	}

	entry := b.build(prog.Entry, b.accept)
	if b.err != nil {
		return nil, b.err
	}

	states := reachable(entry, b.accept, b.reject)
	states = dedup(states, sigma)
	renumber(states)

	return &Graph{Start: entry, States: states, Accept: b.accept, Reject: b.reject}, nil
}

// build lowers node, threading cont as the state entered once node's
// own control flow falls off the end (the continuation of a Seq, or
// of a Call that returns into its caller).
func (b *builder) build(node ir.Node, cont *State) *State {
	if b.err != nil {
		return b.reject
	}
	switch n := node.(type) {
	case ir.Halt:
		if n.Accept {
			return b.accept
		}
		return b.reject

	case ir.Read:
		// A standalone Read is a no-op; it only ever appears as a
		// Branch's implicit scrutinee, already consumed by buildBranch.
		return cont

	case ir.Seq:
		after := b.build(n.Second, cont)
		return b.build(n.First, after)

	case ir.MoveLeft:
		return b.buildMove(Left, cont)

	case ir.MoveRight:
		return b.buildMove(Right, cont)

	case ir.Write:
		return b.buildWrite(n.Sym, cont)

	case ir.Branch:
		return b.buildBranch(n, cont)

	case ir.Call:
		return b.buildCall(n.Name, cont)

	default:
		b.err = fmt.Errorf("graph: unhandled tape-IR node %T", node)
		return b.reject
	}
}

func (b *builder) buildMove(m Move, cont *State) *State {
	st := newState()
	for _, sym := range b.sigma.Symbols() {
		st.Trans[sym] = Transition{Write: sym, Move: m, Next: cont}
	}
	return st
}

func (b *builder) buildWrite(sym byte, cont *State) *State {
	st := newState()
	for _, s := range b.sigma.Symbols() {
		st.Trans[s] = Transition{Write: sym, Move: None, Next: cont}
	}
	return st
}

// buildBranch lowers a Branch: the current state dispatches per
// symbol to the entry state of that symbol's case, writing the read
// symbol back unchanged (the dispatch itself never rewrites the
// tape).
func (b *builder) buildBranch(n ir.Branch, cont *State) *State {
	st := newState()
	for _, c := range n.Cases {
		then := b.build(c.Then, cont)
		for _, sym := range b.sigma.Members(c.Symbols) {
			st.Trans[sym] = Transition{Write: sym, Move: None, Next: then}
		}
	}
	return st
}

// buildCall splices a named transformer in, memoized on the
// (callee, continuation) pair so repeated calls with the same
// continuation -- the common tail-call case -- share one compiled
// subgraph, while calls needing a different continuation get their
// own copy.
func (b *builder) buildCall(name string, cont *State) *State {
	key := callKey{name, cont}
	if st, ok := b.resolved[key]; ok {
		return st
	}
	if st, ok := b.building[key]; ok {
		return st
	}

	transformer, ok := b.prog.Transformers[name]
	if !ok {
		b.err = UnresolvedCallError{Name: name}
		return b.reject
	}

	placeholder := newState()
	b.building[key] = placeholder
	entry := b.build(transformer.Body, cont)
	delete(b.building, key)
	if b.err != nil {
		return b.reject
	}

	placeholder.Trans = entry.Trans
	placeholder.Accept = entry.Accept
	placeholder.Reject = entry.Reject
	b.resolved[key] = placeholder
	return placeholder
}
