// Package ir defines the tape-IR: the tiny imperative instruction set
// that package specialize compiles source expressions down to, and
// that package graph lowers into Turing-machine transitions.
//
// A tape-IR node describes one step of single-tape machine behavior:
// move the head, read the symbol under it, write a symbol, branch on
// the symbol under the head, call a named transformer, sequence two
// nodes, or halt. Every Branch must be total over Σ; package
// specialize is responsible for completing partial matches before a
// Branch node is ever constructed, so no IR consumer needs to
// re-check totality on its own.
package ir

import (
	"fmt"
	"strings"

	"github.com/tapelang/tmc/alphabet"
)

// Node is the tagged-variant interface implemented by every tape-IR
// instruction.
type Node interface {
	irNode()
}

// MoveLeft moves the head one cell left.
type MoveLeft struct{}

// MoveRight moves the head one cell right.
type MoveRight struct{}

// Read yields the symbol currently under the head. Package specialize
// never emits it (a Branch performs its own read); package graph
// lowers a standalone Read as a no-op.
type Read struct{}

// Write writes Sym under the head.
type Write struct{ Sym byte }

// Seq runs First, then Second.
type Seq struct{ First, Second Node }

// Branch reads the symbol under the head and continues with the arm
// whose Cases entry contains it. Cases must partition Σ exactly once
// each (every symbol in exactly one case) by the time a Branch reaches
// package graph; Cases is ordered for deterministic emission but arms
// do not overlap once built.
type Branch struct {
	Cases []Case
}

// Case is one arm of a Branch: the set of read symbols that select
// Then.
type Case struct {
	Symbols alphabet.Union
	Then    Node
}

// Call invokes the named transformer and continues, on return, with
// whatever follows the Call in its enclosing Seq. Name identifies a
// transformer produced by package specialize for a Y-bound or
// otherwise shared subroutine; package graph splices Call sites into
// real machine-state jumps (with continuation states for non-tail
// calls).
type Call struct{ Name string }

// Halt stops the machine. Accept marks the well-formed termination
// case; Accept == false marks the synthesized reject-halt used to
// complete a Branch over symbols the source program's match left
// unhandled.
type Halt struct{ Accept bool }

func (MoveLeft) irNode()  {}
func (MoveRight) irNode() {}
func (Read) irNode()      {}
func (Write) irNode()     {}
func (Seq) irNode()       {}
func (Branch) irNode()    {}
func (Call) irNode()      {}
func (Halt) irNode()      {}

// Transformer is one named, compiled unit of tape-IR: the body a Y
// binding (or a builtin-derived helper) specializes down to, callable
// by name from a Call node.
type Transformer struct {
	Name string
	Body Node
}

// Program is the complete specializer output: every transformer that
// was reached from Entry, plus the entry point itself.
type Program struct {
	Entry        Node
	Transformers map[string]*Transformer
}

// String renders n for debugging (-dump-ir), one line per node with
// child nodes indented beneath Seq/Branch.
func String(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node, depth int) {
	indent := func() {
		for i := 0; i < depth; i++ {
			sb.WriteString("  ")
		}
	}
	indent()
	switch n := n.(type) {
	case MoveLeft:
		sb.WriteString("move-left\n")
	case MoveRight:
		sb.WriteString("move-right\n")
	case Read:
		sb.WriteString("read\n")
	case Write:
		fmt.Fprintf(sb, "write %q\n", n.Sym)
	case Seq:
		sb.WriteString("seq\n")
		writeNode(sb, n.First, depth+1)
		writeNode(sb, n.Second, depth+1)
	case Branch:
		sb.WriteString("branch\n")
		for _, c := range n.Cases {
			indent()
			fmt.Fprintf(sb, "  case %v:\n", c.Symbols)
			writeNode(sb, c.Then, depth+2)
		}
	case Call:
		fmt.Fprintf(sb, "call %s\n", n.Name)
	case Halt:
		if n.Accept {
			sb.WriteString("halt\n")
		} else {
			sb.WriteString("halt-reject\n")
		}
	default:
		fmt.Fprintf(sb, "<unknown ir node %T>\n", n)
	}
}
