// Package emit serializes a built state graph (package graph) into the
// line-oriented awmorp transition-table format consumed by the
// reference web emulator: one line per transition, grouped by source
// state and sorted by read symbol, with `*` wildcard compaction
// applied wherever every remaining symbol of a state shares one
// transition.
package emit

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/graph"
	"github.com/tapelang/tmc/internal/flushio"
)

// Write renders g as an awmorp transition table over sigma, through a
// flushio.WriteFlusher wrapping the caller's destination (os.Stdout in
// cmd/tmc, a bytes.Buffer in tests).
func Write(w flushio.WriteFlusher, g *graph.Graph, sigma *alphabet.Alphabet) error {
	ordinary := ordinaryStates(g)

	for i, st := range ordinary {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("emit: %w", err)
			}
		}
		if err := writeState(w, st, sigma); err != nil {
			return err
		}
	}

	return w.Flush()
}

// ordinaryStates returns every non-halt state of g, ordered by its
// renumbered name (the start state, named "0", sorts first).
func ordinaryStates(g *graph.Graph) []*graph.State {
	var out []*graph.State
	for _, st := range g.States {
		if st.Accept || st.Reject {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, _ := strconv.Atoi(out[i].Name)
		nj, _ := strconv.Atoi(out[j].Name)
		return ni < nj
	})
	return out
}

func writeState(w flushio.WriteFlusher, st *graph.State, sigma *alphabet.Alphabet) error {
	groups := groupTransitions(st, sigma)

	def, rest := splitDefault(groups)
	type line struct {
		sym byte
		g   *transGroup
	}
	var lines []line
	for _, g := range rest {
		for _, sym := range g.symbols {
			lines = append(lines, line{sym, g})
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].sym < lines[j].sym })
	for _, l := range lines {
		if err := writeLine(w, st.Name, symCol(l.sym), l.g.writeCol(), l.g.trans.Move, l.g.trans.Next); err != nil {
			return err
		}
	}
	if def != nil {
		if err := writeLine(w, st.Name, "*", def.writeCol(), def.trans.Move, def.trans.Next); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w flushio.WriteFlusher, state, read, write string, move graph.Move, next *graph.State) error {
	_, err := fmt.Fprintf(w, "%s %s %s %s %s\n", state, read, write, move, next)
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return nil
}

// transGroup is one (Write, Move, Next) class of a state's transition
// function, together with every read symbol that shares it.
type transGroup struct {
	symbols     []byte
	trans       graph.Transition
	copyThrough bool
}

// writeCol renders the group's write column: `*` for copy-through
// (writing back whatever was read, morphett's shorthand for
// "unchanged"), the literal symbol otherwise.
func (g *transGroup) writeCol() string {
	if g.copyThrough {
		return "*"
	}
	return symCol(g.trans.Write)
}

// groupTransitions partitions st's transitions by (Write, Move, Next),
// treating a copy-through write (Write == the symbol read) as its own
// equivalence class distinct from any fixed literal write, since a
// copy-through group compacts to the `*`/`*` wildcard pair regardless
// of which symbols it covers.
func groupTransitions(st *graph.State, sigma *alphabet.Alphabet) []*transGroup {
	type key struct {
		copyThrough bool
		write       byte
		move        graph.Move
		next        *graph.State
	}
	index := map[key]*transGroup{}
	var order []key

	for _, sym := range sigma.Symbols() {
		t, ok := st.Trans[sym]
		if !ok {
			continue
		}
		copyThrough := t.Write == sym
		write := t.Write
		if copyThrough {
			// Normalize: the literal byte varies per symbol for a
			// copy-through transition, but that's exactly what makes
			// it one class, not many -- group on the *rule*, not the
			// byte.
			write = 0
		}
		k := key{copyThrough: copyThrough, write: write, move: t.Move, next: t.Next}
		g, seen := index[k]
		if !seen {
			g = &transGroup{trans: t, copyThrough: k.copyThrough}
			index[k] = g
			order = append(order, k)
		}
		g.symbols = append(g.symbols, sym)
	}

	groups := make([]*transGroup, len(order))
	for i, k := range order {
		groups[i] = index[k]
	}
	return groups
}

// splitDefault picks the largest multi-symbol group as the state's `*`
// default (ties broken by symbol-order of first appearance), returning
// it separately from the rest, which are emitted as explicit lines.
// A group of size 1 is never compacted -- `*` only stands in for
// symbols that would otherwise need their own line.
func splitDefault(groups []*transGroup) (def *transGroup, rest []*transGroup) {
	best := -1
	for i, g := range groups {
		if len(g.symbols) < 2 {
			continue
		}
		if best < 0 || len(g.symbols) > len(groups[best].symbols) {
			best = i
		}
	}
	if best < 0 {
		return nil, groups
	}
	for i, g := range groups {
		if i != best {
			rest = append(rest, g)
		}
	}
	return groups[best], rest
}

func symCol(sym byte) string {
	if sym == alphabet.Blank {
		return "_"
	}
	return string(sym)
}
