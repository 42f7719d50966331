// Package dump implements the compiler's -dump-ir and -dump-graph
// debug output: an incremental Fprintf-then-flush writer rather than
// building the whole report in memory first.
package dump

import (
	"fmt"
	"io"
	"sort"

	"github.com/tapelang/tmc/graph"
	"github.com/tapelang/tmc/internal/flushio"
	"github.com/tapelang/tmc/internal/runeio"
	"github.com/tapelang/tmc/ir"
)

// IR writes prog's entry node and every named transformer it reaches,
// each rendered with ir.String, to w.
func IR(w io.Writer, prog *ir.Program) error {
	wf := flushio.NewWriteFlusher(w)
	fmt.Fprintf(wf, "# IR Dump\n")
	fmt.Fprintf(wf, "entry:\n%s", indent(ir.String(prog.Entry)))

	names := make([]string, 0, len(prog.Transformers))
	for name := range prog.Transformers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := prog.Transformers[name]
		fmt.Fprintf(wf, "transformer %s:\n%s", name, indent(ir.String(t.Body)))
	}
	return wf.Flush()
}

func indent(s string) string {
	var out []byte
	atLineStart := true
	for i := 0; i < len(s); i++ {
		if atLineStart {
			out = append(out, ' ', ' ')
			atLineStart = false
		}
		out = append(out, s[i])
		if s[i] == '\n' {
			atLineStart = true
		}
	}
	return string(out)
}

// Graph writes every reachable state of g, one per symbol in sigma's
// order, as "state read -> write move next" lines -- the uncompacted
// form of what emit.Write renders as awmorp text, useful for seeing
// the table before dedup's partition-refinement classes are folded
// into the final wildcard compaction.
func Graph(w io.Writer, g *graph.Graph, sigma []byte) error {
	wf := flushio.NewWriteFlusher(w)
	fmt.Fprintf(wf, "# Graph Dump\n")
	fmt.Fprintf(wf, "  start: %s\n", g.Start)
	for _, st := range g.States {
		if st.Accept || st.Reject {
			continue
		}
		fmt.Fprintf(wf, "state %s:\n", st.Name)
		for _, sym := range sigma {
			t, ok := st.Trans[sym]
			if !ok {
				continue
			}
			read := symLabel(sym)
			fmt.Fprintf(wf, "  %s -> write %s, move %s, goto %s\n",
				read, symLabel(t.Write), t.Move, t.Next)
		}
	}
	return wf.Flush()
}

// symLabel renders an alphabet symbol for -dump-graph. Blank is "_";
// any other symbol goes through runeio.Label, which gives a control
// byte its caret form instead of a raw byte. alphabet.New admits no
// control symbols, so in practice every non-blank symbol prints as
// itself.
func symLabel(sym byte) string {
	if sym == 0 {
		return "_"
	}
	return runeio.Label(rune(sym))
}
