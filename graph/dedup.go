package graph

import (
	"fmt"
	"sort"

	"github.com/tapelang/tmc/alphabet"
)

// reachable walks the transition graph from start, returning every
// distinct *State object encountered (by pointer identity).
func reachable(start, accept, reject *State) []*State {
	seen := map[*State]bool{}
	var order []*State
	var visit func(*State)
	visit = func(st *State) {
		if seen[st] {
			return
		}
		seen[st] = true
		order = append(order, st)
		for _, sym := range sortedKeys(st.Trans) {
			visit(st.Trans[sym].Next)
		}
	}
	visit(start)
	_ = accept
	_ = reject
	return order
}

func sortedKeys(m map[byte]Transition) []byte {
	keys := make([]byte, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// dedup merges structurally identical states to a fixed point, via
// Moore-style partition refinement over Σ: two states are in the same
// class as long as their (Accept, Reject) flags agree and, for every
// symbol, they write the same symbol, move the same way, and their
// successor states are in the same class. Completion (filling in
// missing symbols with a copy-through transition to the reject halt)
// happens first, so every ordinary state's transition map is already
// total over sigma by the time classes are computed.
func dedup(states []*State, sigma *alphabet.Alphabet) []*State {
	complete(states, sigma)

	class := make(map[*State]int, len(states))
	for _, st := range states {
		class[st] = haltClass(st)
	}

	for {
		sig := make(map[*State]string, len(states))
		for _, st := range states {
			sig[st] = signature(st, class, sigma)
		}
		next := map[string]int{}
		changed := false
		newClass := make(map[*State]int, len(states))
		for _, st := range states {
			s := sig[st]
			id, ok := next[s]
			if !ok {
				id = len(next)
				next[s] = id
			}
			newClass[st] = id
			if id != class[st] {
				changed = true
			}
		}
		class = newClass
		if !changed {
			break
		}
	}

	// Pick one representative per class and rewrite every transition
	// to point at representatives, collapsing the rest.
	rep := map[int]*State{}
	for _, st := range states {
		c := class[st]
		if _, ok := rep[c]; !ok {
			rep[c] = st
		}
	}
	for _, st := range states {
		r := rep[class[st]]
		for sym, t := range r.Trans {
			t.Next = rep[class[t.Next]]
			r.Trans[sym] = t
		}
	}

	var out []*State
	seenClass := map[int]bool{}
	for _, st := range states {
		c := class[st]
		if seenClass[c] {
			continue
		}
		seenClass[c] = true
		out = append(out, rep[c])
	}
	return out
}

func haltClass(st *State) int {
	switch {
	case st.Accept:
		return -1
	case st.Reject:
		return -2
	default:
		return 0
	}
}

func signature(st *State, class map[*State]int, sigma *alphabet.Alphabet) string {
	if st.Accept {
		return "accept"
	}
	if st.Reject {
		return "reject"
	}
	s := ""
	for _, sym := range sigma.Symbols() {
		t, ok := st.Trans[sym]
		if !ok {
			s += fmt.Sprintf("%d:-;", sym)
			continue
		}
		s += fmt.Sprintf("%d:%d,%d,%d;", sym, t.Write, t.Move, class[t.Next])
	}
	return s
}

// complete fills every ordinary state's transition map to be total
// over sigma, mapping any symbol the builder left unhandled to the
// reject halt. Built correctly, every state specialize/graph produce
// is already total; this guards hand-assembled or future IR paths
// that aren't.
func complete(states []*State, sigma *alphabet.Alphabet) {
	var reject *State
	for _, st := range states {
		if st.Reject {
			reject = st
		}
	}
	if reject == nil {
		return
	}
	for _, st := range states {
		if st.Accept || st.Reject {
			continue
		}
		for _, sym := range sigma.Symbols() {
			if _, ok := st.Trans[sym]; !ok {
				st.Trans[sym] = Transition{Write: sym, Move: None, Next: reject}
			}
		}
	}
}

// renumber assigns the start state name "0" and sequential opaque
// names to the rest, leaving halt states named by their reserved
// names.
func renumber(states []*State) {
	n := 0
	for _, st := range states {
		if st.Accept || st.Reject {
			continue
		}
		st.Name = fmt.Sprintf("%d", n)
		n++
	}
}
