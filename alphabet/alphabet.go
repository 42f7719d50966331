// Package alphabet implements the canonical symbol-set representation
// (Σ, unions, and set algebra over them) used throughout the compiler.
//
// The interning scheme mirrors a stable small integer key assigned
// once per distinct string, generalized here to per-alphabet symbol
// indices: every Alphabet assigns each of its symbols a stable bit
// position, so a Union is just a uint64 bitset. This caps an alphabet
// at 64 symbols including the blank -- New rejects anything larger
// rather than falling back to a slower representation, a deliberate
// scope limit rather than an oversight (see DESIGN.md).
package alphabet

import (
	"fmt"
	"sort"
	"strings"
)

// Blank is the distinguished blank symbol, always present in Σ.
const Blank byte = 0

// Alphabet is a finite, ordered set of tape symbols including the
// blank. Index 0 always names Blank.
type Alphabet struct {
	syms  []byte
	index map[byte]int
}

// New builds an Alphabet from the user-supplied symbols (Σ \ {blank}),
// adding the blank implicitly. Returns an error if a symbol is not a
// single printable non-whitespace character, or collides with the
// reserved blank/placeholder characters.
func New(symbols []byte) (*Alphabet, error) {
	seen := make(map[byte]bool, len(symbols)+1)
	a := &Alphabet{index: make(map[byte]int, len(symbols)+1)}

	add := func(c byte) {
		if seen[c] {
			return
		}
		seen[c] = true
		a.index[c] = len(a.syms)
		a.syms = append(a.syms, c)
	}

	add(Blank)
	for _, c := range symbols {
		if c == Blank {
			continue
		}
		if c <= ' ' || c == 0x7f {
			return nil, fmt.Errorf("alphabet symbol %q is not printable", c)
		}
		if c == '_' {
			return nil, PlaceholderCollisionError{Symbol: c, With: "blank (`_`)"}
		}
		if c == '*' {
			return nil, PlaceholderCollisionError{Symbol: c, With: "wildcard compaction (`*`)"}
		}
		add(c)
	}
	if len(a.syms) > 64 {
		return nil, fmt.Errorf("alphabet has %d symbols, more than the 64-symbol bitset limit", len(a.syms))
	}
	return a, nil
}

// PlaceholderCollisionError reports an alphabet symbol reserved for
// awmorp's own notation (the blank `_` or the compaction wildcard `*`).
type PlaceholderCollisionError struct {
	Symbol byte
	With   string
}

func (e PlaceholderCollisionError) Error() string {
	return fmt.Sprintf("symbol %q collides with reserved %s", e.Symbol, e.With)
}

// Len returns |Σ|, including the blank.
func (a *Alphabet) Len() int { return len(a.syms) }

// Symbols returns Σ in canonical (insertion) order, blank first.
func (a *Alphabet) Symbols() []byte { return append([]byte(nil), a.syms...) }

// Contains reports whether c is in Σ.
func (a *Alphabet) Contains(c byte) bool {
	_, ok := a.index[c]
	return ok
}

// Index returns c's bit position, or -1 if c is not in Σ.
func (a *Alphabet) Index(c byte) int {
	if i, ok := a.index[c]; ok {
		return i
	}
	return -1
}

// Symbol returns the symbol at bit position i.
func (a *Alphabet) Symbol(i int) byte { return a.syms[i] }

// Union is a canonical, comparable subset of an Alphabet's symbols.
// Equal unions compare == in Go, which is what makes structural
// equality of AST/IR nodes built from Unions decidable without a
// special-cased Equals method.
type Union uint64

// Empty returns the empty union.
func (a *Alphabet) Empty() Union { return 0 }

// Full returns Σ as a union (the `any` wildcard).
func (a *Alphabet) Full() Union {
	if n := len(a.syms); n < 64 {
		return Union(uint64(1)<<uint(n) - 1)
	}
	return ^Union(0)
}

// Single returns the one-symbol union for c, or the empty union if c
// is not in Σ.
func (a *Alphabet) Single(c byte) Union {
	i := a.Index(c)
	if i < 0 {
		return 0
	}
	return Union(1) << uint(i)
}

// Add returns u with bit i set.
func (u Union) Add(i int) Union {
	if i < 0 {
		return u
	}
	return u | Union(1)<<uint(i)
}

// Has reports whether bit i is set.
func (u Union) Has(i int) bool { return u&(Union(1)<<uint(i)) != 0 }

// UnionContains reports whether c, under a, is a member of u.
func (a *Alphabet) UnionContains(u Union, c byte) bool {
	i := a.Index(c)
	return i >= 0 && u.Has(i)
}

// Union, Intersect, Difference, Complement: plain set algebra, used
// by the specializer for match-arm overlap detection (AmbiguousMatch)
// and by the graph builder for default-arm / alphabet completion.
func (u Union) Union(v Union) Union        { return u | v }
func (u Union) Intersect(v Union) Union    { return u & v }
func (u Union) Difference(v Union) Union   { return u &^ v }
func (a *Alphabet) Complement(u Union) Union { return u ^ a.Full() }

// IsEmpty reports whether u has no members.
func (u Union) IsEmpty() bool { return u == 0 }

// Count returns the number of members of u.
func (u Union) Count() int {
	n := 0
	for u != 0 {
		u &= u - 1
		n++
	}
	return n
}

// Members returns u's members, in Σ's canonical order.
func (a *Alphabet) Members(u Union) []byte {
	var out []byte
	for i, c := range a.syms {
		if u.Has(i) {
			out = append(out, c)
		}
	}
	return out
}

// String renders u as a sorted, human-readable symbol class, e.g.
// "{0,1}" or "any" when u == Σ.
func (a *Alphabet) String(u Union) string {
	if u == a.Full() {
		return "any"
	}
	syms := a.Members(u)
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range syms {
		if i > 0 {
			sb.WriteByte(',')
		}
		if c == Blank {
			sb.WriteByte('_')
		} else {
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('}')
	return sb.String()
}
