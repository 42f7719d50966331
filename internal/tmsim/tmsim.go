// Package tmsim is a minimal awmorp interpreter built for the test
// suite only: it loads an emitted transition table and runs it against
// a seeded tape, asserting on the final tape/head the way a compiled
// program's observed output is asserted on elsewhere.
package tmsim

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tapelang/tmc/internal/runeio"
)

type move int

const (
	left move = iota
	right
	stay
)

// copyThrough marks a rule whose write column was "*": write back
// whatever was read, rather than a literal byte.
const copyThrough byte = 0xff

type rule struct {
	write byte
	move  move
	next  string
}

// Table is a parsed awmorp transition table.
type Table struct {
	exact    map[string]map[byte]rule
	wildcard map[string]rule
}

// Parse reads awmorp text: lines of "state read write move next",
// blank lines ignored, matching what package emit writes.
func Parse(r io.Reader) (*Table, error) {
	tb := &Table{exact: map[string]map[byte]rule{}, wildcard: map[string]rule{}}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("tmsim: malformed line %q", line)
		}
		state, readCol, writeCol, moveCol, next := fields[0], fields[1], fields[2], fields[3], fields[4]

		var mv move
		switch moveCol {
		case "l":
			mv = left
		case "r":
			mv = right
		case "*":
			mv = stay
		default:
			return nil, fmt.Errorf("tmsim: unknown move %q", moveCol)
		}

		rl := rule{move: mv, next: next}
		if writeCol == "*" {
			rl.write = copyThrough
		} else {
			rl.write = symbolOf(writeCol)
		}

		if readCol == "*" {
			tb.wildcard[state] = rl
		} else {
			if tb.exact[state] == nil {
				tb.exact[state] = map[byte]rule{}
			}
			tb.exact[state][symbolOf(readCol)] = rl
		}
	}
	return tb, sc.Err()
}

func symbolOf(col string) byte {
	if col == "_" {
		return 0
	}
	return col[0]
}

// Machine is one run of a Table against a tape.
type Machine struct {
	table *Table
	tape  map[int]byte
	head  int
	state string
}

// New creates a Machine starting in state "0", the entry state awmorp
// convention names.
func New(table *Table) *Machine {
	return &Machine{table: table, tape: map[int]byte{}, state: "0"}
}

// Seed writes tape starting at cell 0.
func (m *Machine) Seed(tape []byte) {
	for i, b := range tape {
		m.tape[i] = b
	}
}

func (m *Machine) read() byte { return m.tape[m.head] }

// Step executes one transition, reporting whether the machine has
// halted (in either the accept or reject state).
func (m *Machine) Step() (halted bool, err error) {
	if m.state == "halt" || m.state == "halt-reject" {
		return true, nil
	}
	sym := m.read()
	rl, ok := m.table.exact[m.state][sym]
	if !ok {
		rl, ok = m.table.wildcard[m.state]
		if !ok {
			return false, fmt.Errorf("tmsim: state %q has no transition for %q", m.state, string(rune(sym)))
		}
	}
	write := rl.write
	if write == copyThrough {
		write = sym
	}
	m.tape[m.head] = write
	switch rl.move {
	case left:
		m.head--
	case right:
		m.head++
	}
	m.state = rl.next
	return m.state == "halt" || m.state == "halt-reject", nil
}

// Run steps the machine until it halts or maxSteps is exceeded, and
// reports whether it halted in the accept state.
func (m *Machine) Run(maxSteps int) (accepted bool, err error) {
	for i := 0; i < maxSteps; i++ {
		halted, err := m.Step()
		if err != nil {
			return false, err
		}
		if halted {
			return m.state == "halt", nil
		}
	}
	return false, fmt.Errorf("tmsim: did not halt within %d steps", maxSteps)
}

// Tape returns the tape contents over [lo, hi), blanks rendered as 0.
func (m *Machine) Tape(lo, hi int) []byte {
	out := make([]byte, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, m.tape[i])
	}
	return out
}

// Head returns the current head position.
func (m *Machine) Head() int { return m.head }

// String renders every cell from the lowest to the highest touched
// offset, through runeio.WriteANSIRune so a cell holding a C1 control
// byte (reachable here even though alphabet.Alphabet itself never
// admits one) prints in its 7-bit escape form; bytes below 0x80 are
// written as they are. An unwritten cell renders as "_", the awmorp
// blank (Tape returns it as 0).
func (m *Machine) String() string {
	lo, hi := m.head, m.head
	for i := range m.tape {
		if i < lo {
			lo = i
		}
		if i > hi {
			hi = i
		}
	}
	var buf bytes.Buffer
	for i := lo; i <= hi; i++ {
		b := m.tape[i]
		if b == 0 {
			buf.WriteByte('_')
			continue
		}
		runeio.WriteANSIRune(&buf, rune(b))
	}
	return buf.String()
}
