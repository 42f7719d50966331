// Package fileinput provides line/column-tracked rune input for a
// single source file, the way the lexer wants to read source text
// while still being able to report accurate token spans.
package fileinput

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tapelang/tmc/internal/runeio"
)

// Location names a line (and, mid-line, a column) in an Input file.
type Location struct {
	Name string
	Line int
	Col  int
}

// Line combines a Location along with a bytes.Buffer holding the
// scanned text of that line so far.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v:%v", loc.Name, loc.Line, loc.Col) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential rune reading over a single named source,
// tracking the current and last-completed line so callers can report
// precise (file, line, col) spans for any rune just read.
type Input struct {
	rr   runeio.Reader
	Last Line
	Scan Line
}

// New returns an Input reading from r, reporting name as every
// location's file name.
func New(name string, r io.Reader) *Input {
	in := &Input{}
	in.rr = runeio.NewReader(r)
	in.Scan.Name = name
	in.Scan.Line = 1
	in.Scan.Col = 0
	return in
}

// ReadRune reads one rune from the input stream, appending it into the
// current Scan line and rolling Scan over to Last after a line feed.
func (in *Input) ReadRune() (rune, int, error) {
	r, n, err := in.rr.ReadRune()
	if err != nil {
		return 0, n, err
	}
	if r == '\n' {
		in.nextLine()
	} else {
		in.Scan.WriteRune(r)
		in.Scan.Col++
	}
	return r, n, nil
}

// Loc returns the location of the rune that would be read next.
func (in *Input) Loc() Location {
	loc := in.Scan.Location
	loc.Col++
	return loc
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
	in.Scan.Col = 0
}
