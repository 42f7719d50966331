package runeio

import (
	"bufio"
	"io"
)

// Reader is an io.Reader that also supports reading runes.
type Reader interface {
	io.Reader
	io.RuneReader
}

// NewReader returns a Reader from r; if r already implements, it is simply returned.
// Otherwise bufio.Reader is used to provide rune reading around the given reader.
//
// Unlike a generic line scanner, fileinput.Input always carries its own
// file name explicitly (from resolve.Loader's own path bookkeeping)
// rather than asking the wrapped reader for one, so NewReader has no
// need to special-case a Name() string method on r.
func NewReader(r io.Reader) Reader {
	if impl, ok := r.(Reader); ok {
		return impl
	}
	return runeReader{r, bufio.NewReader(r)}
}

type runeReader struct {
	io.Reader
	io.RuneReader
}
