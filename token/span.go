// Package token defines the source-position types shared across the
// lexer, parser, resolver, and specializer.
package token

import "fmt"

// Span names a location in a source file: a file name plus a 1-based
// line and column. Columns are counted in runes, not bytes.
type Span struct {
	File string
	Line int
	Col  int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// IsValid reports whether the span names an actual position, as
// opposed to the zero Span used for synthesized nodes that have no
// source location (e.g. builtin transformers).
func (s Span) IsValid() bool { return s.Line > 0 }

// Kind enumerates token kinds produced by the lexer.
type Kind int

const (
	Invalid Kind = iota
	EOF

	Ident
	Symbol // 'c' literal, including ''
	String // import path literal

	// punctuation
	Colon
	Comma
	Pipe
	Equals
	Question
	Arrow // '>'
	At    // '@'
	LBrace
	RBrace
	LParen
	RParen

	// keywords
	KwLet
	KwIn
	KwMatch
	KwImport
	KwY
	KwAny
)

var kindNames = map[Kind]string{
	Invalid:  "invalid",
	EOF:      "eof",
	Ident:    "ident",
	Symbol:   "symbol",
	String:   "string",
	Colon:    "':'",
	Comma:    "','",
	Pipe:     "'|'",
	Equals:   "'='",
	Question: "'?'",
	Arrow:    "'>'",
	At:       "'@'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LParen:   "'('",
	RParen:   "')'",
	KwLet:    "let",
	KwIn:     "in",
	KwMatch:  "match",
	KwImport: "import",
	KwY:      "Y",
	KwAny:    "any",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps keyword spellings to their Kind.
var Keywords = map[string]Kind{
	"let":    KwLet,
	"in":     KwIn,
	"match":  KwMatch,
	"import": KwImport,
	"Y":      KwY,
	"any":    KwAny,
}

// Token is one lexical token together with its source span.
type Token struct {
	Kind Kind
	Text string // raw text (identifier name, symbol char, string contents)
	Span Span
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%v(%q)@%v", t.Kind, t.Text, t.Span)
	}
	return fmt.Sprintf("%v@%v", t.Kind, t.Span)
}
