package compiler

import (
	"errors"
	"fmt"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/graph"
	"github.com/tapelang/tmc/lexer"
	"github.com/tapelang/tmc/parser"
	"github.com/tapelang/tmc/resolve"
	"github.com/tapelang/tmc/specialize"
	"github.com/tapelang/tmc/token"
)

// ErrorKind names one of the classified compiler error kinds. cmd/tmc
// maps a Kind to an exit code; every other caller can match on it
// directly.
type ErrorKind int

const (
	InternalErrorKind ErrorKind = iota
	IoErrorKind
	LexErrorKind
	ParseErrorKind
	ImportCycleKind
	UnboundIdentifierKind
	AlphabetUnknownSymbolKind
	NonReducibleKind
	AmbiguousMatchKind
	NonExhaustiveRequiredKind
	NonSingletonWriteKind
	PlaceholderCollisionKind
)

var kindNames = map[ErrorKind]string{
	InternalErrorKind:         "InternalError",
	IoErrorKind:               "IoError",
	LexErrorKind:              "LexError",
	ParseErrorKind:            "ParseError",
	ImportCycleKind:           "ImportCycle",
	UnboundIdentifierKind:     "UnboundIdentifier",
	AlphabetUnknownSymbolKind: "AlphabetUnknownSymbol",
	NonReducibleKind:          "NonReducible",
	AmbiguousMatchKind:        "AmbiguousMatch",
	NonExhaustiveRequiredKind: "NonExhaustiveRequired",
	NonSingletonWriteKind:     "NonSingletonWrite",
	PlaceholderCollisionKind:  "PlaceholderCollision",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the compiler's own typed error, wrapping whatever the
// originating pass returned with the error kind it was classified as.
type Error struct {
	Kind ErrorKind
	Span token.Span
	Err  error
}

func (e Error) Error() string {
	if e.Span.IsValid() {
		return fmt.Sprintf("%v: %v: %v", e.Span, e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

// ExitCode maps e to the process exit code: 1 for any error the user
// can act on (bad source, unknown symbol), 2 for an internal one.
func (e Error) ExitCode() int {
	if e.Kind == InternalErrorKind {
		return 2
	}
	return 1
}

// classify wraps a raw pass error in an Error carrying its Kind and
// span, or InternalErrorKind for anything unrecognized (a panic
// recovered by internal/panicerr, or a defect in the compiler itself).
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(Error); ok {
		return err
	}

	var (
		lexUnterm  lexer.UnterminatedSymbolError
		lexUnknown lexer.UnknownCharError
		parseTok   parser.UnexpectedTokenError
		parseColon parser.ExpectedExprAfterColonError
		cycle      resolve.ImportCycleError
		unbound    resolve.UnboundIdentifierError
		ioErr      resolve.IoError
		unknownSym specialize.AlphabetUnknownSymbolError
		nonReduc   specialize.NonReducibleError
		ambiguous  specialize.AmbiguousMatchError
		nonExhaust specialize.NonExhaustiveRequiredError
		nonSingle  graph.NonSingletonWriteError
		unresolved graph.UnresolvedCallError
		collision  alphabet.PlaceholderCollisionError
	)
	switch {
	case errors.As(err, &lexUnterm):
		return Error{Kind: LexErrorKind, Span: lexUnterm.Span, Err: err}
	case errors.As(err, &lexUnknown):
		return Error{Kind: LexErrorKind, Span: lexUnknown.Span, Err: err}
	case errors.As(err, &parseTok):
		return Error{Kind: ParseErrorKind, Span: parseTok.Span, Err: err}
	case errors.As(err, &parseColon):
		return Error{Kind: ParseErrorKind, Span: parseColon.Span, Err: err}
	case errors.As(err, &cycle):
		var span token.Span
		if len(cycle.Spans) > 0 {
			span = cycle.Spans[len(cycle.Spans)-1]
		}
		return Error{Kind: ImportCycleKind, Span: span, Err: err}
	case errors.As(err, &unbound):
		return Error{Kind: UnboundIdentifierKind, Span: unbound.Span, Err: err}
	case errors.As(err, &ioErr):
		return Error{Kind: IoErrorKind, Span: ioErr.Span, Err: err}
	case errors.As(err, &unknownSym):
		return Error{Kind: AlphabetUnknownSymbolKind, Span: unknownSym.Span, Err: err}
	case errors.As(err, &nonReduc):
		return Error{Kind: NonReducibleKind, Span: nonReduc.Span, Err: err}
	case errors.As(err, &ambiguous):
		return Error{Kind: AmbiguousMatchKind, Span: ambiguous.Span, Err: err}
	case errors.As(err, &nonExhaust):
		return Error{Kind: NonExhaustiveRequiredKind, Span: nonExhaust.Span, Err: err}
	case errors.As(err, &nonSingle):
		return Error{Kind: NonSingletonWriteKind, Err: err}
	case errors.As(err, &unresolved):
		return Error{Kind: InternalErrorKind, Err: err}
	case errors.As(err, &collision):
		return Error{Kind: PlaceholderCollisionKind, Err: err}
	default:
		return Error{Kind: InternalErrorKind, Err: err}
	}
}
