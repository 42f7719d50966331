package specialize

import (
	"fmt"

	"github.com/tapelang/tmc/token"
)

// NonReducibleError reports an expression in value position that did
// not reduce to a symbol, a tape transformer, or a call.
type NonReducibleError struct {
	Span   token.Span
	Reason string
}

func (e NonReducibleError) Error() string {
	return fmt.Sprintf("%v: not reducible: %s", e.Span, e.Reason)
}

// AlphabetUnknownSymbolError reports a source literal not present in Σ.
type AlphabetUnknownSymbolError struct {
	Span   token.Span
	Symbol byte
}

func (e AlphabetUnknownSymbolError) Error() string {
	return fmt.Sprintf("%v: symbol %q is not in the alphabet", e.Span, e.Symbol)
}

// AmbiguousMatchError reports a match arm pattern overlapping a prior
// arm's pattern over a reachable symbol. It is a warning by default
// and an error under strict mode.
type AmbiguousMatchError struct {
	Span      token.Span
	PriorSpan token.Span
}

func (e AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%v: match arm overlaps prior arm at %v", e.Span, e.PriorSpan)
}

// NonExhaustiveRequiredError reports a match on a tape read that both
// leaves symbols uncovered and claims an `any` arm -- a contradiction,
// since `any` always covers the full alphabet.
type NonExhaustiveRequiredError struct {
	Span token.Span
}

func (e NonExhaustiveRequiredError) Error() string {
	return fmt.Sprintf("%v: match has an `any` arm yet leaves symbols uncovered", e.Span)
}
