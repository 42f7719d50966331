package specialize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/ir"
	"github.com/tapelang/tmc/parser"
	"github.com/tapelang/tmc/resolve"
	"github.com/tapelang/tmc/specialize"
)

func mustResolve(t *testing.T, src string) *resolve.Program {
	t.Helper()
	f, err := parser.ParseFile("<test>", strings.NewReader(src))
	require.NoError(t, err)
	prog := &resolve.Program{Bindings: f.Group.Bindings, Body: f.Group.Body}
	return prog
}

func TestSpecializeBoolNot(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := mustResolve(t, `let main = t: match get t { '0' > set '1' t, '1' > set '0' t } in main`)

	out, warnings, err := specialize.Specialize(prog, sigma, false)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	branch, ok := out.Entry.(ir.Branch)
	require.True(t, ok, "expected top-level Branch, got %T", out.Entry)
	// Two explicit arms plus a synthesized reject-halt case for the
	// implicit blank symbol, which neither arm covers.
	assert.Len(t, branch.Cases, 3)
}

func TestSpecializeNonExhaustiveSynthesizesRejectHalt(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := mustResolve(t, `let main = t: match get t { '0' > set '1' t } in main`)

	out, _, err := specialize.Specialize(prog, sigma, false)
	require.NoError(t, err)

	branch := out.Entry.(ir.Branch)
	var foundReject bool
	for _, c := range branch.Cases {
		if h, ok := c.Then.(ir.Halt); ok && !h.Accept {
			foundReject = true
		}
	}
	assert.True(t, foundReject, "expected a synthesized reject-halt case")
}

func TestSpecializeRejectsUnknownAlphabetSymbol(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := mustResolve(t, `let main = 'x' in main`)

	_, _, err = specialize.Specialize(prog, sigma, false)
	require.Error(t, err)
	assert.IsType(t, specialize.AlphabetUnknownSymbolError{}, err)
}

func TestSpecializeYBoundRecursionProducesCall(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1', '#'})
	require.NoError(t, err)

	prog := mustResolve(t, `let main = Y f: t: match get t { '#' > set '#' t, any > f (next t) } in main`)

	out, _, err := specialize.Specialize(prog, sigma, false)
	require.NoError(t, err)
	require.Len(t, out.Transformers, 1)

	call, ok := out.Entry.(ir.Call)
	require.True(t, ok, "expected the entry to be a Call into the Y-bound transformer, got %T", out.Entry)

	transformer := out.Transformers[call.Name]
	require.NotNil(t, transformer)
	assert.Contains(t, ir.String(transformer.Body), "call "+call.Name)
}

func TestSpecializeCatchArmWritesBackTheSymbolItMatched(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := mustResolve(t, `let main = t: match get t { x @ any > set x (next t) } in main`)

	out, warnings, err := specialize.Specialize(prog, sigma, false)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	branch, ok := out.Entry.(ir.Branch)
	require.True(t, ok, "expected top-level Branch, got %T", out.Entry)
	// One case per alphabet symbol (blank, '0', '1'), each writing back
	// only its own matched symbol -- a catch arm can't share one Then
	// node across symbols the way a plain arm does.
	require.Len(t, branch.Cases, 3)
	for _, c := range branch.Cases {
		assert.Equal(t, 1, c.Symbols.Count())
	}
}

func TestSpecializeCatchArmBindsStaticallyKnownScrutinee(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := mustResolve(t, `let main = match '1' { x @ any > x } in main`)

	out, _, err := specialize.Specialize(prog, sigma, false)
	require.NoError(t, err)

	halt, ok := out.Entry.(ir.Halt)
	require.True(t, ok, "expected the bound symbol to reduce to a terminal Halt, got %T", out.Entry)
	assert.True(t, halt.Accept)
}

func TestSpecializeAmbiguousMatchWarnsByDefaultErrorsUnderStrict(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := mustResolve(t, `let main = t: match get t { '0' | '1' > set '1' t, '1' > set '0' t } in main`)

	_, warnings, err := specialize.Specialize(prog, sigma, false)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.IsType(t, specialize.AmbiguousMatchError{}, warnings[0])

	_, _, err = specialize.Specialize(prog, sigma, true)
	require.Error(t, err)
	assert.IsType(t, specialize.AmbiguousMatchError{}, err)
}
