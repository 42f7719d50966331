package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/graph"
	"github.com/tapelang/tmc/ir"
)

func boolNotProgram() *ir.Program {
	return &ir.Program{
		Entry: ir.Branch{Cases: []ir.Case{
			{Symbols: 1 << 1, Then: ir.Write{Sym: '1'}},
			{Symbols: 1 << 2, Then: ir.Write{Sym: '0'}},
			{Symbols: 1 << 0, Then: ir.Halt{Accept: false}},
		}},
		Transformers: map[string]*ir.Transformer{},
	}
}

func TestBuildProducesStartAndHaltStates(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	g, err := graph.Build(boolNotProgram(), sigma)
	require.NoError(t, err)

	assert.NotNil(t, g.Start)
	assert.True(t, g.Accept.Accept)
	assert.True(t, g.Reject.Reject)
}

func TestBuildDedupMergesIdenticalStates(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	// Both arms write the same literal symbol and fall off into the same
	// Halt, via structurally identical (but distinctly-built) subgraphs:
	// they must collapse into a single ordinary state.
	prog := &ir.Program{
		Entry: ir.Branch{Cases: []ir.Case{
			{Symbols: 1<<0 | 1<<1, Then: ir.Seq{First: ir.Write{Sym: '1'}, Second: ir.Halt{Accept: true}}},
			{Symbols: 1 << 2, Then: ir.Seq{First: ir.Write{Sym: '1'}, Second: ir.Halt{Accept: true}}},
		}},
		Transformers: map[string]*ir.Transformer{},
	}

	g, err := graph.Build(prog, sigma)
	require.NoError(t, err)

	// Start state's transitions for every symbol should all land on the
	// same (deduplicated) ordinary state.
	var targets = map[*graph.State]bool{}
	for _, sym := range sigma.Symbols() {
		targets[g.Start.Trans[sym].Next] = true
	}
	assert.Len(t, targets, 1, "identical arms should dedup to one state")
}

func TestBuildIsTotalOverSigma(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	g, err := graph.Build(boolNotProgram(), sigma)
	require.NoError(t, err)

	for _, st := range g.States {
		if st.Accept || st.Reject {
			continue
		}
		for _, sym := range sigma.Symbols() {
			_, ok := st.Trans[sym]
			assert.True(t, ok, "state %s missing transition for %q", st.Name, sym)
		}
	}
}

func TestBuildStartStateNamedZero(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	g, err := graph.Build(boolNotProgram(), sigma)
	require.NoError(t, err)

	if !g.Start.Accept && !g.Start.Reject {
		assert.Equal(t, "0", g.Start.Name)
	}
}

func TestBuildReportsUnresolvedCall(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := &ir.Program{
		Entry:        ir.Call{Name: "missing"},
		Transformers: map[string]*ir.Transformer{},
	}

	_, err = graph.Build(prog, sigma)
	require.Error(t, err)
	assert.IsType(t, graph.UnresolvedCallError{}, err)
}
