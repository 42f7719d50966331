package emit_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/emit"
	"github.com/tapelang/tmc/graph"
	"github.com/tapelang/tmc/internal/flushio"
	"github.com/tapelang/tmc/ir"
)

func buildBoolNot(t *testing.T) (*graph.Graph, *alphabet.Alphabet) {
	t.Helper()
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := &ir.Program{
		Entry: ir.Branch{Cases: []ir.Case{
			{Symbols: sigma.Single('0'), Then: ir.Write{Sym: '1'}},
			{Symbols: sigma.Single('1'), Then: ir.Write{Sym: '0'}},
			{Symbols: sigma.Single(alphabet.Blank), Then: ir.Halt{Accept: false}},
		}},
		Transformers: map[string]*ir.Transformer{},
	}
	g, err := graph.Build(prog, sigma)
	require.NoError(t, err)
	return g, sigma
}

func TestWriteProducesOneLinePerTransition(t *testing.T) {
	g, sigma := buildBoolNot(t)

	var buf bytes.Buffer
	require.NoError(t, emit.Write(flushio.NewWriteFlusher(&buf), g, sigma))

	out := buf.String()
	assert.Contains(t, out, "halt")
	assert.Contains(t, out, "halt-reject")
	// Start state is always named "0".
	assert.True(t, strings.HasPrefix(out, "0 "), "expected output to start with state 0's transitions, got: %s", out)
}

func TestWriteUsesUnderscoreForBlank(t *testing.T) {
	g, sigma := buildBoolNot(t)

	var buf bytes.Buffer
	require.NoError(t, emit.Write(flushio.NewWriteFlusher(&buf), g, sigma))

	assert.Contains(t, buf.String(), "_")
}

func TestWriteCompactsCopyThroughMoveStates(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)

	prog := &ir.Program{
		Entry:        ir.Seq{First: ir.MoveRight{}, Second: ir.Halt{Accept: true}},
		Transformers: map[string]*ir.Transformer{},
	}
	g, err := graph.Build(prog, sigma)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, emit.Write(flushio.NewWriteFlusher(&buf), g, sigma))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "a uniform copy-through move should compact to a single * line, got: %v", lines)
	fields := strings.Fields(lines[0])
	require.Len(t, fields, 5)
	assert.Equal(t, "0", fields[0])
	assert.Equal(t, "*", fields[1])
	assert.Equal(t, "*", fields[2])
	assert.Equal(t, "r", fields[3])
	assert.Equal(t, "halt", fields[4])
}

func TestWriteBlankLineBetweenStates(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1', '#'})
	require.NoError(t, err)

	// A program with two distinct non-halt states: a branch that moves
	// right on '#' before halting, and halts immediately otherwise.
	prog := &ir.Program{
		Entry: ir.Branch{Cases: []ir.Case{
			{Symbols: sigma.Single('#'), Then: ir.Seq{First: ir.MoveRight{}, Second: ir.Halt{Accept: true}}},
			{Symbols: sigma.Single('0') | sigma.Single('1') | sigma.Single(alphabet.Blank), Then: ir.Halt{Accept: true}},
		}},
		Transformers: map[string]*ir.Transformer{},
	}
	g, err := graph.Build(prog, sigma)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, emit.Write(flushio.NewWriteFlusher(&buf), g, sigma))

	assert.Contains(t, buf.String(), "\n\n", "expected a blank line separating per-state transition groups")
}
