package dump_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapelang/tmc/graph"
	"github.com/tapelang/tmc/internal/dump"
	"github.com/tapelang/tmc/ir"
)

func TestIRDumpsEntryAndNamedTransformers(t *testing.T) {
	prog := &ir.Program{
		Entry: ir.Call{Name: "loop"},
		Transformers: map[string]*ir.Transformer{
			"loop": {Name: "loop", Body: ir.Seq{First: ir.MoveRight{}, Second: ir.Halt{Accept: true}}},
		},
	}
	var out bytes.Buffer
	require.NoError(t, dump.IR(&out, prog))
	s := out.String()
	assert.Contains(t, s, "entry:")
	assert.Contains(t, s, "transformer loop:")
	assert.Contains(t, s, "move-right")
}

func TestGraphDumpsEveryReachableState(t *testing.T) {
	halt := &graph.State{Name: "halt", Accept: true, Trans: map[byte]graph.Transition{}}
	start := &graph.State{Name: "0", Trans: map[byte]graph.Transition{
		'0': {Write: '0', Move: graph.Right, Next: halt},
		'1': {Write: '1', Move: graph.Right, Next: halt},
	}}
	g := &graph.Graph{Start: start, States: []*graph.State{start, halt}, Accept: halt}

	var out bytes.Buffer
	require.NoError(t, dump.Graph(&out, g, []byte{'0', '1'}))
	s := out.String()
	assert.Contains(t, s, "state 0:")
	assert.Contains(t, s, "goto halt")
}
