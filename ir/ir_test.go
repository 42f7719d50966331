package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/ir"
)

func TestStringRendersNestedBranch(t *testing.T) {
	sigma, err := alphabet.New([]byte{'0', '1'})
	assert.NoError(t, err)

	n := ir.Seq{
		First: ir.MoveRight{},
		Second: ir.Branch{Cases: []ir.Case{
			{Symbols: sigma.Single('0'), Then: ir.Write{Sym: '1'}},
			{Symbols: sigma.Single('1'), Then: ir.Write{Sym: '0'}},
		}},
	}
	s := ir.String(n)
	assert.Contains(t, s, "seq")
	assert.Contains(t, s, "move-right")
	assert.Contains(t, s, "branch")
	assert.Contains(t, s, `write '1'`)
}
