package alphabet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapelang/tmc/alphabet"
)

func TestNewIncludesBlank(t *testing.T) {
	a, err := alphabet.New([]byte{'0', '1'})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Contains(alphabet.Blank))
	assert.True(t, a.Contains('0'))
	assert.True(t, a.Contains('1'))
	assert.False(t, a.Contains('2'))
}

func TestPlaceholderCollision(t *testing.T) {
	_, err := alphabet.New([]byte{'0', '_'})
	require.Error(t, err)
	assert.IsType(t, alphabet.PlaceholderCollisionError{}, err)

	_, err = alphabet.New([]byte{'*'})
	require.Error(t, err)
}

func TestUnionSetAlgebra(t *testing.T) {
	a, err := alphabet.New([]byte{'0', '1', '#'})
	require.NoError(t, err)

	zero := a.Single('0')
	one := a.Single('1')
	zeroOrOne := zero.Union(one)

	assert.Equal(t, 2, zeroOrOne.Count())
	assert.True(t, a.UnionContains(zeroOrOne, '0'))
	assert.True(t, a.UnionContains(zeroOrOne, '1'))
	assert.False(t, a.UnionContains(zeroOrOne, '#'))

	full := a.Full()
	assert.Equal(t, a.Len(), full.Count())
	assert.Equal(t, "any", a.String(full))

	rest := a.Complement(zeroOrOne)
	assert.True(t, a.UnionContains(rest, '#'))
	assert.True(t, a.UnionContains(rest, alphabet.Blank))
	assert.True(t, rest.Intersect(zeroOrOne).IsEmpty())

	assert.Equal(t, "{0,1}", a.String(zeroOrOne))
}

func TestDifference(t *testing.T) {
	a, err := alphabet.New([]byte{'0', '1', '2'})
	require.NoError(t, err)
	full := a.Full()
	zero := a.Single('0')
	diff := full.Difference(zero)
	assert.False(t, a.UnionContains(diff, '0'))
	assert.True(t, a.UnionContains(diff, '1'))
	assert.True(t, a.UnionContains(diff, '2'))
	assert.True(t, a.UnionContains(diff, alphabet.Blank))
}
