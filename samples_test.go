package tmc_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapelang/tmc/compiler"
	"github.com/tapelang/tmc/internal/tmsim"
	"github.com/tapelang/tmc/resolve"
)

// mapFSOf builds an in-memory filesystem from alternating name/content
// pairs, for tests that need more than one source file (e.g. import
// cycles) without writing real files to disk.
func mapFSOf(pairs ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for i := 0; i+1 < len(pairs); i += 2 {
		fsys[pairs[i]] = &fstest.MapFile{Data: []byte(pairs[i+1])}
	}
	return fsys
}

func mapLoaderFor(files fstest.MapFS) func(roots []string) *resolve.Loader {
	return func(roots []string) *resolve.Loader {
		return &resolve.Loader{FS: files, SearchRoots: roots}
	}
}

func compileSample(t *testing.T, path string, alphabet []byte) *tmsim.Table {
	t.Helper()
	var out bytes.Buffer
	_, err := compiler.Compile(context.Background(), path, &out, compiler.WithAlphabet(alphabet))
	require.NoError(t, err)
	tb, err := tmsim.Parse(&out)
	require.NoError(t, err)
	return tb
}

func runTape(t *testing.T, tb *tmsim.Table, tape string) (tmsim.Machine, bool) {
	t.Helper()
	m := tmsim.New(tb)
	m.Seed([]byte(tape))
	accepted, err := m.Run(10000)
	require.NoError(t, err)
	return *m, accepted
}

func TestSampleIncrementAddsOneWithCarry(t *testing.T) {
	tb := compileSample(t, "samples/inc.tmc", []byte{'0', '1', '#'})

	m, accepted := runTape(t, tb, "101#")
	require.True(t, accepted)
	assert.Equal(t, "110#", string(m.Tape(0, 4)))
	assert.Equal(t, 0, m.Head())
}

func TestSampleIncrementWrapsAllOnesToAllZeros(t *testing.T) {
	tb := compileSample(t, "samples/inc.tmc", []byte{'0', '1', '#'})

	m, accepted := runTape(t, tb, "111#")
	require.True(t, accepted)
	assert.Equal(t, "000#", string(m.Tape(0, 4)))
	assert.Equal(t, 0, m.Head())
}

func TestSampleAddSumsTwoBinaryNumbersAndGrowsOnOverflow(t *testing.T) {
	tb := compileSample(t, "samples/add.tmc", []byte{'0', '1', '+'})

	m, accepted := runTape(t, tb, "101+011")
	require.True(t, accepted)
	sum := strings.TrimRight(string(m.Tape(m.Head(), m.Head()+4)), "\x00")
	assert.Equal(t, "1000", sum)
}

func TestSampleAddZeroPlusZeroIsZero(t *testing.T) {
	tb := compileSample(t, "samples/add.tmc", []byte{'0', '1', '+'})

	m, accepted := runTape(t, tb, "0+0")
	require.True(t, accepted)
	assert.Equal(t, byte('0'), m.Tape(m.Head(), m.Head()+1)[0])
}

func TestSampleBoolNotFlipsBit(t *testing.T) {
	tb := compileSample(t, "samples/bool-not.tmc", []byte{'0', '1'})

	m, accepted := runTape(t, tb, "0")
	require.True(t, accepted)
	assert.Equal(t, byte('1'), m.Tape(0, 1)[0])

	m, accepted = runTape(t, tb, "1")
	require.True(t, accepted)
	assert.Equal(t, byte('0'), m.Tape(0, 1)[0])
}

func TestSampleDupRightCopiesWhicheverSymbolItRead(t *testing.T) {
	tb := compileSample(t, "samples/dup-right.tmc", []byte{'0', '1'})

	m, accepted := runTape(t, tb, "0")
	require.True(t, accepted)
	assert.Equal(t, "00", string(m.Tape(0, 2)))

	m, accepted = runTape(t, tb, "1")
	require.True(t, accepted)
	assert.Equal(t, "11", string(m.Tape(0, 2)))
}

func TestAlphabetOmittingUsedSymbolFailsButExtraSymbolSucceeds(t *testing.T) {
	var out bytes.Buffer
	_, err := compiler.Compile(context.Background(), "samples/bool-not.tmc", &out,
		compiler.WithAlphabet([]byte{'0'}))
	require.Error(t, err)
	var cerr compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compiler.AlphabetUnknownSymbolKind, cerr.Kind)

	out.Reset()
	_, err = compiler.Compile(context.Background(), "samples/bool-not.tmc", &out,
		compiler.WithAlphabet([]byte{'0', '1', '2'}))
	require.NoError(t, err)
}

func TestNonExhaustiveMatchRejectsUncoveredSymbol(t *testing.T) {
	fsys := mapFSOf("main.tmc", "let main = t: match get t { '0' > t } in main")
	var out bytes.Buffer
	_, err := compiler.Compile(context.Background(), "main.tmc", &out,
		compiler.WithLoader(mapLoaderFor(fsys)), compiler.WithAlphabet([]byte{'0', '1'}))
	require.NoError(t, err)

	tb, err := tmsim.Parse(&out)
	require.NoError(t, err)

	m := tmsim.New(tb)
	m.Seed([]byte{'1'})
	accepted, err := m.Run(10)
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestImportCycleFailsCitingBothSpans(t *testing.T) {
	fsys := mapFSOf(
		"a.tmc", "import \"b.tmc\"\nlet main = t: next t in main",
		"b.tmc", "import \"a.tmc\"\nlet main = t: next t in main",
	)
	var out bytes.Buffer
	_, err := compiler.Compile(context.Background(), "a.tmc", &out, compiler.WithLoader(mapLoaderFor(fsys)))
	require.Error(t, err)
	var cerr compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compiler.ImportCycleKind, cerr.Kind)
}
