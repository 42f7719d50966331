package compiler_test

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapelang/tmc/compiler"
	"github.com/tapelang/tmc/resolve"
)

func mapLoader(files fstest.MapFS) func(roots []string) *resolve.Loader {
	return func(roots []string) *resolve.Loader {
		return &resolve.Loader{FS: files, SearchRoots: roots}
	}
}

func TestCompileEmitsTransitionTableForMoveRightProgram(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = t: next t in main",
		)},
	}
	var out bytes.Buffer
	res, err := compiler.Compile(context.Background(), "main.tmc", &out,
		compiler.WithLoader(mapLoader(fsys)))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Contains(t, out.String(), "halt")
	assert.NotEmpty(t, res.Graph.States)
}

func TestCompileReportsUnboundIdentifierAsClassifiedError(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = t: nosuch t in main",
		)},
	}
	var out bytes.Buffer
	_, err := compiler.Compile(context.Background(), "main.tmc", &out,
		compiler.WithLoader(mapLoader(fsys)))
	require.Error(t, err)
	var cerr compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compiler.UnboundIdentifierKind, cerr.Kind)
	assert.Equal(t, 1, cerr.ExitCode())
}

func TestCompileReportsUnknownSymbolAsClassifiedError(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = t: set '2' t in main",
		)},
	}
	var out bytes.Buffer
	_, err := compiler.Compile(context.Background(), "main.tmc", &out,
		compiler.WithLoader(mapLoader(fsys)), compiler.WithAlphabet([]byte{'0', '1'}))
	require.Error(t, err)
	var cerr compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compiler.AlphabetUnknownSymbolKind, cerr.Kind)
}

func TestCompileHonorsCanceledContextBetweenPasses(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = t: next t in main",
		)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	_, err := compiler.Compile(ctx, "main.tmc", &out, compiler.WithLoader(mapLoader(fsys)))
	require.Error(t, err)
	var cerr compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compiler.InternalErrorKind, cerr.Kind)
}

func TestCompileTracesPassesWhenEnabled(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = t: next t in main",
		)},
	}
	var lines []string
	logf := func(mess string, args ...interface{}) {
		lines = append(lines, mess)
	}
	var out bytes.Buffer
	_, err := compiler.Compile(context.Background(), "main.tmc", &out,
		compiler.WithLoader(mapLoader(fsys)), compiler.WithTrace(true), compiler.WithLogf(logf))
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}
