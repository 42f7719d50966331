package resolve_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapelang/tmc/resolve"
)

func TestLoadMergesImportedBindings(t *testing.T) {
	fsys := fstest.MapFS{
		"lib.tmc": &fstest.MapFile{Data: []byte(
			"let id = x: x in id",
		)},
		"main.tmc": &fstest.MapFile{Data: []byte(
			"import \"lib.tmc\"\nlet main = id in main",
		)},
	}
	loader := &resolve.Loader{FS: fsys}
	prog, err := loader.Load("main.tmc")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, b := range prog.Bindings {
		names[b.Name] = true
	}
	assert.True(t, names["id"])
	assert.True(t, names["main"])
}

func TestLoadDetectsImportCycle(t *testing.T) {
	fsys := fstest.MapFS{
		"a.tmc": &fstest.MapFile{Data: []byte(
			"import \"b.tmc\"\nlet a = x: x in a",
		)},
		"b.tmc": &fstest.MapFile{Data: []byte(
			"import \"a.tmc\"\nlet b = x: x in b",
		)},
	}
	loader := &resolve.Loader{FS: fsys}
	_, err := loader.Load("a.tmc")
	require.Error(t, err)
	assert.IsType(t, resolve.ImportCycleError{}, err)
}

func TestLoadRejectsUnboundIdentifier(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = x: nosuch in main",
		)},
	}
	loader := &resolve.Loader{FS: fsys}
	_, err := loader.Load("main.tmc")
	require.Error(t, err)
	assert.IsType(t, resolve.UnboundIdentifierError{}, err)
}

func TestLoadAcceptsBuiltins(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = x: next in main",
		)},
	}
	loader := &resolve.Loader{FS: fsys}
	_, err := loader.Load("main.tmc")
	require.NoError(t, err)
}

func TestLoadAcceptsCatchArmBinding(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = t: match get t { x @ any > set x t } in main",
		)},
	}
	loader := &resolve.Loader{FS: fsys}
	_, err := loader.Load("main.tmc")
	require.NoError(t, err)
}

func TestLoadRejectsCatchNameUsedOutsideItsArm(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = t: match get t { x @ any > t, any > set x t } in main",
		)},
	}
	loader := &resolve.Loader{FS: fsys}
	_, err := loader.Load("main.tmc")
	require.Error(t, err)
	assert.IsType(t, resolve.UnboundIdentifierError{}, err)
}

func TestLoadAcceptsRecursiveFixSelfReference(t *testing.T) {
	fsys := fstest.MapFS{
		"main.tmc": &fstest.MapFile{Data: []byte(
			"let main = Y f: t: match get t { '#' > t, any > f (next t) } in main",
		)},
	}
	loader := &resolve.Loader{FS: fsys}
	_, err := loader.Load("main.tmc")
	require.NoError(t, err)
}
