// Package resolve implements name resolution and import linking: it
// merges an entry file with its transitive imports into one scope,
// detects import cycles, and checks that every free identifier
// resolves to a binding site.
package resolve

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tapelang/tmc/ast"
	"github.com/tapelang/tmc/parser"
	"github.com/tapelang/tmc/token"
)

// Builtins are the tape primitives recognized by name in value
// position; they resolve without needing a binding site.
var Builtins = map[string]bool{
	"next": true, "prev": true, "get": true, "set": true,
}

// ImportCycleError reports two or more `import` statements that close
// a cycle among files. Spans is given in the order the cycle was
// discovered, one per file on the cycle.
type ImportCycleError struct {
	Files []string
	Spans []token.Span
}

func (e ImportCycleError) Error() string {
	s := "import cycle:"
	for i, f := range e.Files {
		s += fmt.Sprintf("\n  %v imported at %v", f, e.Spans[i])
	}
	return s
}

// UnboundIdentifierError reports a free variable with no enclosing
// binding.
type UnboundIdentifierError struct {
	Span token.Span
	Name string
}

func (e UnboundIdentifierError) Error() string {
	return fmt.Sprintf("%v: unbound identifier %q", e.Span, e.Name)
}

// IoError wraps a failure to read or locate a source/import file.
type IoError struct {
	Span token.Span
	Path string
	Err  error
}

func (e IoError) Error() string { return fmt.Sprintf("%v: %v: %v", e.Span, e.Path, e.Err) }
func (e IoError) Unwrap() error { return e.Err }

// Program is the fully linked result: one flat let group combining
// every imported file's bindings with the entry file's own, and the
// entry file's body expression.
type Program struct {
	Bindings []ast.Binding
	Body     ast.Expr

	// Files lists every file that contributed bindings, entry file
	// last, for diagnostic purposes (e.g. -trace).
	Files []string
}

// Loader resolves import paths and reads file content; fs.FS keeps
// this independent of the real filesystem for tests.
type Loader struct {
	FS          fs.FS
	SearchRoots []string // additional roots searched after the importer's own directory
}

// NewOSLoader returns a Loader reading from the real filesystem,
// searching the entry file's directory and then each of roots in
// order: the importing file's own directory first, then each
// configured search root.
func NewOSLoader(roots ...string) *Loader {
	return &Loader{FS: osFS{}, SearchRoots: roots}
}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) { return os.Open(name) }

// Load parses and resolves entryPath and everything it imports,
// transitively, into a single Program.
func (l *Loader) Load(entryPath string) (*Program, error) {
	r := &resolver{loader: l, loaded: map[string]*ast.File{}}
	if err := r.visit(entryPath, token.Span{}); err != nil {
		return nil, err
	}

	prog := &Program{Files: r.order}
	for _, path := range r.order {
		f := r.loaded[path]
		prog.Bindings = append(prog.Bindings, f.Group.Bindings...)
	}
	entry := r.loaded[entryPath]
	prog.Body = entry.Group.Body

	if err := checkScope(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

type resolver struct {
	loader     *Loader
	loaded     map[string]*ast.File
	stack      []string      // paths currently being visited, for cycle detection
	stackSpans []token.Span  // import span that pulled the matching stack entry in
	order      []string      // topological (imports-first) visit order
}

func (r *resolver) visit(path string, importSpan token.Span) error {
	if _, done := r.loaded[path]; done {
		return nil
	}
	for i, onStack := range r.stack {
		if onStack == path {
			return ImportCycleError{
				Files: append(append([]string(nil), r.stack[i:]...), path),
				Spans: append(append([]token.Span(nil), r.stackSpans[i:]...), importSpan),
			}
		}
	}

	f, err := r.parseFile(path)
	if err != nil {
		return err
	}

	r.stack = append(r.stack, path)
	r.stackSpans = append(r.stackSpans, importSpan)
	dir := filepath.Dir(path)
	for _, imp := range f.Imports {
		target, err := r.resolveImportPath(dir, imp.Path)
		if err != nil {
			return IoError{Span: imp.Span, Path: imp.Path, Err: err}
		}
		if err := r.visit(target, imp.Span); err != nil {
			return err
		}
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.stackSpans = r.stackSpans[:len(r.stackSpans)-1]

	r.loaded[path] = f
	r.order = append(r.order, path)
	return nil
}

func (r *resolver) parseFile(path string) (*ast.File, error) {
	file, err := r.loader.FS.Open(path)
	if err != nil {
		return nil, IoError{Path: path, Err: err}
	}
	defer file.Close()
	f, err := parser.ParseFile(path, file)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// resolveImportPath finds path relative to the importing file's own
// directory first, then each configured search root in order.
func (r *resolver) resolveImportPath(importerDir, importPath string) (string, error) {
	candidates := []string{filepath.Join(importerDir, importPath)}
	for _, root := range r.loader.SearchRoots {
		candidates = append(candidates, filepath.Join(root, importPath))
	}
	for _, c := range candidates {
		if _, err := fs.Stat(r.loader.FS, c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("import %q not found (searched %v)", importPath, candidates)
}

// checkScope verifies every free identifier in prog resolves to a
// let binding, a lambda parameter, a Y self-reference, a catch-arm
// name, or a builtin primitive, recursively through every bound
// expression and the body.
func checkScope(prog *Program) error {
	top := make(map[string]bool, len(prog.Bindings))
	for _, b := range prog.Bindings {
		top[b.Name] = true
	}
	for _, b := range prog.Bindings {
		if b.Value != nil {
			if err := checkExpr(b.Value, top, nil); err != nil {
				return err
			}
		}
	}
	return checkExpr(prog.Body, top, nil)
}

// checkExpr walks e, verifying free identifiers against top (file-level
// bindings) and local (a stack of lambda/Y/match-alias parameter names
// introduced by enclosing binders).
func checkExpr(e ast.Expr, top map[string]bool, local []string) error {
	switch e := e.(type) {
	case *ast.Literal, *ast.Union:
		return nil
	case *ast.Ident:
		if top[e.Name] || Builtins[e.Name] || inLocal(local, e.Name) {
			return nil
		}
		return UnboundIdentifierError{Span: e.Span(), Name: e.Name}
	case *ast.Lambda:
		return checkExpr(e.Body, top, append(local, e.Param))
	case *ast.App:
		if err := checkExpr(e.Func, top, local); err != nil {
			return err
		}
		return checkExpr(e.Arg, top, local)
	case *ast.Let:
		inner := append([]string(nil), local...)
		for _, b := range e.Bindings {
			inner = append(inner, b.Name)
		}
		for _, b := range e.Bindings {
			if b.Value != nil {
				if err := checkExpr(b.Value, top, inner); err != nil {
					return err
				}
			}
		}
		return checkExpr(e.Body, top, inner)
	case *ast.Match:
		if err := checkExpr(e.Scrutinee, top, local); err != nil {
			return err
		}
		for _, arm := range e.Arms {
			if arm.Pattern.AliasName != "" && !top[arm.Pattern.AliasName] && arm.Pattern.AliasName != "any" {
				if !inLocal(local, arm.Pattern.AliasName) {
					return UnboundIdentifierError{Span: arm.Pattern.Span(), Name: arm.Pattern.AliasName}
				}
			}
			armLocal := local
			if arm.CatchName != "" {
				armLocal = append(append([]string(nil), local...), arm.CatchName)
			}
			if err := checkExpr(arm.Result, top, armLocal); err != nil {
				return err
			}
		}
		return nil
	case *ast.Fix:
		return checkExpr(e.Body, top, append(local, e.Param))
	default:
		return fmt.Errorf("resolve: unhandled expression type %T", e)
	}
}

func inLocal(local []string, name string) bool {
	for _, n := range local {
		if n == name {
			return true
		}
	}
	return false
}
