// Package compiler wires the lexer, parser, resolve, specialize, graph,
// and emit passes into a single entry point, classifying every pass
// error into a stable taxonomy and recovering any pass panic into an
// InternalError instead of letting it escape to the caller.
package compiler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/emit"
	"github.com/tapelang/tmc/graph"
	"github.com/tapelang/tmc/internal/flushio"
	"github.com/tapelang/tmc/internal/panicerr"
	"github.com/tapelang/tmc/ir"
	"github.com/tapelang/tmc/resolve"
	"github.com/tapelang/tmc/specialize"
)

// Result carries every intermediate artifact of a successful Compile,
// for callers that want more than the emitted awmorp text (cmd/tmc's
// -dump-ir and -dump-graph debug flags).
type Result struct {
	Alphabet *alphabet.Alphabet
	Program  *resolve.Program
	IR       *ir.Program
	Graph    *graph.Graph
	Warnings []error
}

// Compile runs the full pipeline against the source file at path,
// writing the resulting awmorp transition table to out. ctx and any
// WithTimeout are checked only between passes: a pass already in
// flight always runs to completion or to its own panic.
func Compile(ctx context.Context, path string, out io.Writer, opts ...Option) (*Result, error) {
	o := defaultOptions()
	Options(opts...).apply(&o)

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(o.timeout)*time.Second)
		defer cancel()
	}

	trace := o.tracef("compile")

	sigma, err := alphabet.New(o.alphabet)
	if err != nil {
		return nil, classify(err)
	}
	trace("alphabet %s", sigma.Symbols())

	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var roots []string
	if o.importRoot != "" {
		roots = append(roots, o.importRoot)
	}
	loader := o.loader(roots)

	var prog *resolve.Program
	if err := classify(panicerr.Recover("resolve", func() error {
		var rerr error
		prog, rerr = loader.Load(path)
		return rerr
	})); err != nil {
		return nil, err
	}
	trace("resolved %d file(s), %d binding(s)", len(prog.Files), len(prog.Bindings))

	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var irProg *ir.Program
	var warnings []error
	if err := classify(panicerr.Recover("specialize", func() error {
		var serr error
		irProg, warnings, serr = specialize.Specialize(prog, sigma, o.strict)
		return serr
	})); err != nil {
		return nil, err
	}
	trace("specialized %d transformer(s), %d warning(s)", len(irProg.Transformers), len(warnings))
	for _, w := range warnings {
		trace("warning: %v", w)
	}

	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var g *graph.Graph
	if err := classify(panicerr.Recover("graph", func() error {
		var gerr error
		g, gerr = graph.Build(irProg, sigma)
		return gerr
	})); err != nil {
		return nil, err
	}
	trace("built %d state(s)", len(g.States))

	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	if o.skipEmit {
		trace("skipped emit")
	} else {
		wf := flushio.NewWriteFlusher(out)
		if err := classify(panicerr.Recover("emit", func() error {
			return emit.Write(wf, g, sigma)
		})); err != nil {
			return nil, err
		}
		trace("emitted")
	}

	return &Result{
		Alphabet: sigma,
		Program:  prog,
		IR:       irProg,
		Graph:    g,
		Warnings: warnings,
	}, nil
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return Error{Kind: InternalErrorKind, Err: fmt.Errorf("compile: %w", ctx.Err())}
	default:
		return nil
	}
}
