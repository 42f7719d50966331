// Command tmc compiles a tape-transformer source program into an
// awmorp transition table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tapelang/tmc/compiler"
	"github.com/tapelang/tmc/internal/dump"
	"github.com/tapelang/tmc/internal/flushio"
	"github.com/tapelang/tmc/internal/logio"
)

func main() {
	var (
		alphabet   string
		strict     bool
		importRoot string
		trace      bool
		timeout    int
		dumpIR     bool
		dumpGraph  bool
		teePath    string
	)
	flag.StringVar(&alphabet, "alphabet", "01", "the tape alphabet, as a string of distinct symbols")
	flag.BoolVar(&strict, "strict", false, "treat overlapping-match-arm warnings as errors")
	flag.StringVar(&importRoot, "import-root", "", "additional import search root")
	flag.BoolVar(&trace, "trace", false, "enable pass trace logging")
	flag.IntVar(&timeout, "timeout", 0, "abort between passes after this many seconds")
	flag.BoolVar(&dumpIR, "dump-ir", false, "print the specialized IR to stderr instead of emitting a table")
	flag.BoolVar(&dumpGraph, "dump-graph", false, "print the built state graph to stderr instead of emitting a table")
	flag.StringVar(&teePath, "tee", "", "also write the emitted table to this path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tmc [flags] <source.tmc>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	var logger logio.Logger
	logger.SetOutput(os.Stderr)
	logf := logger.Leveledf("trace")

	skipEmit := dumpIR || dumpGraph

	opts := []compiler.Option{
		compiler.WithAlphabet([]byte(alphabet)),
		compiler.WithStrict(strict),
		compiler.WithImportRoot(importRoot),
		compiler.WithTimeout(timeout),
		compiler.WithSkipEmit(skipEmit),
	}
	if trace {
		opts = append(opts, compiler.WithTrace(true), compiler.WithLogf(logf))
	}

	out := flushio.NewWriteFlusher(os.Stdout)
	if !skipEmit && teePath != "" {
		f, err := os.Create(teePath)
		if err != nil {
			logger.Errorf("%+v", err)
			os.Exit(2)
		}
		defer f.Close()
		out = flushio.WriteFlushers(out, flushio.NewWriteFlusher(f))
	}

	res, err := compiler.Compile(context.Background(), path, out, opts...)
	if err != nil {
		var cerr compiler.Error
		if errors.As(err, &cerr) {
			logger.Spanf(cerr.Span, "%v: %v", cerr.Kind, cerr.Err)
		} else {
			logger.Errorf("%+v", err)
		}
		os.Exit(exitCodeOf(err))
	}

	warnLog := logio.Writer{Logf: logger.Leveledf("warning")}
	for _, w := range res.Warnings {
		fmt.Fprintf(&warnLog, "%v\n", w)
	}
	warnLog.Close()

	if dumpIR {
		if err := dump.IR(os.Stderr, res.IR); err != nil {
			logger.Errorf("%+v", err)
			os.Exit(2)
		}
	}
	if dumpGraph {
		if err := dump.Graph(os.Stderr, res.Graph, res.Alphabet.Symbols()); err != nil {
			logger.Errorf("%+v", err)
			os.Exit(2)
		}
	}

	os.Exit(logger.ExitCode())
}

func exitCodeOf(err error) int {
	var cerr compiler.Error
	if errors.As(err, &cerr) {
		return cerr.ExitCode()
	}
	return 2
}
