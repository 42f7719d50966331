package compiler

import "github.com/tapelang/tmc/resolve"

// Option configures a Compile call using an interface-based option
// pattern rather than a closure-typed one: each concrete option type
// implements apply directly on *options.
type Option interface{ apply(o *options) }

type options struct {
	alphabet   []byte
	strict     bool
	importRoot string
	logf       func(mess string, args ...interface{})
	trace      bool
	timeout    int // seconds, 0 means no deadline beyond ctx's own
	loader     loaderFactory
	skipEmit   bool
}

// loaderFactory builds the resolve.Loader used for a Compile call,
// given the accumulated import search roots. The default builds a real
// OS-backed loader; WithLoader overrides it for tests that want an
// in-memory fs.FS.
type loaderFactory func(roots []string) *resolve.Loader

var defaults = []Option{
	alphabetOption{'0', '1'},
	strictOption(false),
	logfOption(func(string, ...interface{}) {}),
	loaderOption(func(roots []string) *resolve.Loader { return resolve.NewOSLoader(roots...) }),
}

// Options bundles opts into a single Option applying all of them in
// order.
func Options(opts ...Option) Option { return optionSlice(opts) }

type optionSlice []Option

func (s optionSlice) apply(o *options) {
	for _, opt := range s {
		if opt != nil {
			opt.apply(o)
		}
	}
}

func defaultOptions() options {
	var o options
	optionSlice(defaults).apply(&o)
	return o
}

type alphabetOption []byte

func (a alphabetOption) apply(o *options) { o.alphabet = []byte(a) }

// WithAlphabet fixes Σ explicitly as compiler-level configuration
// rather than a source-language construct, overriding the '0'/'1' default.
func WithAlphabet(syms []byte) Option { return alphabetOption(syms) }

type strictOption bool

func (s strictOption) apply(o *options) { o.strict = bool(s) }

// WithStrict promotes specialize's warnings (ambiguous match arms) to
// hard errors.
func WithStrict(strict bool) Option { return strictOption(strict) }

type importRootOption string

func (s importRootOption) apply(o *options) { o.importRoot = string(s) }

// WithImportRoot adds a search root consulted after the entry file's
// own directory when resolving `import` paths.
func WithImportRoot(root string) Option { return importRootOption(root) }

type logfOption func(mess string, args ...interface{})

func (l logfOption) apply(o *options) { o.logf = l }

// WithLogf directs -trace output through logf instead of being
// discarded.
func WithLogf(logf func(mess string, args ...interface{})) Option { return logfOption(logf) }

type traceOption bool

func (t traceOption) apply(o *options) { o.trace = bool(t) }

// WithTrace enables the between-pass progress log lines. It has no
// effect unless paired with WithLogf.
func WithTrace(trace bool) Option { return traceOption(trace) }

type timeoutOption int

func (t timeoutOption) apply(o *options) { o.timeout = int(t) }

// WithTimeout sets a soft ceiling in seconds, checked only at pass
// boundaries alongside ctx. 0 disables it.
func WithTimeout(seconds int) Option { return timeoutOption(seconds) }

type loaderOption func(roots []string) *resolve.Loader

func (l loaderOption) apply(o *options) { o.loader = loaderFactory(l) }

// WithLoader overrides the resolve.Loader construction, letting tests
// swap in an fstest.MapFS-backed loader instead of the real filesystem.
func WithLoader(f func(roots []string) *resolve.Loader) Option { return loaderOption(f) }

type skipEmitOption bool

func (s skipEmitOption) apply(o *options) { o.skipEmit = bool(s) }

// WithSkipEmit stops Compile short of the emit pass: the returned
// Result still carries the built IR and state graph, but out is never
// written to. For a caller that only wants -dump-ir/-dump-graph's
// debug view of a program, not its compiled table.
func WithSkipEmit(skip bool) Option { return skipEmitOption(skip) }

// tracef returns a pass-prefixed logging function: every line from
// this pass reads "pass: message" in the underlying log.
func (o *options) tracef(pass string) func(mess string, args ...interface{}) {
	if !o.trace || o.logf == nil {
		return func(string, ...interface{}) {}
	}
	return func(mess string, args ...interface{}) {
		o.logf(pass+": "+mess, args...)
	}
}
