package runtime

import (
	"context"
	"io"
	"log/slog"

	"github.com/sandrolain/cljcore/pkg/value"
)

// CallFn applies fn to args, crossing the host boundary (spec.md §6.1's
// call_fn slot).
type CallFn func(fn value.Value, args []value.Value) (value.Value, error)

// ForceLazySeqFn invokes a zero-argument lazy-seq body function (spec.md
// §6.1's force_lazy_seq_fn slot).
type ForceLazySeqFn func(fn value.Value) (value.Value, error)

// LoadSourceFn hands a namespace file's textual content to the external
// reader/analyzer/evaluator chain (spec.md §6.2: "a file is loaded by
// handing its textual content to the external reader/analyzer/evaluator
// chain"). nsName is the dotted namespace being loaded; path is the
// resolved classpath-relative file; source is its contents.
type LoadSourceFn func(nsName, path, source string) error

// NamespaceResolver resolves a namespace name to its classpath file and
// content, with whatever caching the implementation chooses (spec.md
// §6.2). Declared here as an interface — rather than importing
// pkg/nscommands's concrete Resolver type directly — so pkg/runtime never
// needs to depend on the higher layer that implements it.
type NamespaceResolver interface {
	Resolve(nsName string, reload bool) (path, content string, err error)
}

// WasmHost loads a compiled WebAssembly module, backing the wasm_module
// auxiliary Value (spec.md §3.1, §2 of SPEC_FULL.md). Declared here as an
// interface — rather than importing pkg/wasmhost's concrete Host type
// directly — for the same reason as NamespaceResolver: pkg/runtime stays
// agnostic of the domain extension that implements it.
type WasmHost interface {
	Load(ctx context.Context, name string, wasmBytes []byte) (*value.WasmModule, error)
}

// Options configures a Context (spec.md §6.1).
type Options struct {
	// Logger for structured runtime diagnostics.
	Logger *slog.Logger
	// Classpath lists the directories searched for namespace files by
	// require/use/load-file (spec.md §6.2).
	Classpath []string
	// MaxBindingDepth caps the dynamic binding-frame stack depth; exceeding
	// it raises OutOfMemory instead of growing unbounded (spec.md §5).
	MaxBindingDepth int
	// Output, when non-nil, captures everything the core writes during
	// evaluation (spec.md §6.3); defaults to os.Stdout-free io.Discard so
	// hosts that don't care about captured output pay nothing.
	Output io.Writer
	// CallFn and ForceLazySeqFn are the host callback slots spec.md §6.1
	// requires the core to invoke through rather than evaluate directly.
	CallFn         CallFn
	ForceLazySeqFn ForceLazySeqFn
	LoadSourceFn   LoadSourceFn
	Resolver       NamespaceResolver
	WasmHost       WasmHost
}

// Option configures a Context at construction time, mirroring the
// teacher's evaluator.EvalOption functional-options pattern.
type Option func(*Options)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithClasspath sets the directories searched for namespace files.
func WithClasspath(dirs ...string) Option {
	return func(o *Options) { o.Classpath = dirs }
}

// WithMaxBindingDepth caps the dynamic binding-frame stack depth.
func WithMaxBindingDepth(depth int) Option {
	return func(o *Options) { o.MaxBindingDepth = depth }
}

// WithOutputCapture redirects core-generated output to w.
func WithOutputCapture(w io.Writer) Option {
	return func(o *Options) { o.Output = w }
}

// WithCallFn installs the call_fn host callback.
func WithCallFn(fn CallFn) Option {
	return func(o *Options) { o.CallFn = fn }
}

// WithForceLazySeqFn installs the force_lazy_seq_fn host callback.
func WithForceLazySeqFn(fn ForceLazySeqFn) Option {
	return func(o *Options) { o.ForceLazySeqFn = fn }
}

// WithLoadSourceFn installs the namespace-file loader invoked by
// require/use/load-file (spec.md §6.2).
func WithLoadSourceFn(fn LoadSourceFn) Option {
	return func(o *Options) { o.LoadSourceFn = fn }
}

// WithResolver installs the classpath resolver used by require/use
// (typically an *nscommands.Resolver, spec.md §6.2).
func WithResolver(r NamespaceResolver) Option {
	return func(o *Options) { o.Resolver = r }
}

// WithWasmHost installs the WASM module loader used by wasm-load
// (typically a *wasmhost.Host, spec.md §2 of SPEC_FULL.md).
func WithWasmHost(h WasmHost) Option {
	return func(o *Options) { o.WasmHost = h }
}
