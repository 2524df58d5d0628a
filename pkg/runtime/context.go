// Package runtime bundles the per-task evaluation state spec.md §6.1
// calls out as the host/core boundary: the current namespace environment,
// the dynamic binding-frame stack, the call_fn/force_lazy_seq_fn callback
// slots, output capture, and classpath configuration.
//
// Grounded on the teacher's pkg/evaluator/evaluator.go Evaluator/EvalOptions
// pair: New(opts ...Option) construction, a Logger defaulted to
// slog.Default() when unset, and fields resolved from options at
// construction time rather than threaded through every call.
package runtime

import (
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/sandrolain/cljcore/pkg/ns"
	"github.com/sandrolain/cljcore/pkg/value"
)

// defaultMaxBindingDepth bounds the dynamic binding-frame stack absent an
// explicit WithMaxBindingDepth (spec.md §5's resource-bound requirement).
const defaultMaxBindingDepth = 10000

// Context is a single cooperative task's evaluation state (spec.md §3.4:
// "one BindingStack, one Environment cursor, one output sink per task").
// Not safe for concurrent use by multiple goroutines, matching spec.md's
// single-threaded cooperative scheduling assumption; only the loaded-libs
// set and the random source are mutex-guarded.
type Context struct {
	logger *slog.Logger

	env      *ns.Environment
	bindings *ns.BindingStack
	maxDepth int

	output io.Writer

	callFn         CallFn
	forceLazySeqFn ForceLazySeqFn
	loadSourceFn   LoadSourceFn
	resolver       NamespaceResolver
	wasmHost       WasmHost

	classpath []string

	mu         sync.Mutex
	loadedLibs map[string]bool

	randMu   sync.Mutex
	rand     *rand.Rand
	randSeed int64
}

// New creates a Context wired per opts. An Environment is created fresh,
// seeded with clojure.core as the current namespace (spec.md §3.3).
func New(opts ...Option) *Context {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.MaxBindingDepth <= 0 {
		o.MaxBindingDepth = defaultMaxBindingDepth
	}
	if o.Output == nil {
		o.Output = io.Discard
	}
	seed := time.Now().UnixNano()
	return &Context{
		logger:         o.Logger,
		env:            ns.NewEnvironment(),
		bindings:       ns.NewBindingStack(),
		maxDepth:       o.MaxBindingDepth,
		output:         o.Output,
		callFn:         o.CallFn,
		forceLazySeqFn: o.ForceLazySeqFn,
		loadSourceFn:   o.LoadSourceFn,
		resolver:       o.Resolver,
		wasmHost:       o.WasmHost,
		classpath:      o.Classpath,
		loadedLibs:     make(map[string]bool),
		rand:           rand.New(rand.NewSource(seed)),
		randSeed:       seed,
	}
}

// Rand returns the task-local random source backing rand/rand-int/
// rand-nth/shuffle (spec.md §4.4), grounded on the teacher's per-VM
// *rand.Rand (CWBudde-go-dws's vm.rand) rather than the global
// math/rand functions, so SetRandSeed-style reseeding never affects
// unrelated tasks.
func (c *Context) Rand() *rand.Rand {
	c.randMu.Lock()
	defer c.randMu.Unlock()
	return c.rand
}

// SeedRand reseeds the task-local random source (spec.md §4.4's
// set-random-seed!).
func (c *Context) SeedRand(seed int64) {
	c.randMu.Lock()
	defer c.randMu.Unlock()
	c.rand = rand.New(rand.NewSource(seed))
	c.randSeed = seed
}

// Logger returns the context's structured logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Env returns the namespace environment (spec.md §6.1's current_env slot).
func (c *Context) Env() *ns.Environment { return c.env }

// Bindings returns the dynamic binding-frame stack.
func (c *Context) Bindings() *ns.BindingStack { return c.bindings }

// Output returns the sink for core-generated output (spec.md §6.3).
func (c *Context) Output() io.Writer { return c.output }

// Classpath returns the directories searched by require/use/load-file
// (spec.md §6.2).
func (c *Context) Classpath() []string { return c.classpath }

// Resolver returns the installed classpath resolver, or nil if none was
// configured (require/use then fail with IllegalState).
func (c *Context) Resolver() NamespaceResolver { return c.resolver }

// WasmHost returns the installed WASM module loader, or nil if none was
// configured (wasm-load then fails with WasmLoadError).
func (c *Context) WasmHost() WasmHost { return c.wasmHost }

// LoadSource hands a namespace file's content to the host's
// reader/analyzer/evaluator chain (spec.md §6.2). Returns IllegalState if
// no loader was installed.
func (c *Context) LoadSource(nsName, path, source string) error {
	if c.loadSourceFn == nil {
		return &value.Error{Code: value.ErrIllegalState, Message: "no load-source callback installed", Position: -1}
	}
	return c.loadSourceFn(nsName, path, source)
}

// CallFn applies fn to args. PartialFn and CompFn are unwound here so
// every caller — builtins and the lazy-seq engine alike — gets the same
// dispatch regardless of which layer originated the call; a bare *Fn (or
// anything else the host understands) is forwarded to the host's call_fn
// slot, since only the host knows how to invoke a closure's captured
// environment (spec.md §6.1).
func (c *Context) CallFn(fn value.Value, args []value.Value) (value.Value, error) {
	switch f := fn.(type) {
	case *value.PartialFn:
		return c.CallFn(f.Fn, append(append([]value.Value{}, f.Args...), args...))
	case *value.CompFn:
		return c.callComp(f, args)
	case *value.MultiFn:
		return c.callMulti(f, args)
	case *value.ProtocolFn:
		return c.callProtocolFn(f, args)
	}
	if c.callFn == nil {
		return nil, &value.Error{Code: value.ErrIllegalState, Message: "no call_fn callback installed", Position: -1}
	}
	return c.callFn(fn, args)
}

func (c *Context) callComp(f *value.CompFn, args []value.Value) (value.Value, error) {
	if len(f.Fns) == 0 {
		if len(args) == 1 {
			return args[0], nil
		}
		return nil, &value.Error{Code: value.ErrArity, Message: "comp: identity composition requires exactly one argument", Position: -1}
	}
	res, err := c.CallFn(f.Fns[len(f.Fns)-1], args)
	if err != nil {
		return nil, err
	}
	for i := len(f.Fns) - 2; i >= 0; i-- {
		res, err = c.CallFn(f.Fns[i], []value.Value{res})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// callMulti dispatches on DispatchFn's result, matching a Method keyed by
// the dispatch value's printed form, falling back to Default (spec.md
// §3.1's multi-fn dispatch table).
func (c *Context) callMulti(f *value.MultiFn, args []value.Value) (value.Value, error) {
	key, err := c.CallFn(f.DispatchFn, args)
	if err != nil {
		return nil, err
	}
	if fn, ok := f.Methods[dispatchKey(key)]; ok {
		return c.CallFn(fn, args)
	}
	if f.Default != nil {
		return c.CallFn(f.Default, args)
	}
	return nil, &value.Error{Code: value.ErrIllegalState, Message: "no multi-fn method for dispatch value " + dispatchKey(key) + " and no default", Position: -1}
}

// dispatchKey prints a dispatch value canonically enough to key a multi-fn
// method table (spec.md §3.1 documents the table as "keyed by a printed
// form of the dispatch value" without mandating a full pr-str; this covers
// the scalar/keyword/symbol values dispatch functions actually return).
func dispatchKey(v value.Value) string {
	switch x := v.(type) {
	case value.Nil:
		return "nil"
	case value.Bool:
		if x {
			return "true"
		}
		return "false"
	case value.Int:
		return strconv.FormatInt(int64(x), 10)
	case value.String:
		return string(x)
	case value.Keyword:
		return ":" + x.QualifiedName()
	case value.Symbol:
		return x.QualifiedName()
	default:
		return string(value.TypeTag(v))
	}
}

// callProtocolFn dispatches on the type-tag of args[0] (spec.md §3.1's
// protocol implementation table keyed by type-tag string).
func (c *Context) callProtocolFn(f *value.ProtocolFn, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, &value.Error{Code: value.ErrArity, Message: "protocol function requires a receiver argument", Position: -1}
	}
	tag := value.TypeTag(args[0])
	impl, ok := f.Protocol.Lookup(tag, f.Method)
	if !ok {
		return nil, &value.Error{Code: value.ErrIllegalState, Message: "no implementation of " + f.Method + " for type " + string(tag), Position: -1}
	}
	return c.CallFn(impl, args)
}

// ForceThunk invokes a lazy-seq body function via the host's
// force_lazy_seq_fn slot, falling back to CallFn with no arguments when a
// dedicated slot was not supplied (spec.md §6.1 documents the two slots
// as distinct, but a host that only understands zero-arg application
// through call_fn can still drive lazy sequences this way).
func (c *Context) ForceThunk(fn value.Value) (value.Value, error) {
	if c.forceLazySeqFn != nil {
		return c.forceLazySeqFn(fn)
	}
	return c.CallFn(fn, nil)
}

// PushThreadBindings pushes a dynamic-binding frame, enforcing
// MaxBindingDepth (spec.md §5). Callers must defer the returned release
// func on every exit path.
func (c *Context) PushThreadBindings(bindings map[*ns.Var]value.Value) (release func(), err error) {
	if c.bindings.Depth() >= c.maxDepth {
		return func() {}, &value.Error{Code: value.ErrOutOfMemory, Message: "dynamic binding stack exceeded max depth", Position: -1}
	}
	return c.bindings.PushThreadBindings(bindings)
}

// MarkLoaded records name as having been required/loaded, returning
// whether it was already loaded (spec.md §4.6: require is a no-op on a
// namespace already loaded, absent :reload).
func (c *Context) MarkLoaded(name string) (alreadyLoaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	alreadyLoaded = c.loadedLibs[name]
	c.loadedLibs[name] = true
	return alreadyLoaded
}

// IsLoaded reports whether name has been required/loaded in this task.
func (c *Context) IsLoaded(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadedLibs[name]
}

// Unload clears name's loaded marker, used by :reload.
func (c *Context) Unload(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.loadedLibs, name)
}
