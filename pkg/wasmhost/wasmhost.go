// Package wasmhost gives the core's opaque wasm_module auxiliary Value
// (pkg/value/aux.go's WasmModule, spec.md §3.1: "treated opaquely by the
// core") a concrete body: a compiled and instantiated WASI module, backed
// by wazero.
//
// The wazero.NewRuntime / wasi_snapshot_preview1.Instantiate /
// CompileModule / InstantiateModule sequence here hosts an arbitrary
// guest WASM module from within the running core. The three WASM error
// kinds spec.md §7 names (WasmLoadError, WasmInvokeError, WasmMemoryError)
// are raised at the three points that can fail: compile, call, and
// memory access.
package wasmhost

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/sandrolain/cljcore/pkg/value"
)

// Host owns one wazero runtime shared by every module it loads, matching
// the teacher's one-runtime-per-process wazeroState (closing it tears
// down every module instantiated through it).
type Host struct {
	mu sync.Mutex
	rt wazero.Runtime
}

// New creates a Host with a fresh wazero runtime and WASI preview1 host
// imports instantiated into it, so guest modules that only need stdio/
// clock/random (the common case for a guest compiled from Go, Rust, or
// C) run unmodified.
func New(ctx context.Context) (*Host, error) {
	rt := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, &value.Error{Code: value.ErrWasmLoad, Message: "wasmhost: instantiate WASI imports: " + err.Error(), Position: -1}
	}
	return &Host{rt: rt}, nil
}

// Close tears down the underlying wazero runtime and every module
// instantiated through it.
func (h *Host) Close(ctx context.Context) error {
	return h.rt.Close(ctx)
}

// Module is the payload a *value.WasmModule points to (spec.md §3.4: "the
// Value keeps the module alive exactly as long as it is referenced" — the
// host never closes a Module itself; the embedding application owns the
// Host's lifetime).
type Module struct {
	name     string
	compiled wazero.CompiledModule
	instance api.Module
}

// Load compiles and instantiates wasmBytes as a named WASI module
// (spec.md §7's WasmLoadError covers both failure points). name becomes
// both the module's configured name (so exported globals/memory resolve)
// and the value stored in the resulting *value.WasmModule.Name.
func (h *Host) Load(ctx context.Context, name string, wasmBytes []byte) (*value.WasmModule, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	compiled, err := h.rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, &value.Error{Code: value.ErrWasmLoad, Message: "wasmhost: compile " + name + ": " + err.Error(), Position: -1}
	}
	cfg := wazero.NewModuleConfig().WithName(name).WithStartFunctions("_initialize")
	instance, err := h.rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		compiled.Close(ctx)
		return nil, &value.Error{Code: value.ErrWasmLoad, Message: "wasmhost: instantiate " + name + ": " + err.Error(), Position: -1}
	}
	return &value.WasmModule{
		Payload: &Module{name: name, compiled: compiled, instance: instance},
		Name:    name,
	}, nil
}

// moduleOf recovers the concrete *Module a *value.WasmModule wraps.
// Builtins are the only other caller allowed to reach into Payload
// (pkg/value/aux.go's doc comment).
func moduleOf(v *value.WasmModule) (*Module, error) {
	m, ok := v.Payload.(*Module)
	if !ok {
		return nil, &value.Error{Code: value.ErrWasmInvoke, Message: "wasmhost: value does not wrap a *wasmhost.Module", Position: -1}
	}
	return m, nil
}

// Invoke calls fnName exported from wm with the given i64 arguments,
// returning its i64 results (spec.md §7's WasmInvokeError covers a
// missing export or a trap during the call).
func Invoke(ctx context.Context, wm *value.WasmModule, fnName string, args []int64) ([]int64, error) {
	m, err := moduleOf(wm)
	if err != nil {
		return nil, err
	}
	fn := m.instance.ExportedFunction(fnName)
	if fn == nil {
		return nil, &value.Error{Code: value.ErrWasmInvoke, Message: "wasmhost: " + wm.Name + " has no exported function " + fnName, Position: -1}
	}
	u64Args := make([]uint64, len(args))
	for i, a := range args {
		u64Args[i] = api.EncodeI64(a)
	}
	results, err := fn.Call(ctx, u64Args...)
	if err != nil {
		return nil, &value.Error{Code: value.ErrWasmInvoke, Message: "wasmhost: call " + fnName + ": " + err.Error(), Position: -1}
	}
	out := make([]int64, len(results))
	for i, r := range results {
		out[i] = api.DecodeI64(r)
	}
	return out, nil
}

// ReadMemory copies size bytes from wm's linear memory at offset (spec.md
// §7's WasmMemoryError covers an out-of-bounds read — wazero reports this
// as a bool rather than an error, so it is translated here).
func ReadMemory(wm *value.WasmModule, offset, size uint32) ([]byte, error) {
	m, err := moduleOf(wm)
	if err != nil {
		return nil, err
	}
	mem := m.instance.Memory()
	if mem == nil {
		return nil, &value.Error{Code: value.ErrWasmMemory, Message: "wasmhost: " + wm.Name + " exports no memory", Position: -1}
	}
	buf, ok := mem.Read(offset, size)
	if !ok {
		return nil, &value.Error{Code: value.ErrWasmMemory, Message: "wasmhost: read out of bounds", Position: -1}
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// WriteMemory copies data into wm's linear memory at offset.
func WriteMemory(wm *value.WasmModule, offset uint32, data []byte) error {
	m, err := moduleOf(wm)
	if err != nil {
		return err
	}
	mem := m.instance.Memory()
	if mem == nil {
		return &value.Error{Code: value.ErrWasmMemory, Message: "wasmhost: " + wm.Name + " exports no memory", Position: -1}
	}
	if !mem.Write(offset, data) {
		return &value.Error{Code: value.ErrWasmMemory, Message: "wasmhost: write out of bounds", Position: -1}
	}
	return nil
}

// Unload closes a single module's compiled code, releasing its resources
// without tearing down the shared Host (spec.md §3.4's per-Value
// ownership: once nothing references the *value.WasmModule the embedding
// application may call this, but the core itself never does — it has no
// finalizer hook).
func (h *Host) Unload(ctx context.Context, wm *value.WasmModule) error {
	m, err := moduleOf(wm)
	if err != nil {
		return err
	}
	if err := m.instance.Close(ctx); err != nil {
		return &value.Error{Code: value.ErrWasmInvoke, Message: "wasmhost: close instance: " + err.Error(), Position: -1}
	}
	return m.compiled.Close(ctx)
}
