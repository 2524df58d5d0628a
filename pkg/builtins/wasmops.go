package builtins

import (
	"context"
	"os"

	"github.com/sandrolain/cljcore/pkg/value"
	"github.com/sandrolain/cljcore/pkg/wasmhost"
)

// Grounded on pkg/wasmhost's Host/Invoke pair (itself grounded on
// tests/comparison/wasm_comparison_test.go's wazeroState) — these
// built-ins are the clojure.core surface spec.md §2 of SPEC_FULL.md
// describes: the core only stores and forwards a *value.WasmModule, never
// inspecting its Payload itself.

// fnWasmLoad reads the file at path and loads it as a named WASI module
// through the installed WasmHost (spec.md §7: WasmLoadError covers a
// missing host, a missing file, and a compile/instantiate failure).
func fnWasmLoad(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("wasm-load", args, 2, 2); err != nil {
		return nil, err
	}
	name, err := asString("wasm-load", args[0])
	if err != nil {
		return nil, err
	}
	path, err := asString("wasm-load", args[1])
	if err != nil {
		return nil, err
	}
	host := rtOf(rt).WasmHost()
	if host == nil {
		return nil, &value.Error{Code: value.ErrWasmLoad, Message: "wasm-load: no WASM host installed", Position: -1}
	}
	wasmBytes, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, &value.Error{Code: value.ErrWasmLoad, Message: "wasm-load: " + readErr.Error(), Position: -1}
	}
	return host.Load(context.Background(), name, wasmBytes)
}

// fnWasmInvoke calls fn-name exported from module with integer args,
// returning a vector of its integer results (spec.md §7: WasmInvokeError
// covers a missing export and a trap during the call).
func fnWasmInvoke(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("wasm-invoke", args, 2, -1); err != nil {
		return nil, err
	}
	wm, ok := args[0].(*value.WasmModule)
	if !ok {
		return nil, typeError("wasm-invoke", "requires a wasm_module value")
	}
	fnName, err := identOrString("wasm-invoke", args[1])
	if err != nil {
		return nil, err
	}
	callArgs := make([]int64, len(args)-2)
	for i, a := range args[2:] {
		n, ok := a.(value.Int)
		if !ok {
			return nil, typeError("wasm-invoke", "arguments must be integers")
		}
		callArgs[i] = int64(n)
	}
	results, invErr := wasmhost.Invoke(context.Background(), wm, fnName, callArgs)
	if invErr != nil {
		return nil, invErr
	}
	out := make([]value.Value, len(results))
	for i, r := range results {
		out[i] = value.Int(r)
	}
	return value.NewVector(out...), nil
}

func identOrString(name string, v value.Value) (string, error) {
	switch x := v.(type) {
	case value.Symbol:
		return x.Name, nil
	case value.Keyword:
		return x.Name, nil
	case value.String:
		return string(x), nil
	}
	return "", typeError(name, "expects a symbol, keyword, or string")
}

var wasmDefs = []Def{
	def("wasm-load", 2, 2, fnWasmLoad),
	def("wasm-invoke", 2, -1, fnWasmInvoke),
}
