package value

// Regex wraps a compiled regular expression as an opaque auxiliary value
// (spec.md §3.1: "treated opaquely by the core"). Payload is typically a
// *regexp.Regexp but this package never inspects it.
type Regex struct {
	Payload any
	Source  string
}

func (*Regex) IsValue()      {}
func (*Regex) ValueTag() Tag { return TagRegex }

// WasmModule wraps a loaded WebAssembly module as an opaque auxiliary
// value (spec.md §3.1, §2 of SPEC_FULL.md). Payload is a *wasmhost.Module;
// this package depends on neither wazero nor pkg/wasmhost, preserving the
// "treated opaquely by the core" contract — pkg/wasmhost and pkg/builtins
// are the only packages that type-assert Payload back to a concrete type.
type WasmModule struct {
	Payload any
	Name    string
}

func (*WasmModule) IsValue()      {}
func (*WasmModule) ValueTag() Tag { return TagWasm }
