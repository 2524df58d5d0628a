package value

// Fn is a user-defined closure or a built-in, invoked only through the
// host's call_fn callback (spec.md §4.7) — this package never calls one
// directly since it has no notion of the evaluator.
type Fn struct {
	Name    string
	Arity   Arity
	Builtin bool
	// Native is set for built-ins registered directly in Go (pkg/builtins);
	// Closure is opaque data the host evaluator interprets for user-defined
	// functions (param list + body + captured env).
	Native  NativeFn
	Closure any
	meta    Meta
}

// NativeFn is the signature of a Go-implemented built-in. The Context
// parameter is an opaque handle the implementation forwards to call_fn/
// force_lazy_seq_fn without inspecting; concretely it is always a
// *runtime.Context, but this package must not import pkg/runtime (which
// itself depends on pkg/value), so the type is erased to any here and
// restored via a type assertion in pkg/builtins.
type NativeFn func(rt any, args []Value) (Value, error)

// Arity describes how many arguments a function accepts. Max == -1 means
// variadic (unbounded).
type Arity struct {
	Min int
	Max int
}

func (*Fn) IsValue()          {}
func (*Fn) ValueTag() Tag     { return TagFn }
func (f *Fn) Meta() Meta      { return f.meta }
func (f *Fn) WithMeta(m Meta) Value {
	cp := *f
	cp.meta = m
	return &cp
}

// NewNativeFn constructs a built-in Fn value.
func NewNativeFn(name string, arity Arity, fn NativeFn) *Fn {
	return &Fn{Name: name, Arity: arity, Builtin: true, Native: fn}
}

// PartialFn is a captured function plus pre-applied prefix arguments
// (spec.md §3.1).
type PartialFn struct {
	Fn   Value
	Args []Value
	meta Meta
}

func (*PartialFn) IsValue()      {}
func (*PartialFn) ValueTag() Tag { return TagPartial }
func (p *PartialFn) Meta() Meta  { return p.meta }
func (p *PartialFn) WithMeta(m Meta) Value {
	cp := *p
	cp.meta = m
	return &cp
}

// CompFn is an ordered tuple of functions composed right-to-left
// (spec.md §3.1).
type CompFn struct {
	Fns  []Value
	meta Meta
}

func (*CompFn) IsValue()      {}
func (*CompFn) ValueTag() Tag { return TagComp }
func (c *CompFn) Meta() Meta  { return c.meta }
func (c *CompFn) WithMeta(m Meta) Value {
	cp := *c
	cp.meta = m
	return &cp
}

// MultiFn is a dispatch function plus a method table keyed by dispatch
// value (spec.md §3.1).
type MultiFn struct {
	Name       string
	DispatchFn Value
	Methods    map[string]Value // keyed by a printed form of the dispatch value
	Default    Value
	meta       Meta
}

func (*MultiFn) IsValue()      {}
func (*MultiFn) ValueTag() Tag { return TagMultiFn }
func (m *MultiFn) Meta() Meta  { return m.meta }
func (m *MultiFn) WithMeta(mm Meta) Value {
	cp := *m
	cp.meta = mm
	return &cp
}

// Protocol is a named set of method signatures with an implementation
// table keyed by type-tag string (spec.md §3.1).
type Protocol struct {
	Name    string
	Methods map[string][]Value // method name -> [typeTag, implFn, typeTag, implFn, ...] flattened
	meta    Meta
}

func (*Protocol) IsValue()      {}
func (*Protocol) ValueTag() Tag { return TagProto }
func (p *Protocol) Meta() Meta  { return p.meta }
func (p *Protocol) WithMeta(m Meta) Value {
	cp := *p
	cp.meta = m
	return &cp
}

// Impl registers fn as the implementation of method for the given type tag.
func (p *Protocol) Impl(typeTag Tag, method string, fn Value) {
	if p.Methods == nil {
		p.Methods = make(map[string][]Value)
	}
	p.Methods[method] = append(p.Methods[method], String(typeTag), fn)
}

// Lookup finds the implementation of method for typeTag, if any.
func (p *Protocol) Lookup(typeTag Tag, method string) (Value, bool) {
	entries := p.Methods[method]
	for i := 0; i+1 < len(entries); i += 2 {
		if s, ok := entries[i].(String); ok && string(s) == string(typeTag) {
			return entries[i+1], true
		}
	}
	return nil, false
}

// ProtocolFn is a method name bound to its owning protocol (spec.md §3.1).
type ProtocolFn struct {
	Protocol *Protocol
	Method   string
	meta     Meta
}

func (*ProtocolFn) IsValue()      {}
func (*ProtocolFn) ValueTag() Tag { return TagProtoFn }
func (f *ProtocolFn) Meta() Meta  { return f.meta }
func (f *ProtocolFn) WithMeta(m Meta) Value {
	cp := *f
	cp.meta = m
	return &cp
}
