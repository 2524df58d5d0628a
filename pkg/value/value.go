// Package value defines the evaluation runtime's universal tagged sum.
//
// Value is a closed set of variants: scalars (Nil, Bool, Int, Float, Char),
// text/identifiers (String, Keyword, Symbol), persistent collections
// (List, Vector, Map, Set), function-like values (Fn, PartialFn, CompFn,
// MultiFn, Protocol, ProtocolFn), reference cells (Atom, Volatile, Delay,
// Promise, Reduced, LazySeq, Var, Namespace) and a pair of opaque auxiliary variants
// (Regex, WasmModule) that the core never looks inside.
//
// Every built-in operator pattern-matches exhaustively over this set
// instead of relying on runtime-typed inheritance.
package value

// Value is implemented only by the types in this package and the sibling
// packages (refs, lazyseq, ns) that hold a Value reference cell. IsValue
// is a no-op marker method; it exists only so the variant's intent to
// participate in this sum is explicit and grep-able, not to seal the set
// against outside packages (an unexported marker can't cross a package
// boundary and still satisfy the interface, since Go's unexported method
// identity is package-qualified).
type Value interface {
	IsValue()
}

// Tag identifies a Value's variant without a type switch, useful for
// dispatch tables (multi-fn, protocol implementations keyed by type tag).
type Tag string

const (
	TagNil      Tag = "nil"
	TagBool     Tag = "bool"
	TagInt      Tag = "int"
	TagFloat    Tag = "float"
	TagChar     Tag = "char"
	TagString   Tag = "string"
	TagKeyword  Tag = "keyword"
	TagSymbol   Tag = "symbol"
	TagList     Tag = "list"
	TagVector   Tag = "vector"
	TagMap      Tag = "map"
	TagSet      Tag = "set"
	TagFn       Tag = "fn"
	TagPartial  Tag = "partial_fn"
	TagComp     Tag = "comp_fn"
	TagMultiFn  Tag = "multi_fn"
	TagProtoFn  Tag = "protocol_fn"
	TagProto    Tag = "protocol"
	TagAtom     Tag = "atom"
	TagVolatile Tag = "volatile"
	TagDelay    Tag = "delay"
	TagPromise  Tag = "promise"
	TagReduced  Tag = "reduced"
	TagLazySeq  Tag = "lazy_seq"
	TagVar       Tag = "var"
	TagNamespace Tag = "namespace"
	TagRegex     Tag = "regex"
	TagWasm      Tag = "wasm_module"
)

// TypeTag returns the variant tag for v, used by protocol dispatch tables
// (spec.md §3.1: "protocol ... implementation table keyed by type-tag
// string").
func TypeTag(v Value) Tag {
	switch v.(type) {
	case Nil:
		return TagNil
	case Bool:
		return TagBool
	case Int:
		return TagInt
	case Float:
		return TagFloat
	case Char:
		return TagChar
	case String:
		return TagString
	case Keyword:
		return TagKeyword
	case Symbol:
		return TagSymbol
	case *List:
		return TagList
	case *Vector:
		return TagVector
	case *Map:
		return TagMap
	case *Set:
		return TagSet
	default:
		return Tag(tagFromDynamic(v))
	}
}

// tagFromDynamic covers the variants implemented in sibling packages
// (Fn-likes, reference cells) via the Tagger interface so this package does
// not need to import them back.
func tagFromDynamic(v Value) Tag {
	if t, ok := v.(Tagger); ok {
		return t.ValueTag()
	}
	return ""
}

// Tagger is implemented by Value variants defined outside this package
// (function-like values, reference cells) so TypeTag still works uniformly.
type Tagger interface {
	ValueTag() Tag
}

// Truthy implements spec.md §3.1: nil and false are the only falsy values.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(x)
	default:
		return true
	}
}

// Meta is the optional metadata map every collection/Var-like value may
// carry (spec.md §3.1 "optional metadata pointer").
type Meta struct {
	entries *Map
}

// NilMeta is the absence of metadata.
var NilMeta = Meta{}

// Get returns the metadata map, or nil if none is attached.
func (m Meta) Get() *Map { return m.entries }

// With returns a Meta wrapping m merged with overrides, or overrides alone
// if m carries none yet.
func (m Meta) With(overrides *Map) Meta {
	if m.entries == nil {
		return Meta{entries: overrides}
	}
	merged := m.entries
	for _, e := range overrides.entries {
		merged = merged.Assoc(e.key, e.val)
	}
	return Meta{entries: merged}
}

// Metaable is implemented by every Value variant that can carry metadata.
type Metaable interface {
	Value
	Meta() Meta
	WithMeta(m Meta) Value
}
