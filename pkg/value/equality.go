package value

import "math"

// Equal implements spec.md §3.1's equality invariant: structural for
// scalars, strings, identifiers and collections (same kind, same
// elements/entries by Equal); reference identity for mutable cells and
// function-like values, except keywords which always compare by
// name/namespace.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return float64(x) == float64(y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return float64(x) == float64(y)
		case Float:
			return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
		}
		return false
	case Char:
		y, ok := b.(Char)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Keyword:
		y, ok := b.(Keyword)
		return ok && x.Ident == y.Ident
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x.Ident == y.Ident
	case *List:
		y, ok := b.(*List)
		return ok && listEqual(x, y)
	case *Vector:
		y, ok := b.(*Vector)
		return ok && vectorEqual(x, y)
	case *Map:
		y, ok := b.(*Map)
		return ok && mapEqual(x, y)
	case *Set:
		y, ok := b.(*Set)
		return ok && setEqual(x, y)
	default:
		// Function-like values, reference cells: identity.
		return a == b
	}
}

func listEqual(a, b *List) bool {
	for {
		aEmpty, bEmpty := a == nil || a.empty(), b == nil || b.empty()
		if aEmpty || bEmpty {
			return aEmpty == bEmpty
		}
		if !Equal(a.head, b.head) {
			return false
		}
		a, b = a.tail, b.tail
	}
}

func vectorEqual(a, b *Vector) bool {
	if len(a.items) != len(b.items) {
		return false
	}
	for i := range a.items {
		if !Equal(a.items[i], b.items[i]) {
			return false
		}
	}
	return true
}

func mapEqual(a, b *Map) bool {
	if len(a.entries) != len(b.entries) {
		return false
	}
	for _, e := range a.entries {
		bv, ok := b.Get(e.key)
		if !ok || !Equal(e.val, bv) {
			return false
		}
	}
	return true
}

func setEqual(a, b *Set) bool {
	if len(a.items) != len(b.items) {
		return false
	}
	for _, v := range a.items {
		if !b.Contains(v) {
			return false
		}
	}
	return true
}

// HashCode is a structural hash leaf consistent with Equal, extended by
// pkg/hashkit into the full Murmur3-style mix (spec.md §9's open question
// on the placeholder hash: resolved here to be structural, not a stub).
func HashCode(v Value) uint64 {
	const fnvOffset = 14695981039346656037
	const fnvPrime = 1099511628211
	mix := func(h uint64, b byte) uint64 { return (h ^ uint64(b)) * fnvPrime }
	mixStr := func(h uint64, s string) uint64 {
		for i := 0; i < len(s); i++ {
			h = mix(h, s[i])
		}
		return h
	}
	h := uint64(fnvOffset)
	switch x := v.(type) {
	case Nil:
		return mixStr(h, "nil")
	case Bool:
		if x {
			return mixStr(h, "true")
		}
		return mixStr(h, "false")
	case Int:
		return mixStr(h, "i")<<1 ^ uint64(x)
	case Float:
		// Integral floats hash as the Int they equal, so (= 1 1.0) and
		// (= 0.0 -0.0) keep equal hashes.
		if f := float64(x); f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 {
			return HashCode(Int(int64(f)))
		}
		return mixStr(h, "f") ^ math.Float64bits(float64(x))
	case Char:
		return mixStr(h, "c") ^ uint64(x)
	case String:
		return mixStr(h, string(x))
	case Keyword:
		return mixStr(mixStr(h, "kw:"+x.Namespace), "/"+x.Name)
	case Symbol:
		return mixStr(mixStr(h, "sym:"+x.Namespace), "/"+x.Name)
	case *List:
		h = mixStr(h, "list")
		for n := x; n != nil && !n.empty(); n = n.tail {
			h ^= HashCode(n.head)
		}
		return h
	case *Vector:
		h = mixStr(h, "vec")
		for _, e := range x.items {
			h = h*31 ^ HashCode(e)
		}
		return h
	case *Map:
		h = mixStr(h, "map")
		for _, e := range x.entries {
			h ^= HashCode(e.key) ^ HashCode(e.val)
		}
		return h
	case *Set:
		h = mixStr(h, "set")
		for _, e := range x.items {
			h ^= HashCode(e)
		}
		return h
	default:
		return h
	}
}
