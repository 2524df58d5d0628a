// Package lazyseq implements the lazy-sequence engine of spec.md §4.3:
// one-step forcing of thunks, transforms, concatenations, generators, and
// take-limited streams, with the invariant that forcing one step never
// evaluates the tail.
//
// Grounded on the teacher's pkg/evaluator/eval_stream.go, whose
// EvalStream decodes and evaluates exactly one JSON document at a time
// off a channel, never buffering ahead — the same "produce one step,
// never force the rest" discipline this package needs, re-expressed as a
// synchronous in-place cell mutation since spec.md §5 assumes a
// single-threaded cooperative scheduler rather than eval_stream.go's
// goroutine-plus-channel shape.
package lazyseq

import "github.com/sandrolain/cljcore/pkg/value"

// Caller is the subset of the host evaluator's callback slots (spec.md
// §4.7, §6.1) the lazy engine needs: call_fn to apply transform/generator
// functions, force_lazy_seq_fn to drive a thunk. Supplied by pkg/runtime.
type Caller interface {
	CallFn(fn value.Value, args []value.Value) (value.Value, error)
	ForceThunk(fn value.Value) (value.Value, error)
}

type repKind int

const (
	repThunk repKind = iota
	repCons
	repTransform
	repConcat
	repGenerator
	repTake
	repRealized
)

type transformKind int

const (
	TMap transformKind = iota
	TFilter
	TMapcat
	TTakeWhile
	TDropWhile
	TMapIndexed
)

type generatorKind int

const (
	GIterate generatorKind = iota
	GRepeat
	GCycle
	GRange
)

// LazySeq is a cell that computes its elements on demand in one-element
// steps (spec.md §4.3). At most one representation is populated at a
// time; ForceOneStep transitions it into cons or realized form.
type LazySeq struct {
	kind repKind
	meta value.Meta

	// thunk
	thunkFn value.Value

	// cons
	head value.Value
	tail value.Value

	// transform
	tKind   transformKind
	tFn     value.Value
	tSource value.Value
	tIndex  int

	// concat
	sources []value.Value

	// generator
	gKind    generatorKind
	gFn      value.Value
	gState   value.Value
	gStep    value.Value
	gOrig    value.Value // cycle's original source, for wraparound

	// take
	takeSource value.Value
	takeN      int

	// realized
	realized value.Value
}

func (*LazySeq) IsValue()            {}
func (*LazySeq) ValueTag() value.Tag { return value.TagLazySeq }
func (l *LazySeq) Meta() value.Meta  { return l.meta }
func (l *LazySeq) WithMeta(m value.Meta) value.Value {
	cp := *l
	cp.meta = m
	return &cp
}

// NewThunk builds a lazy seq backed by a zero-argument user function that
// returns a concrete collection, Nil, or another *LazySeq.
func NewThunk(fn value.Value) *LazySeq { return &LazySeq{kind: repThunk, thunkFn: fn} }

// NewCons builds a lazy seq with a known head and a (possibly deferred)
// tail — the canonical "one element known, rest possibly deferred" shape.
func NewCons(head, tail value.Value) *LazySeq { return &LazySeq{kind: repCons, head: head, tail: tail} }

// NewTransform builds a map/filter/mapcat/take-while/drop-while/
// map-indexed transform over source.
func NewTransform(kind transformKind, fn, source value.Value) *LazySeq {
	return &LazySeq{kind: repTransform, tKind: kind, tFn: fn, tSource: source}
}

// NewConcat builds a lazy seq walking each of sources in order.
func NewConcat(sources []value.Value) *LazySeq {
	return &LazySeq{kind: repConcat, sources: sources}
}

// NewIterate builds (iterate fn seed): seed, fn(seed), fn(fn(seed)), ...
func NewIterate(fn, seed value.Value) *LazySeq {
	return &LazySeq{kind: repGenerator, gKind: GIterate, gFn: fn, gState: seed}
}

// NewRepeat builds an infinite stream of val.
func NewRepeat(val value.Value) *LazySeq {
	return &LazySeq{kind: repGenerator, gKind: GRepeat, gState: val}
}

// NewCycle builds an infinite repetition of source's elements. An empty
// source yields the empty sequence once forced (spec.md §4.3 item 8).
func NewCycle(source value.Value) *LazySeq {
	return &LazySeq{kind: repGenerator, gKind: GCycle, gState: source, gOrig: source}
}

// NewRangeInfinite builds start, start+step, start+2*step, ...
func NewRangeInfinite(start, step value.Value) *LazySeq {
	return &LazySeq{kind: repGenerator, gKind: GRange, gState: start, gStep: step}
}

// NewTake builds a lazy seq producing at most n elements of source.
func NewTake(source value.Value, n int) *LazySeq {
	return &LazySeq{kind: repTake, takeSource: source, takeN: n}
}

func orNilVal(v value.Value) value.Value {
	if v == nil {
		return value.NilVal
	}
	return v
}

func isNilVal(v value.Value) bool {
	_, ok := orNilVal(v).(value.Nil)
	return ok
}

// normalizeSource converts an already-realized, finite collection into a
// *value.List so the stepping helpers below only need to special-case
// value.Nil, *value.List, and *LazySeq.
func normalizeSource(v value.Value) value.Value {
	switch x := v.(type) {
	case nil:
		return value.NilVal
	case value.Nil:
		return x
	case *value.List:
		return x
	case *value.Vector:
		return value.ListFromSlice(x.Items())
	case *value.Set:
		return value.ListFromSlice(x.Items())
	case *value.Map:
		items := make([]value.Value, 0, x.Count())
		for _, e := range x.Entries() {
			items = append(items, e)
		}
		return value.ListFromSlice(items)
	default:
		return x
	}
}

// becomeFromValue normalizes a concrete collection/Nil result (as
// returned by a thunk, or a sub-collection in mapcat) into this cell's
// cons or realized-empty form.
func (l *LazySeq) becomeFromValue(v value.Value) {
	v = normalizeSource(orNilVal(v))
	if isNilVal(v) {
		l.kind = repRealized
		l.realized = value.NilVal
		return
	}
	if lst, ok := v.(*value.List); ok {
		if lst.Count() == 0 {
			l.kind = repRealized
			l.realized = value.NilVal
			return
		}
		l.kind = repCons
		l.head = lst.First()
		l.tail = lst.Rest()
		return
	}
	// Already a *LazySeq (shouldn't reach here via becomeFromValue; callers
	// splice those directly) or an unexpected scalar: treat as a single
	// element sequence defensively.
	l.kind = repCons
	l.head = v
	l.tail = value.EmptyList
}

// ForceOneStep brings ls into cons or realized form, without evaluating
// its tail (spec.md §4.3's central invariant). Idempotent: calling it
// again on an already-forced cell is a no-op.
func (l *LazySeq) ForceOneStep(c Caller) error {
	for {
		switch l.kind {
		case repCons, repRealized:
			return nil
		case repThunk:
			result, err := c.ForceThunk(l.thunkFn)
			if err != nil {
				return err
			}
			if inner, ok := result.(*LazySeq); ok {
				l.spliceFrom(inner)
				continue
			}
			l.becomeFromValue(result)
			return nil
		case repTransform:
			return l.forceTransform(c)
		case repConcat:
			return l.forceConcat(c)
		case repGenerator:
			return l.forceGenerator(c)
		case repTake:
			return l.forceTake(c)
		default:
			return nil
		}
	}
}

// spliceFrom takes over inner's representation fields wholesale (spec.md
// §4.3 item 1: "splice that inner cell's representation into ls").
func (l *LazySeq) spliceFrom(inner *LazySeq) {
	meta := l.meta
	*l = *inner
	l.meta = meta
}

// stepOf forces one step of v (a seqable Value: Nil, *value.List, or
// *LazySeq) and reports its head, remaining tail, and whether it is
// exhausted.
func stepOf(v value.Value, c Caller) (head value.Value, rest value.Value, exhausted bool, err error) {
	v = normalizeSource(orNilVal(v))
	switch x := v.(type) {
	case value.Nil:
		return nil, value.EmptyList, true, nil
	case *value.List:
		if x.Count() == 0 {
			return nil, value.EmptyList, true, nil
		}
		return x.First(), x.Rest(), false, nil
	case *LazySeq:
		if err := x.ForceOneStep(c); err != nil {
			return nil, nil, false, err
		}
		if x.kind == repRealized {
			return nil, value.EmptyList, true, nil
		}
		return x.head, x.tail, false, nil
	default:
		// A bare scalar handed in as a "source" is treated as a one-element
		// sequence, mirroring Clojure's permissive seq coercion.
		return x, value.EmptyList, false, nil
	}
}

func (l *LazySeq) forceTransform(c Caller) error {
	switch l.tKind {
	case TMap:
		head, rest, exhausted, err := stepOf(l.tSource, c)
		if err != nil {
			return err
		}
		if exhausted {
			l.kind, l.realized = repRealized, value.NilVal
			return nil
		}
		mapped, err := c.CallFn(l.tFn, []value.Value{head})
		if err != nil {
			return err
		}
		l.kind, l.head, l.tail = repCons, mapped, NewTransform(TMap, l.tFn, rest)
		return nil

	case TFilter:
		source := l.tSource
		for {
			head, rest, exhausted, err := stepOf(source, c)
			if err != nil {
				return err
			}
			if exhausted {
				l.kind, l.realized = repRealized, value.NilVal
				return nil
			}
			ok, err := c.CallFn(l.tFn, []value.Value{head})
			if err != nil {
				return err
			}
			if value.Truthy(orNilVal(ok)) {
				l.kind, l.head, l.tail = repCons, head, NewTransform(TFilter, l.tFn, rest)
				return nil
			}
			source = rest
		}

	case TMapcat:
		source := l.tSource
		for {
			head, rest, exhausted, err := stepOf(source, c)
			if err != nil {
				return err
			}
			if exhausted {
				l.kind, l.realized = repRealized, value.NilVal
				return nil
			}
			sub, err := c.CallFn(l.tFn, []value.Value{head})
			if err != nil {
				return err
			}
			subHead, subRest, subExhausted, err := stepOf(sub, c)
			if err != nil {
				return err
			}
			if subExhausted {
				source = rest
				continue
			}
			l.kind = repCons
			l.head = subHead
			l.tail = NewConcat([]value.Value{subRest, NewTransform(TMapcat, l.tFn, rest)})
			return nil
		}

	case TTakeWhile:
		head, rest, exhausted, err := stepOf(l.tSource, c)
		if err != nil {
			return err
		}
		if exhausted {
			l.kind, l.realized = repRealized, value.NilVal
			return nil
		}
		ok, err := c.CallFn(l.tFn, []value.Value{head})
		if err != nil {
			return err
		}
		if !value.Truthy(orNilVal(ok)) {
			l.kind, l.realized = repRealized, value.NilVal
			return nil
		}
		l.kind, l.head, l.tail = repCons, head, NewTransform(TTakeWhile, l.tFn, rest)
		return nil

	case TDropWhile:
		source := l.tSource
		for {
			head, rest, exhausted, err := stepOf(source, c)
			if err != nil {
				return err
			}
			if exhausted {
				l.kind, l.realized = repRealized, value.NilVal
				return nil
			}
			ok, err := c.CallFn(l.tFn, []value.Value{head})
			if err != nil {
				return err
			}
			if value.Truthy(orNilVal(ok)) {
				source = rest
				continue
			}
			l.kind, l.head, l.tail = repCons, head, rest
			return nil
		}

	case TMapIndexed:
		head, rest, exhausted, err := stepOf(l.tSource, c)
		if err != nil {
			return err
		}
		if exhausted {
			l.kind, l.realized = repRealized, value.NilVal
			return nil
		}
		mapped, err := c.CallFn(l.tFn, []value.Value{value.Int(l.tIndex), head})
		if err != nil {
			return err
		}
		next := NewTransform(TMapIndexed, l.tFn, rest)
		next.tIndex = l.tIndex + 1
		l.kind, l.head, l.tail = repCons, mapped, next
		return nil
	}
	return nil
}

func (l *LazySeq) forceConcat(c Caller) error {
	sources := l.sources
	for len(sources) > 0 {
		head, rest, exhausted, err := stepOf(sources[0], c)
		if err != nil {
			return err
		}
		if exhausted {
			sources = sources[1:]
			continue
		}
		remaining := append([]value.Value{rest}, sources[1:]...)
		l.kind, l.head, l.tail = repCons, head, NewConcat(remaining)
		return nil
	}
	l.kind, l.realized = repRealized, value.NilVal
	return nil
}

func (l *LazySeq) forceGenerator(c Caller) error {
	switch l.gKind {
	case GIterate:
		next, err := c.CallFn(l.gFn, []value.Value{l.gState})
		if err != nil {
			return err
		}
		l.kind, l.head, l.tail = repCons, l.gState, NewIterate(l.gFn, next)
		return nil
	case GRepeat:
		l.kind, l.head, l.tail = repCons, l.gState, NewRepeat(l.gState)
		return nil
	case GCycle:
		head, rest, exhausted, err := stepOf(l.gState, c)
		if err != nil {
			return err
		}
		if exhausted {
			// Either the original source was empty, or we've wrapped
			// around; either way, try the original once more to
			// distinguish "empty to begin with" from "wrap around".
			origHead, origRest, origExhausted, err := stepOf(l.gOrig, c)
			if err != nil {
				return err
			}
			if origExhausted {
				l.kind, l.realized = repRealized, value.NilVal
				return nil
			}
			l.kind, l.head = repCons, origHead
			tail := &LazySeq{kind: repGenerator, gKind: GCycle, gState: origRest, gOrig: l.gOrig}
			l.tail = tail
			return nil
		}
		l.kind, l.head = repCons, head
		l.tail = &LazySeq{kind: repGenerator, gKind: GCycle, gState: rest, gOrig: l.gOrig}
		return nil
	case GRange:
		next, err := numAdd(l.gState, l.gStep)
		if err != nil {
			return err
		}
		l.kind, l.head, l.tail = repCons, l.gState, NewRangeInfinite(next, l.gStep)
		return nil
	}
	return nil
}

func numAdd(a, b value.Value) (value.Value, error) {
	ai, aInt := a.(value.Int)
	bi, bInt := b.(value.Int)
	if aInt && bInt {
		return ai + bi, nil
	}
	af, aok := value.AsFloat64(a)
	bf, bok := value.AsFloat64(b)
	if !aok || !bok {
		return nil, &value.Error{Code: value.ErrType, Message: "range step requires numbers", Position: -1}
	}
	return value.Float(af + bf), nil
}

func (l *LazySeq) forceTake(c Caller) error {
	if l.takeN <= 0 {
		l.kind, l.realized = repRealized, value.NilVal
		return nil
	}
	head, rest, exhausted, err := stepOf(l.takeSource, c)
	if err != nil {
		return err
	}
	if exhausted {
		l.kind, l.realized = repRealized, value.NilVal
		return nil
	}
	l.kind, l.head, l.tail = repCons, head, NewTake(rest, l.takeN-1)
	return nil
}

// First implements spec.md §4.3's observation API: one-step force, then
// return the head (or the concrete realized container's first element, or
// Nil if exhausted).
func (l *LazySeq) First(c Caller) (value.Value, error) {
	if err := l.ForceOneStep(c); err != nil {
		return nil, err
	}
	if l.kind == repCons {
		return l.head, nil
	}
	return value.NilVal, nil
}

// Rest implements spec.md §4.3's observation API: one-step force, then
// return the tail (or a concrete empty list if exhausted).
func (l *LazySeq) Rest(c Caller) (value.Value, error) {
	if err := l.ForceOneStep(c); err != nil {
		return nil, err
	}
	if l.kind == repCons {
		return l.tail, nil
	}
	return value.EmptyList, nil
}

// ForceAll loops stepping until realized, accumulating heads into a new
// list. Callable only on sequences known to be finite (spec.md §4.3); the
// caller is responsible for that invariant — this function will not
// return if ls is genuinely infinite.
func ForceAll(v value.Value, c Caller) (*value.List, error) {
	var out []value.Value
	cur := v
	for {
		head, rest, exhausted, err := stepOf(cur, c)
		if err != nil {
			return nil, err
		}
		if exhausted {
			break
		}
		out = append(out, head)
		cur = rest
	}
	return value.ListFromSlice(out), nil
}

// StepOf exposes stepOf to pkg/builtins for sequence operators that need
// to walk arbitrary seqable values (lists, vectors, lazy seqs) uniformly.
func StepOf(v value.Value, c Caller) (head value.Value, rest value.Value, exhausted bool, err error) {
	return stepOf(v, c)
}
