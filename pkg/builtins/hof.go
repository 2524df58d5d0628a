package builtins

import (
	"sort"

	"github.com/sandrolain/cljcore/pkg/hashkit"
	"github.com/sandrolain/cljcore/pkg/lazyseq"
	"github.com/sandrolain/cljcore/pkg/refs"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Grounded on pkg/evaluator/fn_hof.go's callHOFFn dispatch and fnMap/
// fnFilter shape, re-expressed over value.Value/lazyseq instead of
// interface{}/JSON arrays, and spec.md §4.4's higher-order operators.

func fnApply(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("apply", args, 2, -1); err != nil {
		return nil, err
	}
	fn := args[0]
	last := args[len(args)-1]
	lst, err := lazyseq.ForceAll(last, caller(rt))
	if err != nil {
		return nil, err
	}
	callArgs := append(append([]value.Value{}, args[1:len(args)-1]...), lst.ToSlice()...)
	return rtOf(rt).CallFn(fn, callArgs)
}

func fnPartial(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("partial", args, 1, -1); err != nil {
		return nil, err
	}
	pre := make([]value.Value, len(args)-1)
	copy(pre, args[1:])
	return &value.PartialFn{Fn: args[0], Args: pre}, nil
}

func fnComp(rt any, args []value.Value) (value.Value, error) {
	fns := make([]value.Value, len(args))
	copy(fns, args)
	return &value.CompFn{Fns: fns}, nil
}

// callAny invokes any callable Value. The Partial/Comp/MultiFn/ProtocolFn
// unwinding lives in runtime.Context.CallFn itself so the lazy-seq engine
// (which only ever sees the lazyseq.Caller interface) gets the same
// dispatch as builtins do.
func callAny(rt any, fn value.Value, args []value.Value) (value.Value, error) {
	return rtOf(rt).CallFn(fn, args)
}

func fnReduce(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("reduce", args, 2, 3); err != nil {
		return nil, err
	}
	fn := args[0]
	var acc value.Value
	cur := args[len(args)-1]
	c := caller(rt)
	if len(args) == 2 {
		head, rest, exhausted, err := lazyseq.StepOf(cur, c)
		if err != nil {
			return nil, err
		}
		if exhausted {
			return callAny(rt, fn, nil)
		}
		acc = head
		cur = rest
	} else {
		acc = args[1]
	}
	for {
		head, rest, exhausted, err := lazyseq.StepOf(cur, c)
		if err != nil {
			return nil, err
		}
		if exhausted {
			return acc, nil
		}
		acc, err = callAny(rt, fn, []value.Value{acc, head})
		if err != nil {
			return nil, err
		}
		if red, ok := acc.(*refs.Reduced); ok {
			return red.Val, nil
		}
		cur = rest
	}
}

func fnReduceKv(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("reduce-kv", args, 3, 3); err != nil {
		return nil, err
	}
	fn, acc, coll := args[0], args[1], args[2]
	m, ok := coll.(*value.Map)
	if !ok {
		return nil, typeError("reduce-kv", "requires a map")
	}
	for _, entry := range m.Entries() {
		items := entry.Items()
		var err error
		acc, err = callAny(rt, fn, []value.Value{acc, items[0], items[1]})
		if err != nil {
			return nil, err
		}
		if red, ok := acc.(*refs.Reduced); ok {
			return red.Val, nil
		}
	}
	return acc, nil
}

func fnReductions(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("reductions", args, 2, 3); err != nil {
		return nil, err
	}
	// reductions needs every intermediate accumulator, not just the final
	// one; build the list eagerly since it is always finite in practice
	// (its source collection already is, per spec.md §4.4).
	fn := args[0]
	var acc value.Value
	var out []value.Value
	cur := args[len(args)-1]
	c := caller(rt)
	if len(args) == 2 {
		head, rest, exhausted, err := lazyseq.StepOf(cur, c)
		if err != nil {
			return nil, err
		}
		if exhausted {
			r, err := callAny(rt, fn, nil)
			if err != nil {
				return nil, err
			}
			return value.ListFromSlice([]value.Value{r}), nil
		}
		acc = head
		cur = rest
	} else {
		acc = args[1]
	}
	out = append(out, acc)
	for {
		head, rest, exhausted, err := lazyseq.StepOf(cur, c)
		if err != nil {
			return nil, err
		}
		if exhausted {
			return value.ListFromSlice(out), nil
		}
		acc, err = callAny(rt, fn, []value.Value{acc, head})
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
		if _, ok := acc.(*refs.Reduced); ok {
			return value.ListFromSlice(out), nil
		}
		cur = rest
	}
}

func fnMap(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("map", args, 2, 2); err != nil {
		return nil, err
	}
	return lazyseq.NewTransform(lazyseq.TMap, args[0], args[1]), nil
}

func fnFilter(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("filter", args, 2, 2); err != nil {
		return nil, err
	}
	return lazyseq.NewTransform(lazyseq.TFilter, args[0], args[1]), nil
}

func fnRemove(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("remove", args, 2, 2); err != nil {
		return nil, err
	}
	negated := &value.Fn{Name: "remove-pred", Arity: value.Arity{Min: 1, Max: 1}, Builtin: true, Native: func(rt any, a []value.Value) (value.Value, error) {
		ok, err := callAny(rt, args[0], a)
		if err != nil {
			return nil, err
		}
		return value.Bool(!value.Truthy(ok)), nil
	}}
	return lazyseq.NewTransform(lazyseq.TFilter, negated, args[1]), nil
}

func fnMapcat(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("mapcat", args, 2, 2); err != nil {
		return nil, err
	}
	return lazyseq.NewTransform(lazyseq.TMapcat, args[0], args[1]), nil
}

func fnTakeWhile(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("take-while", args, 2, 2); err != nil {
		return nil, err
	}
	return lazyseq.NewTransform(lazyseq.TTakeWhile, args[0], args[1]), nil
}

func fnDropWhile(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("drop-while", args, 2, 2); err != nil {
		return nil, err
	}
	return lazyseq.NewTransform(lazyseq.TDropWhile, args[0], args[1]), nil
}

func fnMapIndexed(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("map-indexed", args, 2, 2); err != nil {
		return nil, err
	}
	return lazyseq.NewTransform(lazyseq.TMapIndexed, args[0], args[1]), nil
}

func fnKeep(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("keep", args, 2, 2); err != nil {
		return nil, err
	}
	fn := args[0]
	filterPred := &value.Fn{Name: "keep-pred", Arity: value.Arity{Min: 1, Max: 1}, Builtin: true, Native: func(rt any, a []value.Value) (value.Value, error) {
		v, err := callAny(rt, fn, a)
		if err != nil {
			return nil, err
		}
		_, isNil := v.(value.Nil)
		return value.Bool(!isNil), nil
	}}
	mapFn := &value.Fn{Name: "keep-map", Arity: value.Arity{Min: 1, Max: 1}, Builtin: true, Native: func(rt any, a []value.Value) (value.Value, error) {
		return callAny(rt, fn, a)
	}}
	filtered := lazyseq.NewTransform(lazyseq.TFilter, filterPred, args[1])
	return lazyseq.NewTransform(lazyseq.TMap, mapFn, filtered), nil
}

func fnKeepIndexed(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("keep-indexed", args, 2, 2); err != nil {
		return nil, err
	}
	fn := args[0]
	indexed := lazyseq.NewTransform(lazyseq.TMapIndexed, &value.Fn{Name: "keep-indexed-pair", Builtin: true, Native: func(rt any, a []value.Value) (value.Value, error) {
		return value.NewVector(a[0], a[1]), nil
	}}, args[1])
	filterPred := &value.Fn{Name: "keep-indexed-pred", Builtin: true, Native: func(rt any, a []value.Value) (value.Value, error) {
		pair := a[0].(*value.Vector).Items()
		v, err := callAny(rt, fn, pair)
		if err != nil {
			return nil, err
		}
		_, isNil := v.(value.Nil)
		return value.Bool(!isNil), nil
	}}
	filtered := lazyseq.NewTransform(lazyseq.TFilter, filterPred, indexed)
	mapFn := &value.Fn{Name: "keep-indexed-map", Builtin: true, Native: func(rt any, a []value.Value) (value.Value, error) {
		pair := a[0].(*value.Vector).Items()
		return callAny(rt, fn, pair)
	}}
	return lazyseq.NewTransform(lazyseq.TMap, mapFn, filtered), nil
}

func fnTake(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("take", args, 2, 2); err != nil {
		return nil, err
	}
	n, ok := args[0].(value.Int)
	if !ok {
		return nil, typeError("take", "n must be an integer")
	}
	return lazyseq.NewTake(args[1], int(n)), nil
}

func fnDrop(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("drop", args, 2, 2); err != nil {
		return nil, err
	}
	n, ok := args[0].(value.Int)
	if !ok {
		return nil, typeError("drop", "n must be an integer")
	}
	cur := args[1]
	c := caller(rt)
	for i := 0; i < int(n); i++ {
		_, rest, exhausted, err := lazyseq.StepOf(cur, c)
		if err != nil {
			return nil, err
		}
		if exhausted {
			return value.EmptyList, nil
		}
		cur = rest
	}
	return cur, nil
}

func fnSort(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("sort", args, 1, 2); err != nil {
		return nil, err
	}
	var cmp value.Value
	coll := args[0]
	if len(args) == 2 {
		cmp = args[0]
		coll = args[1]
	}
	lst, err := lazyseq.ForceAll(coll, caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		if cmp != nil {
			r, err := callAny(rt, cmp, []value.Value{items[i], items[j]})
			if err != nil {
				sortErr = err
				return false
			}
			ri, _ := r.(value.Int)
			return ri < 0
		}
		return numLess(items[i], items[j])
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return value.ListFromSlice(items), nil
}

func fnSortBy(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("sort-by", args, 2, 3); err != nil {
		return nil, err
	}
	keyfn := args[0]
	coll := args[len(args)-1]
	lst, err := lazyseq.ForceAll(coll, caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	keys := make([]value.Value, len(items))
	for i, it := range items {
		k, err := callAny(rt, keyfn, []value.Value{it})
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return numLess(keys[idx[a]], keys[idx[b]]) })
	out := make([]value.Value, len(items))
	for i, j := range idx {
		out[i] = items[j]
	}
	return value.ListFromSlice(out), nil
}

// keyBuckets groups indices by value.Equal-equivalence class, using
// hashkit.Hash to bucket candidates so equivalence checks are O(1) amortized
// instead of a linear scan over every distinct key seen so far (pkg/value's
// Map/Set themselves still find keys by a linear value.Equal scan).
// Returns the distinct keys in first-seen order and, for each,
// the slice index into that order for every input position.
type keyBuckets struct {
	order  []value.Value
	slotOf map[uint64][]int // hash -> candidate slots into order
}

func newKeyBuckets() *keyBuckets {
	return &keyBuckets{slotOf: make(map[uint64][]int)}
}

func (kb *keyBuckets) slot(k value.Value) int {
	h := hashkit.Hash(k)
	for _, s := range kb.slotOf[h] {
		if value.Equal(kb.order[s], k) {
			return s
		}
	}
	s := len(kb.order)
	kb.order = append(kb.order, k)
	kb.slotOf[h] = append(kb.slotOf[h], s)
	return s
}

func fnGroupBy(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("group-by", args, 2, 2); err != nil {
		return nil, err
	}
	fn := args[0]
	lst, err := lazyseq.ForceAll(args[1], caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	keyed, err := groupKeys(rt, fn, items)
	if err != nil {
		return nil, err
	}
	kb := newKeyBuckets()
	buckets := map[int][]value.Value{}
	for i, it := range items {
		slot := kb.slot(keyed[i])
		buckets[slot] = append(buckets[slot], it)
	}
	result, _ := value.NewMap()
	for slot, k := range kb.order {
		result = result.Assoc(k, value.NewVector(buckets[slot]...))
	}
	return result, nil
}

func fnFrequencies(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("frequencies", args, 1, 1); err != nil {
		return nil, err
	}
	lst, err := lazyseq.ForceAll(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	kb := newKeyBuckets()
	counts := map[int]int64{}
	for _, it := range lst.ToSlice() {
		counts[kb.slot(it)]++
	}
	result, _ := value.NewMap()
	for slot, k := range kb.order {
		result = result.Assoc(k, value.Int(counts[slot]))
	}
	return result, nil
}

func fnDistinct(rt any, args []value.Value) (value.Value, error) {
	lst, err := lazyseq.ForceAll(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	kb := newKeyBuckets()
	for _, it := range lst.ToSlice() {
		kb.slot(it)
	}
	return value.ListFromSlice(kb.order), nil
}

func fnDedupe(rt any, args []value.Value) (value.Value, error) {
	lst, err := lazyseq.ForceAll(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	var out []value.Value
	for i, it := range items {
		if i > 0 && value.Equal(items[i-1], it) {
			continue
		}
		out = append(out, it)
	}
	return value.ListFromSlice(out), nil
}

func fnPartition(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("partition", args, 2, 4); err != nil {
		return nil, err
	}
	n, _ := args[0].(value.Int)
	step := n
	if len(args) >= 3 {
		step, _ = args[1].(value.Int)
	}
	coll := args[len(args)-1]
	lst, err := lazyseq.ForceAll(coll, caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	var out []value.Value
	for i := 0; i+int(n) <= len(items); i += int(step) {
		out = append(out, value.ListFromSlice(items[i:i+int(n)]))
		if step == 0 {
			break
		}
	}
	return value.ListFromSlice(out), nil
}

func fnPartitionAll(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("partition-all", args, 2, 3); err != nil {
		return nil, err
	}
	n, _ := args[0].(value.Int)
	step := n
	if len(args) == 3 {
		step, _ = args[1].(value.Int)
	}
	coll := args[len(args)-1]
	lst, err := lazyseq.ForceAll(coll, caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	var out []value.Value
	for i := 0; i < len(items); i += int(step) {
		end := i + int(n)
		if end > len(items) {
			end = len(items)
		}
		out = append(out, value.ListFromSlice(items[i:end]))
		if step == 0 {
			break
		}
	}
	return value.ListFromSlice(out), nil
}

func fnPartitionBy(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("partition-by", args, 2, 2); err != nil {
		return nil, err
	}
	fn := args[0]
	lst, err := lazyseq.ForceAll(args[1], caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	var out []value.Value
	var cur []value.Value
	var curKey value.Value
	for _, it := range items {
		k, err := callAny(rt, fn, []value.Value{it})
		if err != nil {
			return nil, err
		}
		if cur != nil && !value.Equal(curKey, k) {
			out = append(out, value.ListFromSlice(cur))
			cur = nil
		}
		curKey = k
		cur = append(cur, it)
	}
	if cur != nil {
		out = append(out, value.ListFromSlice(cur))
	}
	return value.ListFromSlice(out), nil
}

func fnInterleave(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("interleave", args, 1, -1); err != nil {
		return nil, err
	}
	c := caller(rt)
	curs := append([]value.Value{}, args...)
	var out []value.Value
	for {
		row := make([]value.Value, len(curs))
		for i, cur := range curs {
			head, rest, exhausted, err := lazyseq.StepOf(cur, c)
			if err != nil {
				return nil, err
			}
			if exhausted {
				return value.ListFromSlice(out), nil
			}
			row[i] = head
			curs[i] = rest
		}
		out = append(out, row...)
	}
}

func fnInterpose(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("interpose", args, 2, 2); err != nil {
		return nil, err
	}
	sep := args[0]
	lst, err := lazyseq.ForceAll(args[1], caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	var out []value.Value
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return value.ListFromSlice(out), nil
}

func flattenInto(v value.Value, out *[]value.Value) {
	switch x := v.(type) {
	case *value.List:
		for _, e := range x.ToSlice() {
			flattenInto(e, out)
		}
	case *value.Vector:
		for _, e := range x.Items() {
			flattenInto(e, out)
		}
	default:
		*out = append(*out, v)
	}
}

func fnFlatten(rt any, args []value.Value) (value.Value, error) {
	var out []value.Value
	switch args[0].(type) {
	case *value.List, *value.Vector:
		for _, e := range mustItems(args[0]) {
			flattenInto(e, &out)
		}
	}
	return value.ListFromSlice(out), nil
}

func mustItems(v value.Value) []value.Value {
	switch x := v.(type) {
	case *value.List:
		return x.ToSlice()
	case *value.Vector:
		return x.Items()
	}
	return nil
}

func fnTreeSeq(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("tree-seq", args, 3, 3); err != nil {
		return nil, err
	}
	branchQ, children, root := args[0], args[1], args[2]
	var out []value.Value
	var rec func(node value.Value) error
	rec = func(node value.Value) error {
		out = append(out, node)
		isBranch, err := callAny(rt, branchQ, []value.Value{node})
		if err != nil {
			return err
		}
		if !value.Truthy(isBranch) {
			return nil
		}
		kids, err := callAny(rt, children, []value.Value{node})
		if err != nil {
			return err
		}
		lst, err := lazyseq.ForceAll(kids, caller(rt))
		if err != nil {
			return err
		}
		for _, k := range lst.ToSlice() {
			if err := rec(k); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rec(root); err != nil {
		return nil, err
	}
	return value.ListFromSlice(out), nil
}

// trampoline repeatedly calls its result with no arguments as long as that
// result is itself callable, letting mutually-recursive functions return a
// "bounce" closure instead of recursing on the Go call stack (spec.md
// §4.4's non-goal of bit-exact JVM tail calls is sidestepped this way,
// the same device Clojure itself uses).
func fnTrampoline(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("trampoline", args, 1, -1); err != nil {
		return nil, err
	}
	res, err := callAny(rt, args[0], args[1:])
	if err != nil {
		return nil, err
	}
	for isCallable(res) {
		res, err = callAny(rt, res, nil)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func isCallable(v value.Value) bool {
	switch v.(type) {
	case *value.Fn, *value.PartialFn, *value.CompFn:
		return true
	}
	return false
}

func groupKeys(rt any, fn value.Value, items []value.Value) ([]value.Value, error) {
	out := make([]value.Value, len(items))
	for i, it := range items {
		k, err := callAny(rt, fn, []value.Value{it})
		if err != nil {
			return nil, err
		}
		out[i] = k
	}
	return out, nil
}

var hofDefs = []Def{
	def("apply", 2, -1, fnApply),
	def("partial", 1, -1, fnPartial),
	def("comp", 0, -1, fnComp),
	def("reduce", 2, 3, fnReduce),
	def("reduce-kv", 3, 3, fnReduceKv),
	def("reductions", 2, 3, fnReductions),
	def("map", 2, 2, fnMap),
	def("filter", 2, 2, fnFilter),
	def("remove", 2, 2, fnRemove),
	def("mapcat", 2, 2, fnMapcat),
	def("take", 2, 2, fnTake),
	def("take-while", 2, 2, fnTakeWhile),
	def("drop", 2, 2, fnDrop),
	def("drop-while", 2, 2, fnDropWhile),
	def("map-indexed", 2, 2, fnMapIndexed),
	def("keep", 2, 2, fnKeep),
	def("keep-indexed", 2, 2, fnKeepIndexed),
	def("sort", 1, 2, fnSort),
	def("sort-by", 2, 3, fnSortBy),
	def("group-by", 2, 2, fnGroupBy),
	def("frequencies", 1, 1, fnFrequencies),
	def("distinct", 1, 1, fnDistinct),
	def("dedupe", 1, 1, fnDedupe),
	def("partition", 2, 4, fnPartition),
	def("partition-all", 2, 3, fnPartitionAll),
	def("partition-by", 2, 2, fnPartitionBy),
	def("interleave", 1, -1, fnInterleave),
	def("interpose", 2, 2, fnInterpose),
	def("flatten", 1, 1, fnFlatten),
	def("tree-seq", 3, 3, fnTreeSeq),
	def("trampoline", 1, -1, fnTrampoline),
}
