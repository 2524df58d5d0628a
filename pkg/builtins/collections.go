package builtins

import (
	"github.com/sandrolain/cljcore/pkg/lazyseq"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Grounded on pkg/evaluator/fn_array.go, fn_objects.go, fn_ordered_object.go:
// the teacher's array/object accessor family, generalized from JSON
// array/object to the four persistent collection kinds (spec.md §4.1).

func fnCount(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("count", args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case value.Nil:
		return value.Int(0), nil
	case *value.List:
		return value.Int(x.Count()), nil
	case *value.Vector:
		return value.Int(x.Count()), nil
	case *value.Map:
		return value.Int(x.Count()), nil
	case *value.Set:
		return value.Int(x.Count()), nil
	case value.String:
		return value.Int(len([]rune(string(x)))), nil
	case *lazyseq.LazySeq:
		lst, err := lazyseq.ForceAll(x, caller(rt))
		if err != nil {
			return nil, err
		}
		return value.Int(lst.Count()), nil
	}
	return nil, typeError("count", "requires a collection")
}

func fnConj(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("conj", args, 1, -1); err != nil {
		return nil, err
	}
	coll := args[0]
	for _, x := range args[1:] {
		switch c := coll.(type) {
		case value.Nil:
			coll = value.ListFromSlice([]value.Value{x})
		case *value.List:
			coll = value.ConjList(c, x)
		case *value.Vector:
			coll = c.Conj(x)
		case *value.Set:
			coll = c.Conj(x)
		case *value.Map:
			entry, ok := x.(*value.Vector)
			if !ok || entry.Count() != 2 {
				return nil, typeError("conj", "map conj requires a 2-element vector entry")
			}
			items := entry.Items()
			coll = c.Assoc(items[0], items[1])
		default:
			return nil, typeError("conj", "requires a collection")
		}
	}
	return coll, nil
}

func fnCons(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("cons", args, 2, 2); err != nil {
		return nil, err
	}
	return lazyseq.NewCons(args[0], args[1]), nil
}

func fnFirst(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("first", args, 1, 1); err != nil {
		return nil, err
	}
	head, _, exhausted, err := lazyseq.StepOf(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	if exhausted {
		return value.NilVal, nil
	}
	return head, nil
}

func fnRest(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("rest", args, 1, 1); err != nil {
		return nil, err
	}
	_, rest, exhausted, err := lazyseq.StepOf(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	if exhausted {
		return value.EmptyList, nil
	}
	return rest, nil
}

func fnSeq(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("seq", args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case value.String:
		runes := []rune(string(x))
		if len(runes) == 0 {
			return value.NilVal, nil
		}
		items := make([]value.Value, len(runes))
		for i, r := range runes {
			items[i] = value.Char(r)
		}
		return value.ListFromSlice(items), nil
	}
	_, _, exhausted, err := lazyseq.StepOf(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	if exhausted {
		return value.NilVal, nil
	}
	if ls, ok := args[0].(*lazyseq.LazySeq); ok {
		return ls, nil
	}
	lst, err := lazyseq.ForceAll(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	return lst, nil
}

func fnNth(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("nth", args, 2, 3); err != nil {
		return nil, err
	}
	i, ok := args[1].(value.Int)
	if !ok {
		return nil, typeError("nth", "index must be an integer")
	}
	switch x := args[0].(type) {
	case *value.Vector:
		if len(args) == 3 {
			v, _ := x.Nth(int(i), args[2], true)
			return v, nil
		}
		return x.Nth(int(i), nil, false)
	default:
		cur := args[0]
		for n := int(i); ; n-- {
			head, rest, exhausted, err := lazyseq.StepOf(cur, caller(rt))
			if err != nil {
				return nil, err
			}
			if exhausted {
				if len(args) == 3 {
					return args[2], nil
				}
				return nil, &value.Error{Code: value.ErrIndexOutOfBounds, Message: "nth: index out of bounds", Position: -1}
			}
			if n == 0 {
				return head, nil
			}
			cur = rest
		}
	}
}

func fnGet(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("get", args, 2, 3); err != nil {
		return nil, err
	}
	notFound := value.Value(value.NilVal)
	if len(args) == 3 {
		notFound = args[2]
	}
	switch x := args[0].(type) {
	case *value.Map:
		if v, ok := x.Get(args[1]); ok {
			return v, nil
		}
		return notFound, nil
	case *value.Set:
		if x.Contains(args[1]) {
			return args[1], nil
		}
		return notFound, nil
	case *value.Vector:
		i, ok := args[1].(value.Int)
		if !ok {
			return notFound, nil
		}
		return x.Nth(int(i), notFound, true)
	case value.Nil:
		return notFound, nil
	}
	return notFound, nil
}

func fnAssoc(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("assoc", args, 3, -1); err != nil {
		return nil, err
	}
	if len(args)%2 != 1 {
		return nil, arityError("assoc", len(args))
	}
	coll := args[0]
	for i := 1; i < len(args); i += 2 {
		k, v := args[i], args[i+1]
		var err error
		switch c := coll.(type) {
		case *value.Map:
			coll = c.Assoc(k, v)
		case *value.Vector:
			idx, ok := k.(value.Int)
			if !ok {
				return nil, typeError("assoc", "vector index must be an integer")
			}
			coll, err = c.Assoc(int(idx), v)
		case value.Nil:
			m, mErr := value.NewMap(k, v)
			if mErr != nil {
				return nil, mErr
			}
			coll = m
		default:
			return nil, typeError("assoc", "requires an associative collection")
		}
		if err != nil {
			return nil, err
		}
	}
	return coll, nil
}

func fnDissoc(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("dissoc", args, 1, -1); err != nil {
		return nil, err
	}
	m, ok := args[0].(*value.Map)
	if !ok {
		if _, isNil := args[0].(value.Nil); isNil {
			return value.NilVal, nil
		}
		return nil, typeError("dissoc", "requires a map")
	}
	return m.Dissoc(args[1:]...), nil
}

func fnContainsQ(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("contains?", args, 2, 2); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case *value.Map:
		return value.Bool(x.Contains(args[1])), nil
	case *value.Set:
		return value.Bool(x.Contains(args[1])), nil
	case *value.Vector:
		i, ok := args[1].(value.Int)
		return value.Bool(ok && i >= 0 && int(i) < x.Count()), nil
	}
	return value.Bool(false), nil
}

func fnKeys(rt any, args []value.Value) (value.Value, error) {
	m, ok := args[0].(*value.Map)
	if !ok {
		return nil, typeError("keys", "requires a map")
	}
	return value.ListFromSlice(m.Keys()), nil
}

func fnVals(rt any, args []value.Value) (value.Value, error) {
	m, ok := args[0].(*value.Map)
	if !ok {
		return nil, typeError("vals", "requires a map")
	}
	return value.ListFromSlice(m.Vals()), nil
}

func fnVector(rt any, args []value.Value) (value.Value, error) {
	return value.NewVector(args...), nil
}

func fnList(rt any, args []value.Value) (value.Value, error) {
	return value.ListFromSlice(args), nil
}

func fnHashMap(rt any, args []value.Value) (value.Value, error) {
	if len(args)%2 != 0 {
		return nil, arityError("hash-map", len(args))
	}
	return value.NewMap(args...)
}

func fnHashSet(rt any, args []value.Value) (value.Value, error) {
	return value.NewSet(args...), nil
}

func fnPeek(rt any, args []value.Value) (value.Value, error) {
	v, ok := args[0].(*value.Vector)
	if !ok {
		return nil, typeError("peek", "requires a vector")
	}
	return v.Peek(), nil
}

func fnPop(rt any, args []value.Value) (value.Value, error) {
	v, ok := args[0].(*value.Vector)
	if !ok {
		return nil, typeError("pop", "requires a vector")
	}
	return v.Pop()
}

func fnSubvec(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("subvec", args, 2, 3); err != nil {
		return nil, err
	}
	v, ok := args[0].(*value.Vector)
	if !ok {
		return nil, typeError("subvec", "requires a vector")
	}
	start, ok := args[1].(value.Int)
	if !ok {
		return nil, typeError("subvec", "start must be an integer")
	}
	end := value.Int(v.Count())
	if len(args) == 3 {
		end, ok = args[2].(value.Int)
		if !ok {
			return nil, typeError("subvec", "end must be an integer")
		}
	}
	return v.Subvec(int(start), int(end))
}

func fnInto(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("into", args, 2, 2); err != nil {
		return nil, err
	}
	coll := args[0]
	cur := args[1]
	c := caller(rt)
	for {
		head, rest, exhausted, err := lazyseq.StepOf(cur, c)
		if err != nil {
			return nil, err
		}
		if exhausted {
			return coll, nil
		}
		result, err := fnConj(rt, []value.Value{coll, head})
		if err != nil {
			return nil, err
		}
		coll = result
		cur = rest
	}
}

func fnConcat(rt any, args []value.Value) (value.Value, error) {
	sources := make([]value.Value, len(args))
	copy(sources, args)
	return lazyseq.NewConcat(sources), nil
}

// fnGetIn walks ks through nested associative collections via fnGet,
// returning notFound (default nil) the first time a key isn't found
// (spec.md §4.1: get-in).
func fnGetIn(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("get-in", args, 2, 3); err != nil {
		return nil, err
	}
	coll := args[0]
	path, ok := args[1].(*value.Vector)
	if !ok {
		return nil, typeError("get-in", "ks must be a vector")
	}
	notFound := value.Value(value.NilVal)
	if len(args) == 3 {
		notFound = args[2]
	}
	// missing is a private sentinel, so a caller's notFound is never walked
	// into as if it had been found along the path.
	missing := value.Value(&value.Vector{})
	for _, k := range path.Items() {
		v, err := fnGet(rt, []value.Value{coll, k, missing})
		if err != nil {
			return nil, err
		}
		if v == missing {
			return notFound, nil
		}
		coll = v
	}
	return coll, nil
}

// fnAssocIn walks ks into coll, creating intermediate maps as needed, and
// assocs v at the final key (spec.md §4.1: assoc-in).
func fnAssocIn(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("assoc-in", args, 3, 3); err != nil {
		return nil, err
	}
	path, ok := args[1].(*value.Vector)
	if !ok {
		return nil, typeError("assoc-in", "ks must be a vector")
	}
	ks := path.Items()
	if len(ks) == 0 {
		return args[2], nil
	}
	return assocInRec(args[0], ks, args[2])
}

func assocInRec(coll value.Value, ks []value.Value, v value.Value) (value.Value, error) {
	if len(ks) == 1 {
		return fnAssoc(nil, []value.Value{coll, ks[0], v})
	}
	child, err := fnGet(nil, []value.Value{coll, ks[0]})
	if err != nil {
		return nil, err
	}
	newChild, err := assocInRec(child, ks[1:], v)
	if err != nil {
		return nil, err
	}
	return fnAssoc(nil, []value.Value{coll, ks[0], newChild})
}

// fnUpdateIn is assoc-in with the new value computed by calling f on the
// old value plus any extra args (spec.md §4.1: update-in).
func fnUpdateIn(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("update-in", args, 3, -1); err != nil {
		return nil, err
	}
	old, err := fnGetIn(rt, []value.Value{args[0], args[1], value.NilVal})
	if err != nil {
		return nil, err
	}
	callArgs := append([]value.Value{old}, args[3:]...)
	newVal, err := callAny(rt, args[2], callArgs)
	if err != nil {
		return nil, err
	}
	return fnAssocIn(rt, []value.Value{args[0], args[1], newVal})
}

var collectionDefs = []Def{
	def("count", 1, 1, fnCount),
	def("conj", 1, -1, fnConj),
	def("cons", 2, 2, fnCons),
	def("first", 1, 1, fnFirst),
	def("rest", 1, 1, fnRest),
	def("seq", 1, 1, fnSeq),
	def("nth", 2, 3, fnNth),
	def("get", 2, 3, fnGet),
	def("assoc", 3, -1, fnAssoc),
	def("dissoc", 1, -1, fnDissoc),
	def("contains?", 2, 2, fnContainsQ),
	def("keys", 1, 1, fnKeys),
	def("vals", 1, 1, fnVals),
	def("vector", 0, -1, fnVector),
	def("list", 0, -1, fnList),
	def("hash-map", 0, -1, fnHashMap),
	def("hash-set", 0, -1, fnHashSet),
	def("peek", 1, 1, fnPeek),
	def("pop", 1, 1, fnPop),
	def("subvec", 2, 3, fnSubvec),
	def("into", 2, 2, fnInto),
	def("concat", 0, -1, fnConcat),
	def("get-in", 2, 3, fnGetIn),
	def("assoc-in", 3, 3, fnAssocIn),
	def("update-in", 3, -1, fnUpdateIn),
}
