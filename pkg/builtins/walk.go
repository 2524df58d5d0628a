package builtins

import "github.com/sandrolain/cljcore/pkg/value"

// Grounded on the same recursive per-kind-switch shape pkg/printer uses
// to render a Value tree (itself generalized from the teacher's
// evalPath's recursive per-node-type descent over AST children): walk
// reconstructs a collection with the same element types but transformed
// children, instead of rendering text.

func mapChildren(rt any, fn value.Value, v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case *value.List:
		items := x.ToSlice()
		out := make([]value.Value, len(items))
		for i, e := range items {
			r, err := callAny(rt, fn, []value.Value{e})
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return value.ListFromSlice(out), nil
	case *value.Vector:
		items := x.Items()
		out := make([]value.Value, len(items))
		for i, e := range items {
			r, err := callAny(rt, fn, []value.Value{e})
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return value.NewVector(out...), nil
	case *value.Set:
		items := x.Items()
		out := make([]value.Value, len(items))
		for i, e := range items {
			r, err := callAny(rt, fn, []value.Value{e})
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return value.NewSet(out...), nil
	case *value.Map:
		result, _ := value.NewMap()
		for _, entry := range x.Entries() {
			r, err := callAny(rt, fn, []value.Value{entry})
			if err != nil {
				return nil, err
			}
			pair, ok := r.(*value.Vector)
			if !ok || pair.Count() != 2 {
				return nil, typeError("walk", "map entry function must return a 2-element vector")
			}
			items := pair.Items()
			result = result.Assoc(items[0], items[1])
		}
		return result, nil
	default:
		return v, nil
	}
}

func fnWalk(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("walk", args, 3, 3); err != nil {
		return nil, err
	}
	inner, outer, form := args[0], args[1], args[2]
	transformed, err := mapChildren(rt, inner, form)
	if err != nil {
		return nil, err
	}
	return callAny(rt, outer, []value.Value{transformed})
}

func fnPostwalk(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("postwalk", args, 2, 2); err != nil {
		return nil, err
	}
	fn, form := args[0], args[1]
	var rec func(v value.Value) (value.Value, error)
	rec = func(v value.Value) (value.Value, error) {
		recurseFn := &value.Fn{Name: "postwalk-rec", Builtin: true, Native: func(rt any, a []value.Value) (value.Value, error) {
			return rec(a[0])
		}}
		transformed, err := mapChildren(rt, recurseFn, v)
		if err != nil {
			return nil, err
		}
		return callAny(rt, fn, []value.Value{transformed})
	}
	return rec(form)
}

func fnPrewalk(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("prewalk", args, 2, 2); err != nil {
		return nil, err
	}
	fn, form := args[0], args[1]
	var rec func(v value.Value) (value.Value, error)
	rec = func(v value.Value) (value.Value, error) {
		transformed, err := callAny(rt, fn, []value.Value{v})
		if err != nil {
			return nil, err
		}
		recurseFn := &value.Fn{Name: "prewalk-rec", Builtin: true, Native: func(rt any, a []value.Value) (value.Value, error) {
			return rec(a[0])
		}}
		return mapChildren(rt, recurseFn, transformed)
	}
	return rec(form)
}

var walkDefs = []Def{
	def("walk", 3, 3, fnWalk),
	def("postwalk", 2, 2, fnPostwalk),
	def("prewalk", 2, 2, fnPrewalk),
}
