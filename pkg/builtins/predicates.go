package builtins

import "github.com/sandrolain/cljcore/pkg/value"

// Grounded on pkg/evaluator/fn_types.go's $type/$isArray/... family,
// re-expressed as one predicate per Value variant instead of a single
// type-name function.

func isTag(tag value.Tag) value.NativeFn {
	return func(rt any, args []value.Value) (value.Value, error) {
		if err := checkArity("predicate", args, 1, 1); err != nil {
			return nil, err
		}
		return value.Bool(value.TypeTag(args[0]) == tag), nil
	}
}

func fnNilQ(rt any, args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.Nil)
	return value.Bool(ok), nil
}

func fnSomeQ(rt any, args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.Nil)
	return value.Bool(!ok), nil
}

func fnTrueQ(rt any, args []value.Value) (value.Value, error) {
	b, ok := args[0].(value.Bool)
	return value.Bool(ok && bool(b)), nil
}

func fnFalseQ(rt any, args []value.Value) (value.Value, error) {
	b, ok := args[0].(value.Bool)
	return value.Bool(ok && !bool(b)), nil
}

func fnNot(rt any, args []value.Value) (value.Value, error) {
	return value.Bool(!value.Truthy(args[0])), nil
}

func fnNumberQ(rt any, args []value.Value) (value.Value, error) {
	return value.Bool(value.IsNumber(args[0])), nil
}

func fnSeqQ(rt any, args []value.Value) (value.Value, error) {
	switch args[0].(type) {
	case *value.List:
		return value.Bool(true), nil
	default:
		return isTag(value.TagLazySeq)(rt, args)
	}
}

func fnCollQ(rt any, args []value.Value) (value.Value, error) {
	switch args[0].(type) {
	case *value.List, *value.Vector, *value.Map, *value.Set:
		return value.Bool(true), nil
	}
	return value.Bool(false), nil
}

func fnEmptyQ(rt any, args []value.Value) (value.Value, error) {
	switch x := args[0].(type) {
	case value.Nil:
		return value.Bool(true), nil
	case *value.List:
		return value.Bool(x.Count() == 0), nil
	case *value.Vector:
		return value.Bool(x.Count() == 0), nil
	case *value.Map:
		return value.Bool(x.Count() == 0), nil
	case *value.Set:
		return value.Bool(x.Count() == 0), nil
	case value.String:
		return value.Bool(len(x) == 0), nil
	}
	return value.Bool(false), nil
}

func fnFnQ(rt any, args []value.Value) (value.Value, error) {
	switch args[0].(type) {
	case *value.Fn, *value.PartialFn, *value.CompFn, *value.MultiFn, *value.ProtocolFn:
		return value.Bool(true), nil
	}
	return value.Bool(false), nil
}

var predicateDefs = []Def{
	def("nil?", 1, 1, fnNilQ),
	def("some?", 1, 1, fnSomeQ),
	def("true?", 1, 1, fnTrueQ),
	def("false?", 1, 1, fnFalseQ),
	def("not", 1, 1, fnNot),
	def("number?", 1, 1, fnNumberQ),
	def("string?", 1, 1, isTag(value.TagString)),
	def("keyword?", 1, 1, isTag(value.TagKeyword)),
	def("symbol?", 1, 1, isTag(value.TagSymbol)),
	def("vector?", 1, 1, isTag(value.TagVector)),
	def("list?", 1, 1, isTag(value.TagList)),
	def("map?", 1, 1, isTag(value.TagMap)),
	def("set?", 1, 1, isTag(value.TagSet)),
	def("char?", 1, 1, isTag(value.TagChar)),
	def("seq?", 1, 1, fnSeqQ),
	def("coll?", 1, 1, fnCollQ),
	def("empty?", 1, 1, fnEmptyQ),
	def("fn?", 1, 1, fnFnQ),
}
