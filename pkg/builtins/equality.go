package builtins

import "github.com/sandrolain/cljcore/pkg/value"

// Grounded on pkg/value/equality.go's value.Equal, exposed to clojure.core.

func fnEq(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("=", args, 1, -1); err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		if !value.Equal(args[i-1], args[i]) {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

func fnNotEq(rt any, args []value.Value) (value.Value, error) {
	res, err := fnEq(rt, args)
	if err != nil {
		return nil, err
	}
	return value.Bool(!bool(res.(value.Bool))), nil
}

func fnIdentical(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("identical?", args, 2, 2); err != nil {
		return nil, err
	}
	return value.Bool(args[0] == args[1]), nil
}

func fnCompare(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("compare", args, 2, 2); err != nil {
		return nil, err
	}
	a, b := args[0], args[1]
	if value.Equal(a, b) {
		return value.Int(0), nil
	}
	if value.IsNumber(a) && value.IsNumber(b) {
		if numLess(a, b) {
			return value.Int(-1), nil
		}
		return value.Int(1), nil
	}
	as, aok := a.(value.String)
	bs, bok := b.(value.String)
	if aok && bok {
		switch {
		case string(as) < string(bs):
			return value.Int(-1), nil
		case string(as) > string(bs):
			return value.Int(1), nil
		default:
			return value.Int(0), nil
		}
	}
	return nil, typeError("compare", "requires comparable values")
}

var equalityDefs = []Def{
	def("=", 1, -1, fnEq),
	def("not=", 1, -1, fnNotEq),
	def("identical?", 2, 2, fnIdentical),
	def("compare", 2, 2, fnCompare),
}
