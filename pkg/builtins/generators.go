package builtins

import (
	"github.com/sandrolain/cljcore/pkg/lazyseq"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Grounded on pkg/lazyseq's generator representation (spec.md §3.2:
// "generator: (kind, state) where kind in {iterate, repeat-infinite,
// cycle, range-infinite}") — these built-ins are the clojure.core names a
// host evaluator calls to produce one, mirroring how the teacher's
// fn_array.go functions are thin wrappers around an evaluator-internal
// representation.

func fnIterate(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("iterate", args, 2, 2); err != nil {
		return nil, err
	}
	return lazyseq.NewIterate(args[0], args[1]), nil
}

func fnRepeat(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("repeat", args, 1, 2); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return lazyseq.NewRepeat(args[0]), nil
	}
	n, ok := args[0].(value.Int)
	if !ok {
		return nil, typeError("repeat", "n must be an integer")
	}
	return lazyseq.NewTake(lazyseq.NewRepeat(args[1]), int(n)), nil
}

func fnCycle(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("cycle", args, 1, 1); err != nil {
		return nil, err
	}
	return lazyseq.NewCycle(args[0]), nil
}

// fnRange supports the four Clojure arities: (range), (range end),
// (range start end), (range start end step) — each expressed as a take
// over the infinite range-infinite generator (spec.md §4.4's "lazy
// bounded work" property 5 requires the finite forms to still only pull
// as many elements as requested).
func fnRange(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("range", args, 0, 3); err != nil {
		return nil, err
	}
	switch len(args) {
	case 0:
		return lazyseq.NewRangeInfinite(value.Int(0), value.Int(1)), nil
	case 1:
		end, ok := args[0].(value.Int)
		if !ok {
			return nil, typeError("range", "end must be an integer")
		}
		if end <= 0 {
			return value.EmptyList, nil
		}
		return lazyseq.NewTake(lazyseq.NewRangeInfinite(value.Int(0), value.Int(1)), int(end)), nil
	case 2, 3:
		start, ok := args[0].(value.Int)
		if !ok {
			return nil, typeError("range", "start must be an integer")
		}
		end, ok := args[1].(value.Int)
		if !ok {
			return nil, typeError("range", "end must be an integer")
		}
		step := value.Int(1)
		if len(args) == 3 {
			step, ok = args[2].(value.Int)
			if !ok {
				return nil, typeError("range", "step must be an integer")
			}
		}
		if step == 0 || (step > 0 && start >= end) || (step < 0 && start <= end) {
			return value.EmptyList, nil
		}
		n := (int(end) - int(start) + int(step) - sign(int(step))) / int(step)
		if n < 0 {
			n = 0
		}
		return lazyseq.NewTake(lazyseq.NewRangeInfinite(start, step), n), nil
	}
	return nil, arityError("range", len(args))
}

func sign(x int) int {
	if x < 0 {
		return -1
	}
	return 1
}

var generatorDefs = []Def{
	def("iterate", 2, 2, fnIterate),
	def("repeat", 1, 2, fnRepeat),
	def("cycle", 1, 1, fnCycle),
	def("range", 0, 3, fnRange),
}
