package builtins

import (
	"github.com/sandrolain/cljcore/pkg/lazyseq"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Grounded on CWBudde-go-dws's vm_builtins_math.go Random/RandomInt/
// SetRandSeed family: a per-task *rand.Rand (runtime.Context.Rand)
// instead of the global math/rand functions, so reseeding one task never
// perturbs another (spec.md §4.4).

func fnRand(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("rand", args, 0, 1); err != nil {
		return nil, err
	}
	f := rtOf(rt).Rand().Float64()
	if len(args) == 1 {
		n, ok := args[0].(value.Int)
		if !ok {
			nf, ok := args[0].(value.Float)
			if !ok {
				return nil, typeError("rand", "bound must be a number")
			}
			return value.Float(f * float64(nf)), nil
		}
		return value.Float(f * float64(n)), nil
	}
	return value.Float(f), nil
}

func fnRandInt(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("rand-int", args, 1, 1); err != nil {
		return nil, err
	}
	n, ok := args[0].(value.Int)
	if !ok {
		return nil, typeError("rand-int", "requires an integer bound")
	}
	if n <= 0 {
		return nil, typeError("rand-int", "bound must be positive")
	}
	return value.Int(rtOf(rt).Rand().Int63n(int64(n))), nil
}

func fnRandNth(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("rand-nth", args, 1, 1); err != nil {
		return nil, err
	}
	lst, err := lazyseq.ForceAll(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	items := lst.ToSlice()
	if len(items) == 0 {
		return nil, typeError("rand-nth", "requires a non-empty collection")
	}
	return items[rtOf(rt).Rand().Intn(len(items))], nil
}

func fnShuffle(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("shuffle", args, 1, 1); err != nil {
		return nil, err
	}
	lst, err := lazyseq.ForceAll(args[0], caller(rt))
	if err != nil {
		return nil, err
	}
	items := append([]value.Value{}, lst.ToSlice()...)
	rtOf(rt).Rand().Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	return value.NewVector(items...), nil
}

func fnSetRandomSeed(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("set-random-seed!", args, 1, 1); err != nil {
		return nil, err
	}
	n, ok := args[0].(value.Int)
	if !ok {
		return nil, typeError("set-random-seed!", "requires an integer seed")
	}
	rtOf(rt).SeedRand(int64(n))
	return value.NilVal, nil
}

var randomDefs = []Def{
	def("rand", 0, 1, fnRand),
	def("rand-int", 1, 1, fnRandInt),
	def("rand-nth", 1, 1, fnRandNth),
	def("shuffle", 1, 1, fnShuffle),
	def("set-random-seed!", 1, 1, fnSetRandomSeed),
}
