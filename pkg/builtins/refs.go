package builtins

import (
	"github.com/sandrolain/cljcore/pkg/ns"
	"github.com/sandrolain/cljcore/pkg/refs"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Grounded on pkg/refs' Atom/Volatile/Delay/Promise/Reduced types: this
// file is the value.NativeFn glue exposing them to clojure.core, the way
// pkg/evaluator/fn_*.go exposes the teacher's evaluator-internal helpers
// as callable functions.

func fnAtom(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("atom", args, 1, 1); err != nil {
		return nil, err
	}
	return refs.NewAtom(args[0]), nil
}

func fnDeref(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("deref", args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case *refs.Atom:
		return x.Deref(), nil
	case *refs.Volatile:
		return x.Deref(), nil
	case *refs.Promise:
		return x.Deref(), nil
	case *refs.Delay:
		return x.Force()
	case *ns.Var:
		return x.Deref(rtOf(rt).Bindings())
	}
	return nil, typeError("deref", "requires an atom, volatile, promise, delay, or var")
}

func swapFnOf(rt any, f value.Value) refs.SwapFn {
	return func(current value.Value, extra []value.Value) (value.Value, error) {
		callArgs := append([]value.Value{current}, extra...)
		return callAny(rt, f, callArgs)
	}
}

func fnSwap(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("swap!", args, 2, -1); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("swap!", "requires an atom")
	}
	return a.Swap(swapFnOf(rt, args[1]), args[2:])
}

func fnSwapVals(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("swap-vals!", args, 2, -1); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("swap-vals!", "requires an atom")
	}
	old, new, err := a.SwapVals(swapFnOf(rt, args[1]), args[2:])
	if err != nil {
		return nil, err
	}
	return value.NewVector(old, new), nil
}

func fnReset(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("reset!", args, 2, 2); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("reset!", "requires an atom")
	}
	return a.Reset(args[1])
}

func fnResetVals(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("reset-vals!", args, 2, 2); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("reset-vals!", "requires an atom")
	}
	old, new, err := a.ResetVals(args[1])
	if err != nil {
		return nil, err
	}
	return value.NewVector(old, new), nil
}

func fnCompareAndSet(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("compare-and-set!", args, 3, 3); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("compare-and-set!", "requires an atom")
	}
	ok2, err := a.CompareAndSet(args[1], args[2])
	if err != nil {
		return nil, err
	}
	return value.Bool(ok2), nil
}

func watchKeyOf(k value.Value) string {
	switch x := k.(type) {
	case value.Keyword:
		return ":" + x.QualifiedName()
	case value.String:
		return string(x)
	default:
		return string(value.TypeTag(k))
	}
}

func fnAddWatch(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("add-watch", args, 3, 3); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("add-watch", "requires an atom")
	}
	keyArg, fn := args[1], args[2]
	key := watchKeyOf(keyArg)
	a.AddWatch(key, func(_ string, atom *refs.Atom, old, new value.Value) {
		_, _ = callAny(rt, fn, []value.Value{keyArg, atom, old, new})
	})
	return a, nil
}

func fnRemoveWatch(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("remove-watch", args, 2, 2); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("remove-watch", "requires an atom")
	}
	a.RemoveWatch(watchKeyOf(args[1]))
	return a, nil
}

func fnSetValidator(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("set-validator!", args, 2, 2); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("set-validator!", "requires an atom")
	}
	if _, isNil := args[1].(value.Nil); isNil {
		a.SetValidator(nil, nil)
		return value.NilVal, nil
	}
	fn := args[1]
	a.SetValidator(func(candidate value.Value) error {
		ok, err := callAny(rt, fn, []value.Value{candidate})
		if err != nil {
			return err
		}
		if !value.Truthy(ok) {
			return typeError("set-validator!", "candidate value rejected")
		}
		return nil
	}, fn)
	return value.NilVal, nil
}

func fnGetValidator(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("get-validator", args, 1, 1); err != nil {
		return nil, err
	}
	a, ok := args[0].(*refs.Atom)
	if !ok {
		return nil, typeError("get-validator", "requires an atom")
	}
	if form := a.ValidatorForm(); form != nil {
		return form, nil
	}
	return value.NilVal, nil
}

func fnVolatile(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("volatile!", args, 1, 1); err != nil {
		return nil, err
	}
	return refs.NewVolatile(args[0]), nil
}

func fnVswap(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("vswap!", args, 2, -1); err != nil {
		return nil, err
	}
	v, ok := args[0].(*refs.Volatile)
	if !ok {
		return nil, typeError("vswap!", "requires a volatile")
	}
	return v.Swap(func(current value.Value, extra []value.Value) (value.Value, error) {
		callArgs := append([]value.Value{current}, extra...)
		return callAny(rt, args[1], callArgs)
	}, args[2:])
}

func fnVreset(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("vreset!", args, 2, 2); err != nil {
		return nil, err
	}
	v, ok := args[0].(*refs.Volatile)
	if !ok {
		return nil, typeError("vreset!", "requires a volatile")
	}
	return v.Reset(args[1]), nil
}

func fnVolatileQ(rt any, args []value.Value) (value.Value, error) {
	_, ok := args[0].(*refs.Volatile)
	return value.Bool(ok), nil
}

func fnDelayFromFn(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("make-delay", args, 1, 1); err != nil {
		return nil, err
	}
	fn := args[0]
	return refs.NewDelay(func() (value.Value, error) {
		return rtOf(rt).ForceThunk(fn)
	}), nil
}

func fnForce(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("force", args, 1, 1); err != nil {
		return nil, err
	}
	d, ok := args[0].(*refs.Delay)
	if !ok {
		return args[0], nil
	}
	return d.Force()
}

func fnDelayQ(rt any, args []value.Value) (value.Value, error) {
	_, ok := args[0].(*refs.Delay)
	return value.Bool(ok), nil
}

func fnRealizedQ(rt any, args []value.Value) (value.Value, error) {
	switch x := args[0].(type) {
	case *refs.Delay:
		return value.Bool(x.Realized()), nil
	case *refs.Promise:
		return value.Bool(x.Realized()), nil
	}
	return nil, typeError("realized?", "requires a delay or promise")
}

func fnPromise(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("promise", args, 0, 0); err != nil {
		return nil, err
	}
	return refs.NewPromise(), nil
}

func fnDeliver(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("deliver", args, 2, 2); err != nil {
		return nil, err
	}
	p, ok := args[0].(*refs.Promise)
	if !ok {
		return nil, typeError("deliver", "requires a promise")
	}
	if p.Deliver(args[1]) {
		return p, nil
	}
	return value.NilVal, nil
}

func fnReduced(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("reduced", args, 1, 1); err != nil {
		return nil, err
	}
	return refs.NewReduced(args[0]), nil
}

func fnReducedQ(rt any, args []value.Value) (value.Value, error) {
	_, ok := args[0].(*refs.Reduced)
	return value.Bool(ok), nil
}

func fnEnsureReduced(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ensure-reduced", args, 1, 1); err != nil {
		return nil, err
	}
	return refs.EnsureReduced(args[0]), nil
}

func fnUnreduced(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("unreduced", args, 1, 1); err != nil {
		return nil, err
	}
	return refs.Unreduced(args[0]), nil
}

var refsDefs = []Def{
	def("atom", 1, 1, fnAtom),
	def("deref", 1, 1, fnDeref),
	def("swap!", 2, -1, fnSwap),
	def("swap-vals!", 2, -1, fnSwapVals),
	def("reset!", 2, 2, fnReset),
	def("reset-vals!", 2, 2, fnResetVals),
	def("compare-and-set!", 3, 3, fnCompareAndSet),
	def("add-watch", 3, 3, fnAddWatch),
	def("remove-watch", 2, 2, fnRemoveWatch),
	def("set-validator!", 2, 2, fnSetValidator),
	def("get-validator", 1, 1, fnGetValidator),
	def("volatile!", 1, 1, fnVolatile),
	def("vswap!", 2, -1, fnVswap),
	def("vreset!", 2, 2, fnVreset),
	def("volatile?", 1, 1, fnVolatileQ),
	def("make-delay", 1, 1, fnDelayFromFn),
	def("force", 1, 1, fnForce),
	def("delay?", 1, 1, fnDelayQ),
	def("realized?", 1, 1, fnRealizedQ),
	def("promise", 0, 0, fnPromise),
	def("deliver", 2, 2, fnDeliver),
	def("reduced", 1, 1, fnReduced),
	def("reduced?", 1, 1, fnReducedQ),
	def("ensure-reduced", 1, 1, fnEnsureReduced),
	def("unreduced", 1, 1, fnUnreduced),
}
