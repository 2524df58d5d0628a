package main

import (
	"github.com/sandrolain/cljcore/pkg/runtime"
	"github.com/sandrolain/cljcore/pkg/value"
)

// hostCall is the call_fn callback spec.md §6.1 requires the core to
// invoke through rather than evaluate directly — it is the one place that
// knows how to run both a built-in (fn.Native) and a user-defined
// closure (fn.Closure), the split pkg/value/funclike.go's Fn doc comment
// describes.
func hostCall(rt *runtime.Context, fn value.Value, args []value.Value) (value.Value, error) {
	f, ok := fn.(*value.Fn)
	if !ok {
		return nil, &value.Error{Code: value.ErrType, Message: "cannot call a non-function value", Position: -1}
	}
	if f.Native != nil {
		return f.Native(rt, args)
	}
	cl, ok := f.Closure.(*closure)
	if !ok {
		return nil, &value.Error{Code: value.ErrIllegalState, Message: "fn carries neither a native implementation nor a closure body", Position: -1}
	}
	callEnv, err := cl.bind(args)
	if err != nil {
		return nil, err
	}
	return evalBody(rt, callEnv, cl.body)
}
