// Package builtins implements the built-in operator catalogue spec.md
// §4.7 requires clojure.core to carry: arithmetic and comparison, the
// full persistent-collection API, the higher-order sequence operators,
// reference-cell operations, predicates, strings, and randomness.
//
// Grounded on the teacher's pkg/evaluator/fn_*.go family: each built-in
// here is a Go function matching value.NativeFn's signature, the same
// shape as the teacher's FunctionDef.Impl, registered into a namespace
// instead of a flat FunctionDef map.
package builtins

import (
	"strconv"

	"github.com/sandrolain/cljcore/pkg/lazyseq"
	"github.com/sandrolain/cljcore/pkg/runtime"
	"github.com/sandrolain/cljcore/pkg/value"
)

// rtOf restores the *runtime.Context a NativeFn receives as an opaque
// any (value.NativeFn's doc explains why pkg/value can't type it
// directly).
func rtOf(rt any) *runtime.Context {
	r, ok := rt.(*runtime.Context)
	if !ok {
		panic("builtins: NativeFn invoked with a non-*runtime.Context host handle")
	}
	return r
}

// caller adapts a *runtime.Context to lazyseq.Caller for the sequence
// operators in this package that build or walk *lazyseq.LazySeq values.
func caller(rt any) lazyseq.Caller { return rtOf(rt) }

func arityError(name string, got int) error {
	return &value.Error{Code: value.ErrArity, Message: name + ": wrong number of arguments (" + strconv.Itoa(got) + ")", Position: -1}
}

func typeError(name, msg string) error {
	return &value.Error{Code: value.ErrType, Message: name + ": " + msg, Position: -1}
}

func checkArity(name string, args []value.Value, min, max int) error {
	n := len(args)
	if n < min || (max >= 0 && n > max) {
		return arityError(name, n)
	}
	return nil
}

// Def pairs a built-in's clojure.core name with its implementation and
// arity, the unit Register wires into a Namespace.
type Def struct {
	Name  string
	Arity value.Arity
	Fn    value.NativeFn
}

func def(name string, min, max int, fn value.NativeFn) Def {
	return Def{Name: name, Arity: value.Arity{Min: min, Max: max}, Fn: fn}
}

// newFn wraps a Def as the *value.Fn a Namespace var actually holds.
func newFn(d Def) *value.Fn {
	return &value.Fn{Name: d.Name, Arity: d.Arity, Builtin: true, Native: d.Fn}
}
