package main

import (
	"strconv"

	"github.com/sandrolain/cljcore/pkg/ns"
	"github.com/sandrolain/cljcore/pkg/runtime"
	"github.com/sandrolain/cljcore/pkg/value"
)

// eval is the tree-walker spec.md §6.2 names as the last link of the
// reader/analyzer/evaluator chain — deliberately "minimal": just enough
// special-form handling (quote, if, do, let*, fn*, def, var, binding) for
// the end-to-end scenarios in spec.md §8 other than S4, which needs a
// delay form this evaluator does not have; everything else is
// ordinary function application dispatched through rt.CallFn so the core
// packages never know an evaluator exists.
func eval(rt *runtime.Context, e *env, form value.Value) (value.Value, error) {
	switch f := form.(type) {
	case value.Symbol:
		return resolveSymbolValue(rt, e, f)
	case *value.List:
		return evalList(rt, e, f)
	default:
		// Vectors, maps, and every scalar type are self-evaluating
		// (spec.md §3.1's literal forms carry no evaluation rule of
		// their own).
		return form, nil
	}
}

func evalBody(rt *runtime.Context, e *env, forms []value.Value) (value.Value, error) {
	var result value.Value = value.NilVal
	for _, f := range forms {
		v, err := eval(rt, e, f)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func evalList(rt *runtime.Context, e *env, lst *value.List) (value.Value, error) {
	if lst.Count() == 0 {
		return lst, nil
	}
	items := lst.ToSlice()
	if head, ok := items[0].(value.Symbol); ok && head.Namespace == "" {
		switch head.Name {
		case "quote":
			return items[1], nil
		case "if":
			return evalIf(rt, e, items)
		case "do":
			return evalBody(rt, e, items[1:])
		case "let", "let*":
			return evalLet(rt, e, items)
		case "fn", "fn*":
			return evalFn(rt, e, items)
		case "def":
			return evalDef(rt, e, items)
		case "var":
			return resolveVar(rt, e, items[1].(value.Symbol))
		case "binding":
			return evalBinding(rt, e, items)
		}
	}
	return evalApply(rt, e, items)
}

func evalIf(rt *runtime.Context, e *env, items []value.Value) (value.Value, error) {
	if len(items) < 3 || len(items) > 4 {
		return nil, arityErr("if", len(items)-1)
	}
	test, err := eval(rt, e, items[1])
	if err != nil {
		return nil, err
	}
	if value.Truthy(test) {
		return eval(rt, e, items[2])
	}
	if len(items) == 4 {
		return eval(rt, e, items[3])
	}
	return value.NilVal, nil
}

func evalLet(rt *runtime.Context, e *env, items []value.Value) (value.Value, error) {
	bindings, ok := items[1].(*value.Vector)
	if !ok {
		return nil, &value.Error{Code: value.ErrType, Message: "let: bindings must be a vector", Position: -1}
	}
	pairs := bindings.Items()
	if len(pairs)%2 != 0 {
		return nil, &value.Error{Code: value.ErrType, Message: "let: bindings must be an even number of forms", Position: -1}
	}
	scope := newEnv(e)
	for i := 0; i < len(pairs); i += 2 {
		sym, ok := pairs[i].(value.Symbol)
		if !ok {
			return nil, &value.Error{Code: value.ErrType, Message: "let: binding name must be a symbol", Position: -1}
		}
		val, err := eval(rt, scope, pairs[i+1])
		if err != nil {
			return nil, err
		}
		scope.define(sym.Name, val)
	}
	return evalBody(rt, scope, items[2:])
}

func evalFn(rt *runtime.Context, e *env, items []value.Value) (value.Value, error) {
	rest := items[1:]
	name := "fn"
	if sym, ok := rest[0].(value.Symbol); ok {
		name = sym.Name
		rest = rest[1:]
	}
	paramVec, ok := rest[0].(*value.Vector)
	if !ok {
		return nil, &value.Error{Code: value.ErrType, Message: "fn: parameter list must be a vector", Position: -1}
	}
	var params []string
	variadic := ""
	items2 := paramVec.Items()
	for i := 0; i < len(items2); i++ {
		sym, ok := items2[i].(value.Symbol)
		if !ok {
			return nil, &value.Error{Code: value.ErrType, Message: "fn: parameter must be a symbol", Position: -1}
		}
		if sym.Name == "&" {
			variadic = items2[i+1].(value.Symbol).Name
			break
		}
		params = append(params, sym.Name)
	}
	cl := &closure{name: name, params: params, variadic: variadic, body: rest[1:], env: e}
	arity := value.Arity{Min: len(params), Max: len(params)}
	if variadic != "" {
		arity.Max = -1
	}
	return &value.Fn{Name: name, Arity: arity, Closure: cl}, nil
}

func evalDef(rt *runtime.Context, e *env, items []value.Value) (value.Value, error) {
	sym, ok := items[1].(value.Symbol)
	if !ok {
		return nil, &value.Error{Code: value.ErrType, Message: "def: name must be a symbol", Position: -1}
	}
	var init value.Value
	hasInit := len(items) == 3
	if hasInit {
		v, err := eval(rt, e, items[2])
		if err != nil {
			return nil, err
		}
		init = v
	}
	return rt.Env().Current().Intern(sym.Name, init, hasInit), nil
}

func evalBinding(rt *runtime.Context, e *env, items []value.Value) (value.Value, error) {
	bindings, ok := items[1].(*value.Vector)
	if !ok {
		return nil, &value.Error{Code: value.ErrType, Message: "binding: bindings must be a vector", Position: -1}
	}
	pairs := bindings.Items()
	frame := make(map[*ns.Var]value.Value, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		sym, ok := pairs[i].(value.Symbol)
		if !ok {
			return nil, &value.Error{Code: value.ErrType, Message: "binding: name must be a symbol", Position: -1}
		}
		v, err := resolveVar(rt, e, sym)
		if err != nil {
			return nil, err
		}
		val, err := eval(rt, e, pairs[i+1])
		if err != nil {
			return nil, err
		}
		frame[v] = val
	}
	release, err := rt.PushThreadBindings(frame)
	if err != nil {
		return nil, err
	}
	defer release()
	return evalBody(rt, e, items[2:])
}

func evalApply(rt *runtime.Context, e *env, items []value.Value) (value.Value, error) {
	fn, err := eval(rt, e, items[0])
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(items)-1)
	for i, a := range items[1:] {
		v, err := eval(rt, e, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return rt.CallFn(fn, args)
}

// resolveSymbolValue evaluates a symbol: a local binding if one is in
// scope, otherwise the current value of the Var it names (spec.md §3.3:
// "a bare symbol evaluates to its Var's current value").
func resolveSymbolValue(rt *runtime.Context, e *env, sym value.Symbol) (value.Value, error) {
	if sym.Namespace == "" {
		if v, ok := e.lookup(sym.Name); ok {
			return v, nil
		}
	}
	v, err := resolveVar(rt, e, sym)
	if err != nil {
		return nil, err
	}
	return v.Deref(rt.Bindings())
}

// resolveVar resolves sym to its *ns.Var without dereferencing, used by
// def/var/binding (spec.md §4.6's namespace resolution: unqualified
// against the current namespace, qualified against the named one, with
// ns-aliases consulted first).
func resolveVar(rt *runtime.Context, e *env, sym value.Symbol) (*ns.Var, error) {
	current := rt.Env().Current()
	if sym.Namespace == "" {
		if v, ok := current.Lookup(sym.Name); ok {
			return v, nil
		}
		return nil, &value.Error{Code: value.ErrIllegalState, Message: "unable to resolve symbol: " + sym.Name, Position: -1}
	}
	target, ok := current.ResolveAlias(sym.Namespace)
	if !ok {
		target, ok = rt.Env().FindNs(sym.Namespace)
	}
	if !ok {
		return nil, &value.Error{Code: value.ErrIllegalState, Message: "no such namespace: " + sym.Namespace, Position: -1}
	}
	v, ok := target.Lookup(sym.Name)
	if !ok {
		return nil, &value.Error{Code: value.ErrIllegalState, Message: "unable to resolve symbol: " + sym.QualifiedName(), Position: -1}
	}
	return v, nil
}

func arityErr(name string, got int) error {
	return &value.Error{Code: value.ErrArity, Message: name + ": wrong number of arguments (" + strconv.Itoa(got) + ")", Position: -1}
}
