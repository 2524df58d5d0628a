package builtins

import (
	"github.com/sandrolain/cljcore/pkg/ns"
	"github.com/sandrolain/cljcore/pkg/nscommands"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Namespace/var commands (spec.md §4.6): thin value.NativeFn wrappers
// over pkg/ns's Environment/Namespace and pkg/nscommands' require/use/
// refer/alias/in-ns/load-file. Grounded on the teacher's single
// evaluator-level lookup table pattern, generalized from function
// dispatch to namespace/var bookkeeping since the teacher itself has no
// namespace concept.

// nsNameArg accepts either a Symbol or a String, per spec.md §4.6 ("each
// accepts either a namespace symbol or a string").
func nsNameArg(name string, v value.Value) (string, error) {
	switch x := v.(type) {
	case value.Symbol:
		return x.QualifiedName(), nil
	case value.String:
		return string(x), nil
	default:
		return "", typeError(name, "requires a namespace symbol or string")
	}
}

func fnFindNs(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("find-ns", args, 1, 1); err != nil {
		return nil, err
	}
	name, err := nsNameArg("find-ns", args[0])
	if err != nil {
		return nil, err
	}
	n, ok := rtOf(rt).Env().FindNs(name)
	if !ok {
		return value.NilVal, nil
	}
	return n, nil
}

func fnCreateNs(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("create-ns", args, 1, 1); err != nil {
		return nil, err
	}
	name, err := nsNameArg("create-ns", args[0])
	if err != nil {
		return nil, err
	}
	return rtOf(rt).Env().CreateNs(name), nil
}

func fnAllNs(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("all-ns", args, 0, 0); err != nil {
		return nil, err
	}
	all := rtOf(rt).Env().AllNs()
	items := make([]value.Value, len(all))
	for i, n := range all {
		items[i] = n
	}
	return value.NewVector(items...), nil
}

func resolveNsArg(rt any, name string, v value.Value) (*ns.Namespace, error) {
	if n, ok := v.(*ns.Namespace); ok {
		return n, nil
	}
	nsName, err := nsNameArg(name, v)
	if err != nil {
		return nil, err
	}
	n, ok := rtOf(rt).Env().FindNs(nsName)
	if !ok {
		return nil, typeError(name, "no such namespace: "+nsName)
	}
	return n, nil
}

func fnNsName(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-name", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-name", args[0])
	if err != nil {
		return nil, err
	}
	return value.NewSymbol("", n.Name()), nil
}

func varsToMap(vars map[string]*ns.Var) (value.Value, error) {
	m, err := value.NewMap()
	if err != nil {
		return nil, err
	}
	for name, v := range vars {
		m = m.Assoc(value.NewSymbol("", name), v)
	}
	return m, nil
}

func fnNsPublics(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-publics", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-publics", args[0])
	if err != nil {
		return nil, err
	}
	return varsToMap(n.Publics())
}

func fnNsInterns(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-interns", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-interns", args[0])
	if err != nil {
		return nil, err
	}
	return varsToMap(n.Interns())
}

func fnNsMap(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-map", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-map", args[0])
	if err != nil {
		return nil, err
	}
	return varsToMap(n.Map())
}

func fnNsRefers(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-refers", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-refers", args[0])
	if err != nil {
		return nil, err
	}
	return varsToMap(n.Refers())
}

func fnNsAliases(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-aliases", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-aliases", args[0])
	if err != nil {
		return nil, err
	}
	m, err := value.NewMap()
	if err != nil {
		return nil, err
	}
	for short, target := range n.Aliases() {
		m = m.Assoc(value.NewSymbol("", short), target)
	}
	return m, nil
}

func fnNsResolve(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-resolve", args, 2, 2); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-resolve", args[0])
	if err != nil {
		return nil, err
	}
	sym, ok := args[1].(value.Symbol)
	if !ok {
		return nil, typeError("ns-resolve", "second argument must be a symbol")
	}
	v, ok := n.Lookup(sym.Name)
	if !ok {
		return value.NilVal, nil
	}
	return v, nil
}

func fnNsUnmap(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-unmap", args, 2, 2); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-unmap", args[0])
	if err != nil {
		return nil, err
	}
	sym, ok := args[1].(value.Symbol)
	if !ok {
		return nil, typeError("ns-unmap", "second argument must be a symbol")
	}
	n.Unmap(sym.Name)
	return value.NilVal, nil
}

func fnNsUnalias(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("ns-unalias", args, 2, 2); err != nil {
		return nil, err
	}
	n, err := resolveNsArg(rt, "ns-unalias", args[0])
	if err != nil {
		return nil, err
	}
	sym, ok := args[1].(value.Symbol)
	if !ok {
		return nil, typeError("ns-unalias", "second argument must be a symbol")
	}
	n.Unalias(sym.Name)
	return value.NilVal, nil
}

func fnRemoveNs(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("remove-ns", args, 1, 1); err != nil {
		return nil, err
	}
	name, err := nsNameArg("remove-ns", args[0])
	if err != nil {
		return nil, err
	}
	if err := rtOf(rt).Env().RemoveNs(name); err != nil {
		return nil, typeError("remove-ns", err.Error())
	}
	return value.NilVal, nil
}

func fnIntern(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("intern", args, 2, 3); err != nil {
		return nil, err
	}
	n, err := resolveOrCreateNsArg(rt, "intern", args[0])
	if err != nil {
		return nil, err
	}
	sym, ok := args[1].(value.Symbol)
	if !ok {
		return nil, typeError("intern", "second argument must be a symbol")
	}
	if len(args) == 3 {
		return n.Intern(sym.Name, args[2], true), nil
	}
	return n.Intern(sym.Name, nil, false), nil
}

func resolveOrCreateNsArg(rt any, name string, v value.Value) (*ns.Namespace, error) {
	if n, ok := v.(*ns.Namespace); ok {
		return n, nil
	}
	nsName, err := nsNameArg(name, v)
	if err != nil {
		return nil, err
	}
	return rtOf(rt).Env().CreateNs(nsName), nil
}

func fnRefer(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("refer", args, 1, -1); err != nil {
		return nil, err
	}
	src, err := resolveNsArg(rt, "refer", args[0])
	if err != nil {
		return nil, err
	}
	var only, exclude []string
	rename := map[string]string{}
	for i := 1; i < len(args)-1; i += 2 {
		kw, ok := args[i].(value.Keyword)
		if !ok {
			return nil, typeError("refer", "expected a keyword option")
		}
		switch kw.Name {
		case "only":
			only, err = symbolNames("refer", args[i+1])
		case "exclude":
			exclude, err = symbolNames("refer", args[i+1])
		case "rename":
			rename, err = symbolRenameMap(args[i+1])
		default:
			err = typeError("refer", "unknown option :"+kw.Name)
		}
		if err != nil {
			return nil, err
		}
	}
	rtOf(rt).Env().Current().Refer(src, only, exclude, rename)
	return value.NilVal, nil
}

func symbolNames(name string, v value.Value) ([]string, error) {
	vec, ok := v.(*value.Vector)
	if !ok {
		return nil, typeError(name, "expected a vector of symbols")
	}
	out := make([]string, 0, vec.Count())
	for _, e := range vec.Items() {
		sym, ok := e.(value.Symbol)
		if !ok {
			return nil, typeError(name, "expected a vector of symbols")
		}
		out = append(out, sym.Name)
	}
	return out, nil
}

func symbolRenameMap(v value.Value) (map[string]string, error) {
	m, ok := v.(*value.Map)
	if !ok {
		return nil, typeError("refer", ":rename expects a map")
	}
	out := map[string]string{}
	for _, entry := range m.Entries() {
		items := entry.Items()
		from, ok1 := items[0].(value.Symbol)
		to, ok2 := items[1].(value.Symbol)
		if !ok1 || !ok2 {
			return nil, typeError("refer", ":rename expects symbol keys and values")
		}
		out[from.Name] = to.Name
	}
	return out, nil
}

func fnAliasNs(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("alias", args, 2, 2); err != nil {
		return nil, err
	}
	short, err := nsNameArg("alias", args[0])
	if err != nil {
		return nil, err
	}
	target, err := nsNameArg("alias", args[1])
	if err != nil {
		return nil, err
	}
	if err := nscommands.Alias(rtOf(rt), short, target); err != nil {
		return nil, err
	}
	return value.NilVal, nil
}

func fnInNs(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("in-ns", args, 1, 1); err != nil {
		return nil, err
	}
	name, err := nsNameArg("in-ns", args[0])
	if err != nil {
		return nil, err
	}
	return nscommands.InNs(rtOf(rt), name), nil
}

// requireOptsFrom parses the trailing :as/:refer/:only/:reload/:reload-all
// keyword-option pairs common to require/use (spec.md §4.6).
func requireOptsFrom(name string, args []value.Value) ([]nscommands.RequireOption, error) {
	var opts []nscommands.RequireOption
	for i := 0; i < len(args); i++ {
		kw, ok := args[i].(value.Keyword)
		if !ok {
			return nil, typeError(name, "expected a keyword option")
		}
		switch kw.Name {
		case "as":
			i++
			if i >= len(args) {
				return nil, typeError(name, ":as requires an argument")
			}
			sym, ok := args[i].(value.Symbol)
			if !ok {
				return nil, typeError(name, ":as requires a symbol")
			}
			opts = append(opts, nscommands.As(sym.Name))
		case "refer":
			i++
			if i >= len(args) {
				return nil, typeError(name, ":refer requires an argument")
			}
			if kwAll, ok := args[i].(value.Keyword); ok && kwAll.Name == "all" {
				opts = append(opts, nscommands.ReferAll())
				continue
			}
			syms, err := symbolNames(name, args[i])
			if err != nil {
				return nil, err
			}
			opts = append(opts, nscommands.Refer(syms...))
		case "only":
			i++
			if i >= len(args) {
				return nil, typeError(name, ":only requires an argument")
			}
			syms, err := symbolNames(name, args[i])
			if err != nil {
				return nil, err
			}
			opts = append(opts, nscommands.Only(syms...))
		case "reload":
			opts = append(opts, nscommands.Reload())
		case "reload-all":
			opts = append(opts, nscommands.ReloadAll())
		default:
			return nil, typeError(name, "unknown option :"+kw.Name)
		}
	}
	return opts, nil
}

func requireNsName(name string, v value.Value) (string, error) {
	switch x := v.(type) {
	case value.Symbol:
		return x.QualifiedName(), nil
	case *value.Vector:
		items := x.Items()
		if len(items) == 0 {
			return "", typeError(name, "empty require spec")
		}
		sym, ok := items[0].(value.Symbol)
		if !ok {
			return "", typeError(name, "require spec must start with a symbol")
		}
		return sym.QualifiedName(), nil
	default:
		return "", typeError(name, "requires a namespace symbol or vector spec")
	}
}

func requireVecOpts(name string, v value.Value) ([]nscommands.RequireOption, error) {
	vec, ok := v.(*value.Vector)
	if !ok {
		return nil, nil
	}
	items := vec.Items()
	if len(items) <= 1 {
		return nil, nil
	}
	return requireOptsFrom(name, items[1:])
}

func fnRequire(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("require", args, 1, -1); err != nil {
		return nil, err
	}
	r := rtOf(rt)
	resolver := r.Resolver()
	if resolver == nil {
		return nil, typeError("require", "no classpath resolver installed")
	}
	for _, spec := range args {
		nsName, err := requireNsName("require", spec)
		if err != nil {
			return nil, err
		}
		opts, err := requireVecOpts("require", spec)
		if err != nil {
			return nil, err
		}
		if err := nscommands.Require(r, resolver, nsName, opts...); err != nil {
			return nil, err
		}
	}
	return value.NilVal, nil
}

func fnUse(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("use", args, 1, -1); err != nil {
		return nil, err
	}
	r := rtOf(rt)
	resolver := r.Resolver()
	if resolver == nil {
		return nil, typeError("use", "no classpath resolver installed")
	}
	for _, spec := range args {
		nsName, err := requireNsName("use", spec)
		if err != nil {
			return nil, err
		}
		opts, err := requireVecOpts("use", spec)
		if err != nil {
			return nil, err
		}
		if err := nscommands.Use(r, resolver, nsName, opts...); err != nil {
			return nil, err
		}
	}
	return value.NilVal, nil
}

func fnLoadFile(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("load-file", args, 1, 1); err != nil {
		return nil, err
	}
	path, ok := args[0].(value.String)
	if !ok {
		return nil, typeError("load-file", "requires a string path")
	}
	if err := nscommands.LoadFile(rtOf(rt), string(path)); err != nil {
		return nil, err
	}
	return value.NilVal, nil
}

var nsDefs = []Def{
	def("find-ns", 1, 1, fnFindNs),
	def("create-ns", 1, 1, fnCreateNs),
	def("all-ns", 0, 0, fnAllNs),
	def("ns-name", 1, 1, fnNsName),
	def("ns-publics", 1, 1, fnNsPublics),
	def("ns-interns", 1, 1, fnNsInterns),
	def("ns-map", 1, 1, fnNsMap),
	def("ns-refers", 1, 1, fnNsRefers),
	def("ns-aliases", 1, 1, fnNsAliases),
	def("ns-resolve", 2, 2, fnNsResolve),
	def("ns-unmap", 2, 2, fnNsUnmap),
	def("ns-unalias", 2, 2, fnNsUnalias),
	def("remove-ns", 1, 1, fnRemoveNs),
	def("intern", 2, 3, fnIntern),
	def("refer", 1, -1, fnRefer),
	def("alias", 2, 2, fnAliasNs),
	def("in-ns", 1, 1, fnInNs),
	def("require", 1, -1, fnRequire),
	def("use", 1, -1, fnUse),
	def("load-file", 1, 1, fnLoadFile),
}
