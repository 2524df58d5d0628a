package main

import "github.com/sandrolain/cljcore/pkg/value"

// env is the lexical binding frame a let/fn body evaluates against,
// chained to its defining scope so closures capture their environment by
// reference rather than by copying the whole chain (spec.md §6.1's
// current_env slot, specialized here to lexical rather than namespace
// scope).
type env struct {
	vars   map[string]value.Value
	parent *env
}

func newEnv(parent *env) *env {
	return &env{vars: make(map[string]value.Value), parent: parent}
}

func (e *env) lookup(name string) (value.Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (e *env) define(name string, v value.Value) {
	e.vars[name] = v
}
