package main

import "github.com/sandrolain/cljcore/pkg/value"

// closure is the Closure payload a user-defined *value.Fn carries
// (pkg/value/funclike.go: "Closure is opaque data the host evaluator
// interprets for user-defined functions — param list + body + captured
// env"). Only this package's hostCall ever type-asserts it back.
type closure struct {
	name     string
	params   []string
	variadic string // "" when the fn takes no rest arg
	body     []value.Value
	env      *env
}

func (c *closure) bind(args []value.Value) (*env, error) {
	fixed := len(c.params)
	if c.variadic == "" {
		if len(args) != fixed {
			return nil, arityErr(c.name, len(args))
		}
	} else if len(args) < fixed {
		return nil, arityErr(c.name, len(args))
	}
	callEnv := newEnv(c.env)
	for i, p := range c.params {
		callEnv.define(p, args[i])
	}
	if c.variadic != "" {
		rest := value.ListFromSlice(args[fixed:])
		callEnv.define(c.variadic, rest)
	}
	return callEnv, nil
}
