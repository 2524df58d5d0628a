package builtins

import "github.com/sandrolain/cljcore/pkg/ns"

// Register interns every built-in in this package into core, the way
// the teacher's evaluator registers its $-prefixed functions into one
// lookup table at construction time.
func Register(core *ns.Namespace) {
	all := [][]Def{
		arithDefs,
		equalityDefs,
		predicateDefs,
		collectionDefs,
		hofDefs,
		refsDefs,
		stringDefs,
		ioDefs,
		randomDefs,
		walkDefs,
		nsDefs,
		generatorDefs,
		wasmDefs,
	}
	for _, defs := range all {
		for _, d := range defs {
			core.Intern(d.Name, newFn(d), true)
		}
	}
}
