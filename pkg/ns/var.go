// Package ns implements namespace/var interning, dynamic rebinding with a
// scoped binding-frame stack, and the refer/alias tables (spec.md §3.3,
// §4.6); require/use are built on top of it in pkg/nscommands.
//
// Grounded on the teacher's pkg/evaluator/context.go EvalContext, whose
// parent-chain GetBinding walk is generalized here into the Var
// root/thread-binding split, and on pkg/functions/registry.go's
// FunctionRegistry — an unused stub in the teacher (DefaultRegistry's body
// is all commented-out TODOs) — adapted into Namespace.interns as the
// name -> definition table the stub was reaching for.
package ns

import (
	"sync"

	"github.com/sandrolain/cljcore/pkg/value"
)

// Var is a named cell in a Namespace, holding a root value and
// participating in the dynamic binding stack (spec.md §3.3).
type Var struct {
	mu       sync.RWMutex
	NsName   string
	Name     string
	root     value.Value
	hasRoot  bool
	Dynamic  bool
	Private  bool
	Doc      string
	ArgLists string
}

func (*Var) IsValue()          {}
func (*Var) ValueTag() value.Tag { return value.TagVar }

// Sym returns the fully-qualified symbol naming this var.
func (v *Var) Sym() value.Symbol { return value.NewSymbol(v.NsName, v.Name) }

// SetRoot assigns the var's root value.
func (v *Var) SetRoot(val value.Value) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.root = val
	v.hasRoot = true
}

// Root returns the var's root value (ignoring any thread binding).
func (v *Var) Root() (value.Value, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.root, v.hasRoot
}

// Deref returns, in order: the topmost thread-binding frame entry for this
// var if one exists, otherwise the root (spec.md §3.3).
func (v *Var) Deref(stack *BindingStack) (value.Value, error) {
	if stack != nil {
		if val, ok := stack.Lookup(v); ok {
			return val, nil
		}
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.hasRoot {
		return nil, &value.Error{Code: value.ErrIllegalState, Message: "var " + v.NsName + "/" + v.Name + " is unbound", Position: -1}
	}
	return v.root, nil
}

func (v *Var) isDynamic() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.Dynamic
}
