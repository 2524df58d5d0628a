package ns

import "github.com/sandrolain/cljcore/pkg/value"

// frame is one layer of the dynamic-binding stack, holding Var -> Value
// overrides for a set of dynamic vars (spec.md §3.3).
type frame struct {
	entries map[*Var]value.Value
	parent  *frame
}

// BindingStack is a per-task singly-linked stack of binding frames
// (spec.md §3.3). It is not safe for concurrent use by multiple
// goroutines — spec.md §3.4 assigns one BindingStack per cooperative task.
type BindingStack struct {
	top *frame
}

// NewBindingStack creates an empty stack.
func NewBindingStack() *BindingStack { return &BindingStack{} }

// Lookup searches frames top-down for an entry for v.
func (s *BindingStack) Lookup(v *Var) (value.Value, bool) {
	for f := s.top; f != nil; f = f.parent {
		if val, ok := f.entries[v]; ok {
			return val, true
		}
	}
	return nil, false
}

// Push installs a new frame mapping each var in bindings to its value.
// Every var must have its Dynamic flag set, or IllegalState is returned
// and no frame is pushed (spec.md §4.6).
func (s *BindingStack) Push(bindings map[*Var]value.Value) error {
	for v := range bindings {
		if !v.isDynamic() {
			return &value.Error{Code: value.ErrIllegalState, Message: "can't dynamically bind non-dynamic var " + v.NsName + "/" + v.Name, Position: -1}
		}
	}
	entries := make(map[*Var]value.Value, len(bindings))
	for v, val := range bindings {
		entries[v] = val
	}
	s.top = &frame{entries: entries, parent: s.top}
	return nil
}

// Pop removes the topmost frame. Popping an empty stack is a no-op,
// matching the scope-guard discipline spec.md §5 requires (pop must
// succeed on every exit path, including when nothing was ever pushed due
// to an earlier error).
func (s *BindingStack) Pop() {
	if s.top != nil {
		s.top = s.top.parent
	}
}

// Depth returns the number of frames currently pushed, useful for the
// "stack observed after pop equals stack observed before push" testable
// property (spec.md §8, property 9).
func (s *BindingStack) Depth() int {
	n := 0
	for f := s.top; f != nil; f = f.parent {
		n++
	}
	return n
}

// PushThreadBindings pushes a frame and returns a release func that pops
// it; callers must defer the release so it runs on every exit path
// (spec.md §5's scope-guard requirement), e.g.:
//
//	release, err := stack.PushThreadBindings(bindings)
//	if err != nil { return err }
//	defer release()
func (s *BindingStack) PushThreadBindings(bindings map[*Var]value.Value) (release func(), err error) {
	if err := s.Push(bindings); err != nil {
		return func() {}, err
	}
	return s.Pop, nil
}

// WithRedefs temporarily overrides the ROOT value (not the binding stack)
// of every var in roots, invokes fn, then restores the original roots on
// every exit path including a panic or error return from fn (spec.md
// §4.6: with-redefs-fn).
func WithRedefs(roots map[*Var]value.Value, fn func() (value.Value, error)) (result value.Value, err error) {
	type saved struct {
		val     value.Value
		hasRoot bool
	}
	originals := make(map[*Var]saved, len(roots))
	for v := range roots {
		val, hasRoot := v.Root()
		originals[v] = saved{val, hasRoot}
	}
	defer func() {
		for v, s := range originals {
			if s.hasRoot {
				v.SetRoot(s.val)
			} else {
				v.mu.Lock()
				v.hasRoot = false
				v.root = nil
				v.mu.Unlock()
			}
		}
	}()
	for v, newVal := range roots {
		v.SetRoot(newVal)
	}
	return fn()
}
