package ns

import "sync"

// CoreNamespaceName is the namespace that can never be removed
// (spec.md §3.3: "clojure.core is not removable").
const CoreNamespaceName = "clojure.core"

// Environment owns every live Namespace plus the current-namespace cursor
// (spec.md §4.6's find-ns/create-ns/all-ns/in-ns/remove-ns family). It
// corresponds to the current_env slot of spec.md §6.1.
type Environment struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
	current    string
}

// NewEnvironment creates an Environment seeded with clojure.core as the
// current namespace.
func NewEnvironment() *Environment {
	e := &Environment{namespaces: make(map[string]*Namespace)}
	e.namespaces[CoreNamespaceName] = newNamespace(CoreNamespaceName)
	e.current = CoreNamespaceName
	return e
}

// FindNs returns the namespace named name, if it exists.
func (e *Environment) FindNs(name string) (*Namespace, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n, ok := e.namespaces[name]
	return n, ok
}

// CreateNs returns the namespace named name, creating it if absent.
func (e *Environment) CreateNs(name string) *Namespace {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.namespaces[name]
	if !ok {
		n = newNamespace(name)
		e.namespaces[name] = n
	}
	return n
}

// AllNs returns every live namespace.
func (e *Environment) AllNs() []*Namespace {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Namespace, 0, len(e.namespaces))
	for _, n := range e.namespaces {
		out = append(out, n)
	}
	return out
}

// RemoveNs destroys a namespace and its vars. clojure.core cannot be
// removed (spec.md §3.3).
func (e *Environment) RemoveNs(name string) error {
	if name == CoreNamespaceName {
		return &removeCoreError{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.namespaces, name)
	if e.current == name {
		e.current = CoreNamespaceName
	}
	return nil
}

type removeCoreError struct{}

func (*removeCoreError) Error() string { return "cannot remove clojure.core" }

// Current returns the current namespace.
func (e *Environment) Current() *Namespace {
	e.mu.RLock()
	name := e.current
	e.mu.RUnlock()
	n, _ := e.FindNs(name)
	return n
}

// InNs switches the current namespace, creating it if missing
// (spec.md §4.6: in-ns).
func (e *Environment) InNs(name string) *Namespace {
	n := e.CreateNs(name)
	e.mu.Lock()
	e.current = name
	e.mu.Unlock()
	return n
}

// Core returns the clojure.core namespace.
func (e *Environment) Core() *Namespace {
	n, _ := e.FindNs(CoreNamespaceName)
	return n
}
