package ns

import (
	"sync"

	"github.com/sandrolain/cljcore/pkg/value"
)

// Namespace owns interned vars plus refer and alias tables (spec.md §3.3).
type Namespace struct {
	mu      sync.RWMutex
	name    string
	interns map[string]*Var
	refers  map[string]*Var
	aliases map[string]*Namespace
}

func (*Namespace) IsValue()            {}
func (*Namespace) ValueTag() value.Tag { return value.TagNamespace }

func newNamespace(name string) *Namespace {
	return &Namespace{
		name:    name,
		interns: make(map[string]*Var),
		refers:  make(map[string]*Var),
		aliases: make(map[string]*Namespace),
	}
}

// Name returns the namespace's name.
func (n *Namespace) Name() string { return n.name }

// Intern creates (or finds) a var named sym in n. If val is provided it
// becomes the var's root (spec.md §4.6: "intern ns name [val]").
func (n *Namespace) Intern(name string, val value.Value, hasVal bool) *Var {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.interns[name]
	if !ok {
		v = &Var{NsName: n.name, Name: name}
		n.interns[name] = v
	}
	if hasVal {
		v.SetRoot(val)
	}
	return v
}

// Lookup resolves name against interns then refers (spec.md §3.3's
// ns-map = interns ∪ refers).
func (n *Namespace) Lookup(name string) (*Var, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if v, ok := n.interns[name]; ok {
		return v, true
	}
	v, ok := n.refers[name]
	return v, ok
}

// Publics returns the interned vars that are not private (ns-publics).
func (n *Namespace) Publics() map[string]*Var {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]*Var)
	for name, v := range n.interns {
		if !v.Private {
			out[name] = v
		}
	}
	return out
}

// Interns returns a copy of the full intern table (ns-interns).
func (n *Namespace) Interns() map[string]*Var {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]*Var, len(n.interns))
	for k, v := range n.interns {
		out[k] = v
	}
	return out
}

// Refers returns a copy of the refer table (ns-refers).
func (n *Namespace) Refers() map[string]*Var {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]*Var, len(n.refers))
	for k, v := range n.refers {
		out[k] = v
	}
	return out
}

// Map returns interns union refers (ns-map).
func (n *Namespace) Map() map[string]*Var {
	out := n.Interns()
	for k, v := range n.Refers() {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// Aliases returns a copy of the alias table (ns-aliases).
func (n *Namespace) Aliases() map[string]*Namespace {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]*Namespace, len(n.aliases))
	for k, v := range n.aliases {
		out[k] = v
	}
	return out
}

// AddAlias registers short as an alias for target (spec.md §4.6: alias).
func (n *Namespace) AddAlias(short string, target *Namespace) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.aliases[short] = target
}

// ResolveAlias looks up a short alias.
func (n *Namespace) ResolveAlias(short string) (*Namespace, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ns, ok := n.aliases[short]
	return ns, ok
}

// Unalias removes a registered alias (ns-unalias).
func (n *Namespace) Unalias(short string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.aliases, short)
}

// Unmap deletes a symbol-name binding from this namespace only
// (spec.md §3.3: unmap; ns-unmap).
func (n *Namespace) Unmap(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.interns, name)
	delete(n.refers, name)
}

// Refer copies mappings from src into n, filtered by only/exclude/rename
// (spec.md §4.6: refer).
//
//	only: if non-nil, copy just these names.
//	exclude: skip these names.
//	rename: copy under a different local name.
func (n *Namespace) Refer(src *Namespace, only []string, exclude []string, rename map[string]string) {
	excl := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excl[e] = true
	}
	var names map[string]*Var
	if only != nil {
		names = make(map[string]*Var, len(only))
		pub := src.Publics()
		for _, nm := range only {
			if v, ok := pub[nm]; ok {
				names[nm] = v
			}
		}
	} else {
		names = src.Publics()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for name, v := range names {
		if excl[name] {
			continue
		}
		localName := name
		if r, ok := rename[name]; ok {
			localName = r
		}
		n.refers[localName] = v
	}
}
