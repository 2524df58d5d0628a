package refs

import (
	"sync"

	"github.com/sandrolain/cljcore/pkg/value"
)

// ThunkFn is a zero-argument user function, invoked through the host's
// force_lazy_seq_fn callback by the caller (pkg/builtins), never directly
// by this package (spec.md §4.7).
type ThunkFn func() (value.Value, error)

// Delay realizes a thunk at most once, caching the result forever
// (spec.md §3.2, §4.5). Grounded on sync.Once's at-most-once discipline,
// generalized to propagate an error and to let the thunk itself be a
// value.Value forwarded by the caller rather than a bare Go closure.
type Delay struct {
	mu       sync.Mutex
	thunk    ThunkFn
	realized bool
	cached   value.Value
	err      error
}

func (*Delay) IsValue()          {}
func (*Delay) ValueTag() value.Tag { return value.TagDelay }

// NewDelay creates an unrealized delay wrapping thunk.
func NewDelay(thunk ThunkFn) *Delay {
	return &Delay{thunk: thunk}
}

// Force evaluates the thunk on first call only; the thunk is dropped once
// realized, and every later Force returns the cached value or error
// (spec.md §3.2: "once realized, thunk is dropped and cached returned
// forever").
func (d *Delay) Force() (value.Value, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.realized {
		return d.cached, d.err
	}
	d.cached, d.err = d.thunk()
	d.realized = true
	d.thunk = nil
	return d.cached, d.err
}

// Realized reports whether the delay has been forced.
func (d *Delay) Realized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.realized
}
