package refs

import (
	"sync"

	"github.com/sandrolain/cljcore/pkg/value"
)

// Promise delivers a value exactly once (spec.md §3.2, §4.5).
type Promise struct {
	mu        sync.Mutex
	value     value.Value
	delivered bool
}

func (*Promise) IsValue()          {}
func (*Promise) ValueTag() value.Tag { return value.TagPromise }

// NewPromise creates an undelivered promise.
func NewPromise() *Promise { return &Promise{} }

// Deliver sets the value iff not already delivered; later calls are a
// silent no-op (spec.md §4.5). Returns whether this call delivered it.
func (p *Promise) Deliver(v value.Value) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.delivered {
		return false
	}
	p.value = v
	p.delivered = true
	return true
}

// Deref returns the delivered value, or Nil if undelivered.
func (p *Promise) Deref() value.Value {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.delivered {
		return value.NilVal
	}
	return p.value
}

// Realized reports whether the promise has been delivered.
func (p *Promise) Realized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.delivered
}
