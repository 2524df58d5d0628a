package refs

import (
	"sync"

	"github.com/sandrolain/cljcore/pkg/value"
)

// Volatile is a pure mutable cell: no validator, no watches (spec.md
// §3.2, §4.5).
type Volatile struct {
	mu      sync.RWMutex
	current value.Value
}

func (*Volatile) IsValue()          {}
func (*Volatile) ValueTag() value.Tag { return value.TagVolatile }

// NewVolatile creates a volatile holding x.
func NewVolatile(x value.Value) *Volatile { return &Volatile{current: x} }

// Deref returns the current value.
func (v *Volatile) Deref() value.Value {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Reset replaces the current value in place (vreset!).
func (v *Volatile) Reset(newVal value.Value) value.Value {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = newVal
	return newVal
}

// Swap replaces the current value with f(current, extra) (vswap!).
func (v *Volatile) Swap(f func(current value.Value, extra []value.Value) (value.Value, error), extra []value.Value) (value.Value, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	newVal, err := f(v.current, extra)
	if err != nil {
		return nil, err
	}
	v.current = newVal
	return newVal, nil
}
