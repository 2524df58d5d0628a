package refs

import "github.com/sandrolain/cljcore/pkg/value"

// Reduced wraps a value to short-circuit reduce/reduce-kv (spec.md §3.1,
// §4.5).
type Reduced struct {
	Val value.Value
}

func (*Reduced) IsValue()          {}
func (*Reduced) ValueTag() value.Tag { return value.TagReduced }

// NewReduced wraps v.
func NewReduced(v value.Value) *Reduced { return &Reduced{Val: v} }

// EnsureReduced wraps v in a Reduced if it isn't already one.
func EnsureReduced(v value.Value) *Reduced {
	if r, ok := v.(*Reduced); ok {
		return r
	}
	return NewReduced(v)
}

// Unreduced unwraps a Reduced, or returns v unchanged if it isn't one.
func Unreduced(v value.Value) value.Value {
	if r, ok := v.(*Reduced); ok {
		return r.Val
	}
	return v
}
