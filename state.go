package ggedit

import (
	"fmt"
	"math"
)

// Filter is one adjustable filter with its current value.
type Filter struct {
	Spec  FilterSpec
	Value float64
}

// State is the ordered list of filter values, one per registry entry.
//
// State is a value type: SetValue and Reset return a new State and never
// modify the receiver, so a State can be shared across goroutines.
type State struct {
	filters []Filter
}

// NewState returns a State with every filter at its default value.
func NewState() State {
	specs := Defaults()
	filters := make([]Filter, len(specs))
	for i, spec := range specs {
		filters[i] = Filter{Spec: spec, Value: spec.Default}
	}
	return State{filters: filters}
}

// Len returns the number of filters.
func (s State) Len() int { return len(s.filters) }

// At returns the filter at index i. It panics if i is out of range,
// like slice indexing.
func (s State) At(i int) Filter { return s.filters[i] }

// Values returns the current values in registry order.
func (s State) Values() []float64 {
	out := make([]float64, len(s.filters))
	for i, f := range s.filters {
		out[i] = f.Value
	}
	return out
}

// Filters returns a copy of the filter list.
func (s State) Filters() []Filter {
	out := make([]Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

// SetValue returns a new State with filter i set to v. Finite values outside
// the filter's range are clamped to it.
func (s State) SetValue(i int, v float64) (State, error) {
	if i < 0 || i >= len(s.filters) {
		return s, fmt.Errorf("set filter %d of %d: %w", i, len(s.filters), ErrIndexOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s, fmt.Errorf("set %s to %v: %w", s.filters[i].Spec.Kind, v, ErrInvalidValue)
	}
	next := make([]Filter, len(s.filters))
	copy(next, s.filters)
	v = next[i].Spec.Range.Clamp(v)
	if v == 0 {
		v = 0 // drop the sign of -0 so it never renders as "-0"
	}
	next[i].Value = v
	return State{filters: next}, nil
}

// Reset returns a State with every filter back at its default.
func (s State) Reset() State { return NewState() }

// Equal reports whether both states hold the same values.
func (s State) Equal(o State) bool {
	if len(s.filters) != len(o.filters) {
		return false
	}
	for i := range s.filters {
		if s.filters[i] != o.filters[i] {
			return false
		}
	}
	return true
}
