package ggedit

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Operation is one compiled filter function, e.g. blur(2px).
type Operation struct {
	Name     string
	Argument float64
	Unit     string
}

// String renders the operation as a CSS filter function.
func (op Operation) String() string {
	return op.Name + "(" + strconv.FormatFloat(op.Argument, 'f', -1, 64) + op.Unit + ")"
}

// Transform is the ordered list of operations compiled from a State.
// It is the single description of an edit shared by preview and export.
type Transform struct {
	ops []Operation
}

// Compile converts a State into a Transform: one operation per filter, in
// registry order. Neutral values are kept so the rendered string always has
// the same shape.
func Compile(s State) Transform {
	ops := make([]Operation, s.Len())
	for i, f := range s.filters {
		ops[i] = Operation{Name: f.Spec.Kind, Argument: f.Value, Unit: f.Spec.Unit}
	}
	t := Transform{ops: ops}
	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("ggedit: compiled transform", "filter", t.String())
	}
	return t
}

// Len returns the number of operations.
func (t Transform) Len() int { return len(t.ops) }

// Operations returns a copy of the operation list.
func (t Transform) Operations() []Operation {
	out := make([]Operation, len(t.ops))
	copy(out, t.ops)
	return out
}

// String renders the transform as a CSS filter value: the operations joined
// by single spaces. An empty transform renders as "none".
func (t Transform) String() string {
	if len(t.ops) == 0 {
		return "none"
	}
	var b strings.Builder
	for i, op := range t.ops {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(op.String())
	}
	return b.String()
}

// Equal reports whether both transforms hold the same operations.
func (t Transform) Equal(o Transform) bool {
	if len(t.ops) != len(o.ops) {
		return false
	}
	for i := range t.ops {
		if t.ops[i] != o.ops[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (t Transform) Clone() Transform {
	return Transform{ops: t.Operations()}
}
