package ggedit

import (
	"strings"

	"golang.org/x/text/cases"
)

// Range is an inclusive numeric interval.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Clamp limits v to [Min, Max].
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// FilterSpec describes one adjustable filter.
type FilterSpec struct {
	Name    string // display name, e.g. "Hue Rotate"
	Kind    string // CSS filter function name, e.g. "hue-rotate"
	Default float64
	Range   Range
	Unit    string // "%", "deg" or "px"
}

var registry = [...]FilterSpec{
	{Name: "Brightness", Kind: "brightness", Default: 100, Range: Range{0, 200}, Unit: "%"},
	{Name: "Contrast", Kind: "contrast", Default: 100, Range: Range{0, 200}, Unit: "%"},
	{Name: "Saturation", Kind: "saturate", Default: 100, Range: Range{0, 200}, Unit: "%"},
	{Name: "Grayscale", Kind: "grayscale", Default: 0, Range: Range{0, 100}, Unit: "%"},
	{Name: "Sepia", Kind: "sepia", Default: 0, Range: Range{0, 100}, Unit: "%"},
	{Name: "Hue Rotate", Kind: "hue-rotate", Default: 0, Range: Range{0, 360}, Unit: "deg"},
	{Name: "Blur", Kind: "blur", Default: 0, Range: Range{0, 20}, Unit: "px"},
}

// Defaults returns the catalog of filters in display order.
// Each call returns a fresh slice; callers may modify it freely.
func Defaults() []FilterSpec {
	out := make([]FilterSpec, len(registry))
	copy(out, registry[:])
	return out
}

// LookupKind resolves a filter kind ("hue-rotate") or display name
// ("Hue Rotate", "hue_rotate") to its registry index. Matching is
// case-insensitive using Unicode case folding.
func LookupKind(s string) (int, bool) {
	fold := cases.Fold()
	key := normalizeKey(fold.String(strings.TrimSpace(s)))
	if key == "" {
		return 0, false
	}
	for i, spec := range registry {
		if key == normalizeKey(fold.String(spec.Kind)) || key == normalizeKey(fold.String(spec.Name)) {
			return i, true
		}
	}
	return 0, false
}

func normalizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, s)
}
