package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/ggedit/internal/image"
	"github.com/gogpu/ggedit/internal/parallel"
)

// Parse errors.
var (
	// ErrSyntax is returned when the filter text is not a list of name(arg) functions.
	ErrSyntax = errors.New("filter: syntax error")

	// ErrUnknownFunction is returned for a function outside the supported set.
	ErrUnknownFunction = errors.New("filter: unknown function")

	// ErrInvalidArgument is returned for a missing, negative or wrongly typed argument.
	ErrInvalidArgument = errors.New("filter: invalid argument")
)

// Step is a single pixel pass.
type Step interface {
	Apply(src, dst *image.Pixmap, pool *parallel.WorkerPool)
}

// Function is one parsed filter function with its argument as written.
type Function struct {
	Name  string
	Value float64
	Unit  string
}

// String renders the function as name(valueunit).
func (fn Function) String() string {
	return fn.Name + "(" + strconv.FormatFloat(fn.Value, 'f', -1, 64) + fn.Unit + ")"
}

// Chain is an ordered list of filter functions ready to apply.
type Chain struct {
	functions []Function
	steps     []Step
}

// Parse parses a space-separated filter function list such as
// "brightness(150%) hue-rotate(90deg) blur(2px)". The empty string and
// "none" yield an empty chain.
func Parse(text string) (*Chain, error) {
	c := &Chain{}
	rest := strings.TrimSpace(text)
	if rest == "" || strings.EqualFold(rest, "none") {
		return c, nil
	}

	for rest != "" {
		open := strings.IndexByte(rest, '(')
		if open <= 0 {
			return nil, fmt.Errorf("%w: expected function at %q", ErrSyntax, rest)
		}
		name := strings.ToLower(rest[:open])
		if strings.ContainsAny(name, " \t\n)") {
			return nil, fmt.Errorf("%w: bad function name %q", ErrSyntax, rest[:open])
		}
		closing := strings.IndexByte(rest[open:], ')')
		if closing < 0 {
			return nil, fmt.Errorf("%w: unterminated %s(", ErrSyntax, name)
		}
		arg := strings.TrimSpace(rest[open+1 : open+closing])

		fn, step, err := compileFunction(name, arg)
		if err != nil {
			return nil, err
		}
		c.functions = append(c.functions, fn)
		c.steps = append(c.steps, step)

		rest = rest[open+closing+1:]
		trimmed := strings.TrimLeft(rest, " \t\n")
		if trimmed != "" && len(trimmed) == len(rest) {
			return nil, fmt.Errorf("%w: missing space before %q", ErrSyntax, trimmed)
		}
		rest = trimmed
	}
	return c, nil
}

// Functions returns a copy of the parsed functions in order.
func (c *Chain) Functions() []Function {
	out := make([]Function, len(c.functions))
	copy(out, c.functions)
	return out
}

// Len returns the number of functions in the chain.
func (c *Chain) Len() int { return len(c.functions) }

// String renders the chain in canonical form.
func (c *Chain) String() string {
	if len(c.functions) == 0 {
		return "none"
	}
	parts := make([]string, len(c.functions))
	for i, fn := range c.functions {
		parts[i] = fn.String()
	}
	return strings.Join(parts, " ")
}

// Apply runs every step in order on p, in place.
func (c *Chain) Apply(p *image.Pixmap, pool *parallel.WorkerPool) {
	for _, s := range c.steps {
		s.Apply(p, p, pool)
	}
}

// compileFunction validates one function and builds its pixel step.
func compileFunction(name, arg string) (Function, Step, error) {
	value, unit, err := splitArgument(arg)
	if err != nil {
		return Function{}, nil, fmt.Errorf("%s: %w", name, err)
	}
	fn := Function{Name: name, Value: value, Unit: unit}

	switch name {
	case "brightness", "contrast", "saturate", "grayscale", "sepia":
		amount, err := amountOf(arg == "", value, unit)
		if err != nil {
			return Function{}, nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn, amountStep(name, amount), nil

	case "hue-rotate":
		deg, err := degreesOf(value, unit)
		if err != nil {
			return Function{}, nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn, HueRotate(deg), nil

	case "blur":
		if value < 0 || (unit != "px" && !(unit == "" && value == 0)) {
			return Function{}, nil, fmt.Errorf("%s: %w: %q", name, ErrInvalidArgument, arg)
		}
		return fn, NewBlur(value), nil

	default:
		return Function{}, nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
}

func amountStep(name string, amount float64) Step {
	switch name {
	case "brightness":
		return Brightness(amount)
	case "contrast":
		return Contrast(amount)
	case "saturate":
		return Saturate(amount)
	case "grayscale":
		return Grayscale(amount)
	default:
		return Sepia(amount)
	}
}

// amountOf converts a <number> or <percentage> to a factor. An omitted
// argument means 1.
func amountOf(omitted bool, value float64, unit string) (float64, error) {
	if omitted {
		return 1, nil
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: negative amount", ErrInvalidArgument)
	}
	switch unit {
	case "":
		return value, nil
	case "%":
		return value / 100, nil
	default:
		return 0, fmt.Errorf("%w: unit %q", ErrInvalidArgument, unit)
	}
}

// degreesOf converts an <angle> to degrees. A bare zero is accepted.
func degreesOf(value float64, unit string) (float64, error) {
	switch unit {
	case "deg":
		return value, nil
	case "rad":
		return value * 180 / math.Pi, nil
	case "grad":
		return value * 0.9, nil
	case "turn":
		return value * 360, nil
	case "":
		if value == 0 {
			return 0, nil
		}
	}
	return 0, fmt.Errorf("%w: angle unit %q", ErrInvalidArgument, unit)
}

// splitArgument splits "150%" into (150, "%"). An empty argument is (0, "").
func splitArgument(arg string) (float64, string, error) {
	if arg == "" {
		return 0, "", nil
	}
	end := 0
	for end < len(arg) && strings.IndexByte("+-.0123456789", arg[end]) >= 0 {
		end++
	}
	if end == 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidArgument, arg)
	}
	value, err := strconv.ParseFloat(arg[:end], 64)
	if err != nil || math.IsInf(value, 0) {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidArgument, arg)
	}
	return value, strings.ToLower(strings.TrimSpace(arg[end:])), nil
}
