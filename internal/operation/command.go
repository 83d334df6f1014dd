package operation

import (
	"fmt"
)

// Command binds an operation to one argument list. Operations are pure, so
// executing the same Command twice yields the same result.
type Command struct {
	op   Descriptor
	args []float64
}

// NewCommand builds a Command for the named operation. It returns false when
// the name is not registered; arity is checked by Execute, not here.
func (r *Registry) NewCommand(name string, args []float64) (*Command, bool) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	cp := make([]float64, len(args))
	copy(cp, args)
	return &Command{op: d, args: cp}, true
}

// Name returns the normalized operation name.
func (c *Command) Name() string { return c.op.Name }

// Args returns a copy of the command's arguments.
func (c *Command) Args() []float64 {
	cp := make([]float64, len(c.args))
	copy(cp, c.args)
	return cp
}

// Execute validates arity and runs the operation.
func (c *Command) Execute() (float64, error) {
	if !c.op.Accepts(len(c.args)) {
		return 0, fmt.Errorf("%w: %s %s, got %d", ErrInvalidArity, c.op.Name, describeArity(c.op), len(c.args))
	}
	return c.op.Compute(c.args)
}

func describeArity(d Descriptor) string {
	switch {
	case d.MaxArity == Unbounded:
		return fmt.Sprintf("requires at least %d %s", d.MinArity, plural(d.MinArity))
	case d.MinArity == d.MaxArity:
		return fmt.Sprintf("requires exactly %d %s", d.MinArity, plural(d.MinArity))
	default:
		return fmt.Sprintf("requires between %d and %d arguments", d.MinArity, d.MaxArity)
	}
}

func plural(n int) string {
	if n == 1 {
		return "argument"
	}
	return "arguments"
}
