package operation

import (
	"fmt"
	"math"
)

// Builtins returns a registry holding the calculator's built-in operations.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register("add", 2, 2, func(a []float64) (float64, error) { return a[0] + a[1], nil })
	r.Register("subtract", 2, 2, func(a []float64) (float64, error) { return a[0] - a[1], nil })
	r.Register("multiply", 2, 2, func(a []float64) (float64, error) { return a[0] * a[1], nil })
	r.Register("divide", 2, 2, divide)
	r.Register("sqrt", 1, 1, sqrt)
	r.Register("mean", 1, Unbounded, Mean)
	r.Register("median", 1, Unbounded, Median)
	r.Register("mode", 1, Unbounded, Mode)
	r.Register("variance", 2, Unbounded, Variance)
	return r
}

func divide(a []float64) (float64, error) {
	if a[1] == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrDomain)
	}
	return a[0] / a[1], nil
}

func sqrt(a []float64) (float64, error) {
	if a[0] < 0 {
		return 0, fmt.Errorf("%w: square root of negative number %g", ErrDomain, a[0])
	}
	return math.Sqrt(a[0]), nil
}
