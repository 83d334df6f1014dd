package operation

import (
	"fmt"
	"sort"
)

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: mean requires at least one data point", ErrDomain)
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), nil
}

// Median returns the middle value of xs, averaging the two middle values
// when len(xs) is even.
func Median(xs []float64) (float64, error) {
	n := len(xs)
	if n == 0 {
		return 0, fmt.Errorf("%w: median requires at least one data point", ErrDomain)
	}
	sorted := sortedCopy(xs)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// Mode returns the most frequent value of xs. Ties resolve to the smallest
// of the most frequent values.
func Mode(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: mode requires at least one data point", ErrDomain)
	}
	sorted := sortedCopy(xs)
	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		// Strictly greater keeps the first (smallest) value of a tie.
		if j-i > bestCount {
			best, bestCount = sorted[i], j-i
		}
		i = j
	}
	return best, nil
}

// Variance returns the sample variance of xs (N-1 divisor), computed with
// the two-pass algorithm.
func Variance(xs []float64) (float64, error) {
	n := len(xs)
	if n < 2 {
		return 0, fmt.Errorf("%w: variance requires at least two data points", ErrDomain)
	}
	mean, _ := Mean(xs)
	var ss, comp float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
		comp += d
	}
	ss -= comp * comp / float64(n)
	return ss / float64(n-1), nil
}

func sortedCopy(xs []float64) []float64 {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	return cp
}
