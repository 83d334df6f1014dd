package operation

import (
	"errors"
	"math"
	"testing"
)

func TestMode_TieBreaksToSmallest(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
	}{
		{[]float64{5}, 5},
		{[]float64{3, 1, 2}, 1},
		{[]float64{4, 4, 1, 1, 9}, 1},
		{[]float64{7, 2, 7, 2, 7}, 7},
		{[]float64{-1, -1, 0, 0}, -1},
	}
	for _, tt := range tests {
		got, err := Mode(tt.in)
		if err != nil {
			t.Fatalf("Mode(%v) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Mode(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMode_NaNTerminates(t *testing.T) {
	got, err := Mode([]float64{math.NaN(), 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("Mode = %v, want 1", got)
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	if _, err := Median(in); err != nil {
		t.Fatal(err)
	}
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestVariance_Constant(t *testing.T) {
	got, err := Variance([]float64{1e9 + 4, 1e9 + 4, 1e9 + 4})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("Variance of constant series = %v, want 0", got)
	}
}

func TestAggregates_EmptyInput(t *testing.T) {
	fns := map[string]func([]float64) (float64, error){
		"mean":     Mean,
		"median":   Median,
		"mode":     Mode,
		"variance": Variance,
	}
	for name, fn := range fns {
		if _, err := fn(nil); !errors.Is(err, ErrDomain) {
			t.Errorf("%s(nil) error = %v, want ErrDomain", name, err)
		}
	}
}
