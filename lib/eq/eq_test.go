package eq

import (
	"testing"
)

func TestSlices(t *testing.T) {
	tests := []struct{
		x, y []int
		res bool
	} {
		{nil, nil, true},
		{[]int{}, nil, true},
		{[]int{1, 2, 3}, []int{1, 2, 3}, true},
		{[]int{1, 2, 3}, []int{1, 2}, false},
		{[]int{1, 2, 3}, []int{1, 2, 4}, false},
	}

	for i := range tests {
		if res := Slices(tests[i].x, tests[i].y); res != tests[i].res {
			t.Errorf("%d) Expected Slices(%v, %v) = %v, got %v.",
				i, tests[i].x, tests[i].y, tests[i].res, res)
		}
	}
}

func TestSlicesEps(t *testing.T) {
	x := []float64{1, 2, 3}
	if !SlicesEps(x, []float64{1.05, 1.95, 3}, 0.1) {
		t.Errorf("Expected arrays within 0.1 to be equal.")
	}
	if SlicesEps(x, []float64{1.5, 2, 3}, 0.1) {
		t.Errorf("Expected arrays 0.5 apart not to be equal.")
	}
	if SlicesEps([]float32{1}, []float32{1, 1}, 1) {
		t.Errorf("Expected arrays of different lengths not to be equal.")
	}
}

func TestCounts(t *testing.T) {
	if !Counts([]int32{1, 1, 1}, 1) || Counts([]int32{1, 2, 1}, 1) {
		t.Errorf("Counts gave the wrong answer.")
	}
	if !Counts([]int64{}, 1) {
		t.Errorf("Expected an empty count array to pass.")
	}
}
