package experiment

import (
	"math"
	"testing"
)

func TestCalcStatsPopulation(t *testing.T) {
	st := calcStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if st.N != 8 || st.Mean != 5 {
		t.Fatalf("unexpected mean: %+v", st)
	}
	// population variance, not sample variance
	if st.Var != 4 || st.StdDev != 2 {
		t.Fatalf("expected var 4 sd 2, got %v %v", st.Var, st.StdDev)
	}
	if math.Abs(st.StdErr-2/math.Sqrt(8)) > 1e-12 {
		t.Fatalf("unexpected std err %v", st.StdErr)
	}
	if st.Min != 2 || st.Max != 9 || st.P50 != 4.5 {
		t.Fatalf("unexpected order stats: %+v", st)
	}
}

func TestCalcStatsEdges(t *testing.T) {
	if st := calcStats(nil); st.N != 0 || st.Mean != 0 {
		t.Fatalf("empty input: %+v", st)
	}
	st := calcStats([]float64{0.25})
	if st.Mean != 0.25 || st.StdDev != 0 || st.P99 != 0.25 {
		t.Fatalf("single sample: %+v", st)
	}
	st = calcStats([]float64{1, 1, 1})
	if st.StdDev != 0 {
		t.Fatalf("constant samples must have zero spread, got %v", st.StdDev)
	}
}

func TestCalcStatsDoesNotReorderInput(t *testing.T) {
	xs := []float64{3, 1, 2}
	calcStats(xs)
	if xs[0] != 3 || xs[1] != 1 || xs[2] != 2 {
		t.Fatalf("input mutated: %v", xs)
	}
}
