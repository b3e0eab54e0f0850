package sample

import (
	"testing"
)

// imbalanced builds 6 minority rows near (10,10) and 30 majority rows
// near the origin.
func imbalanced() ([][]float64, []float64) {
	var X [][]float64
	var y []float64
	for i := 0; i < 6; i++ {
		X = append(X, []float64{10 + float64(i)*0.1, 10 - float64(i)*0.1})
		y = append(y, 1)
	}
	for i := 0; i < 30; i++ {
		X = append(X, []float64{float64(i % 5), float64(i % 3)})
		y = append(y, 0)
	}
	return X, y
}

func TestSMOTECounts(t *testing.T) {
	X, y := imbalanced()
	outX, outY, err := SMOTE(X, y, 200, 5, 42)
	if err != nil {
		t.Fatalf("smote failed: %v", err)
	}

	var nMin, nMaj int
	for _, v := range outY {
		if v == 1 {
			nMin++
		} else {
			nMaj++
		}
	}

	// 200% oversampling triples the minority: 6 originals + 12 synthetic.
	if nMin != 18 {
		t.Errorf("expected 18 minority rows, got %d", nMin)
	}
	// Majority undersampled to 100% of the rebalanced minority count.
	if nMaj != 18 {
		t.Errorf("expected 18 majority rows, got %d", nMaj)
	}
	if len(outX) != len(outY) {
		t.Errorf("X/y length mismatch: %d vs %d", len(outX), len(outY))
	}
}

func TestSMOTESyntheticInterpolates(t *testing.T) {
	X, y := imbalanced()
	outX, outY, err := SMOTE(X, y, 200, 5, 42)
	if err != nil {
		t.Fatalf("smote failed: %v", err)
	}

	// Synthetic minority rows interpolate between minority samples, so
	// every minority coordinate stays inside the minority bounding box.
	for i, x := range outX {
		if outY[i] != 1 {
			continue
		}
		for d, v := range x {
			if v < 9.4 || v > 10.6 {
				t.Errorf("synthetic row %d dim %d = %f escapes the minority neighborhood", i, d, v)
			}
		}
	}
}

func TestSMOTEDeterministic(t *testing.T) {
	X, y := imbalanced()
	x1, y1, err := SMOTE(X, y, 200, 5, 9)
	if err != nil {
		t.Fatal(err)
	}
	x2, y2, err := SMOTE(X, y, 200, 5, 9)
	if err != nil {
		t.Fatal(err)
	}

	if len(x1) != len(x2) {
		t.Fatalf("row counts differ: %d vs %d", len(x1), len(x2))
	}
	for i := range x1 {
		if y1[i] != y2[i] {
			t.Fatalf("label %d differs", i)
		}
		for d := range x1[i] {
			if x1[i][d] != x2[i][d] {
				t.Fatalf("row %d dim %d differs: %f vs %f", i, d, x1[i][d], x2[i][d])
			}
		}
	}
}

func TestSMOTEMinorityTooSmall(t *testing.T) {
	X := [][]float64{{1, 1}, {2, 2}, {3, 3}, {0, 0}, {0, 1}, {1, 0}, {2, 0}, {0, 2}}
	y := []float64{1, 1, 1, 0, 0, 0, 0, 0}

	if _, _, err := SMOTE(X, y, 200, 5, 1); err == nil {
		t.Fatal("expected error when minority class has fewer members than k")
	}
}

func TestSMOTESingleClass(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []float64{0, 0, 0}
	if _, _, err := SMOTE(X, y, 200, 1, 1); err == nil {
		t.Fatal("expected error for single-class input")
	}
}

func TestSMOTEInputNotMutated(t *testing.T) {
	X, y := imbalanced()
	orig := make([][]float64, len(X))
	for i := range X {
		orig[i] = append([]float64(nil), X[i]...)
	}

	if _, _, err := SMOTE(X, y, 200, 5, 3); err != nil {
		t.Fatal(err)
	}
	for i := range X {
		for d := range X[i] {
			if X[i][d] != orig[i][d] {
				t.Errorf("input row %d mutated", i)
			}
		}
	}
}
