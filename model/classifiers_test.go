package model

import (
	"math/rand"
	"testing"
)

// separable builds a linearly separable two-cluster dataset.
func separable(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, 0, 2*n)
	y := make([]float64, 0, 2*n)
	for i := 0; i < n; i++ {
		X = append(X, []float64{rng.NormFloat64()*0.5 + 3, rng.NormFloat64()*0.5 + 3})
		y = append(y, 1)
		X = append(X, []float64{rng.NormFloat64()*0.5 - 3, rng.NormFloat64()*0.5 - 3})
		y = append(y, 0)
	}
	return X, y
}

func assertLearns(t *testing.T, clf Classifier, name string) {
	t.Helper()
	X, y := separable(40, 11)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("%s fit failed: %v", name, err)
	}

	m := Evaluate(clf, X, y)
	if m.Accuracy < 0.9 {
		t.Errorf("%s training accuracy = %f, want >= 0.9 on separable data", name, m.Accuracy)
	}
	if m.AUC < 0.9 {
		t.Errorf("%s AUC = %f, want >= 0.9 on separable data", name, m.AUC)
	}

	proba := clf.PredictProba(X)
	for i, p := range proba {
		if p < 0 || p > 1 {
			t.Fatalf("%s probability %d out of range: %f", name, i, p)
		}
	}
}

func TestLogisticNetLearnsSeparable(t *testing.T) {
	assertLearns(t, NewLogisticNet(0.001), "logistic")
}

func TestLogisticNetLassoShrinks(t *testing.T) {
	X, y := separable(40, 13)
	// Append a pure-noise feature; a strong penalty should zero it.
	rng := rand.New(rand.NewSource(17))
	for i := range X {
		X[i] = append(X[i], rng.NormFloat64())
	}

	weak := NewLogisticNet(0.0001)
	strong := NewLogisticNet(0.5)
	if err := weak.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := strong.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	wAbs := func(w []float64) float64 {
		s := 0.0
		for _, v := range w {
			if v < 0 {
				v = -v
			}
			s += v
		}
		return s
	}
	if wAbs(strong.Coefficients()) >= wAbs(weak.Coefficients()) {
		t.Errorf("stronger penalty should shrink coefficients: %f vs %f",
			wAbs(strong.Coefficients()), wAbs(weak.Coefficients()))
	}
}

func TestForestLearnsSeparable(t *testing.T) {
	assertLearns(t, NewForest(25, 2, 5), "forest")
}

func TestForestImportancesNormalized(t *testing.T) {
	X, y := separable(40, 19)
	// Constant third feature carries no signal.
	for i := range X {
		X[i] = append(X[i], 1.0)
	}

	f := NewForest(25, 2, 5)
	if err := f.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	imp := f.Importances()
	if len(imp) != 3 {
		t.Fatalf("expected 3 importances, got %d", len(imp))
	}
	sum := 0.0
	for _, v := range imp {
		if v < 0 {
			t.Errorf("negative importance %f", v)
		}
		sum += v
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("importances sum to %f, want 1", sum)
	}
	if imp[2] != 0 {
		t.Errorf("constant feature importance = %f, want 0", imp[2])
	}
}

func TestSVMLearnsSeparable(t *testing.T) {
	assertLearns(t, NewSVM(1, 0.5, 5), "svm")
}

func TestSVMProbabilityRanksWithDecision(t *testing.T) {
	X, y := separable(30, 23)
	m := NewSVM(1, 0.5, 5)
	if err := m.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	proba := m.PredictProba(X)
	pred := m.Predict(X)
	for i := range pred {
		if pred[i] == 1 && proba[i] < 0.5 {
			t.Errorf("row %d: positive prediction with probability %f", i, proba[i])
		}
		if pred[i] == 0 && proba[i] > 0.5 {
			t.Errorf("row %d: negative prediction with probability %f", i, proba[i])
		}
	}
}
