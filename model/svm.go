package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// SVM is a soft-margin support vector machine with an RBF kernel,
// trained by simplified sequential minimal optimization. C is the
// misclassification cost, Gamma the kernel bandwidth. Probabilities are
// a sigmoid squash of the decision value, which preserves the score
// ranking the AUC needs.
type SVM struct {
	C         float64
	Gamma     float64
	Tol       float64
	MaxPasses int
	Seed      int64

	alphas []float64
	bias   float64
	sv     [][]float64
	svY    []float64 // labels in {-1,+1}
}

func NewSVM(c, gamma float64, seed int64) *SVM {
	return &SVM{
		C:         c,
		Gamma:     gamma,
		Tol:       1e-3,
		MaxPasses: 5,
		Seed:      seed,
	}
}

func (m *SVM) kernel(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return math.Exp(-m.Gamma * d * d)
}

func (m *SVM) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("svm: empty training set")
	}

	// Remap labels to {-1,+1}.
	ys := make([]float64, n)
	for i, v := range y {
		if v == 1 {
			ys[i] = 1
		} else {
			ys[i] = -1
		}
	}

	// Precomputed kernel matrix; training sets here are small enough
	// after aggregation that O(n²) memory is acceptable.
	K := make([][]float64, n)
	for i := range K {
		K[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			k := m.kernel(X[i], X[j])
			K[i][j] = k
			K[j][i] = k
		}
	}

	alphas := make([]float64, n)
	bias := 0.0
	rng := rand.New(rand.NewSource(m.Seed))

	f := func(i int) float64 {
		s := bias
		for j := 0; j < n; j++ {
			if alphas[j] != 0 {
				s += alphas[j] * ys[j] * K[i][j]
			}
		}
		return s
	}

	passes := 0
	for passes < m.MaxPasses {
		changed := 0
		for i := 0; i < n; i++ {
			ei := f(i) - ys[i]
			if (ys[i]*ei < -m.Tol && alphas[i] < m.C) || (ys[i]*ei > m.Tol && alphas[i] > 0) {
				j := rng.Intn(n - 1)
				if j >= i {
					j++
				}
				ej := f(j) - ys[j]

				ai, aj := alphas[i], alphas[j]
				var lo, hi float64
				if ys[i] != ys[j] {
					lo = math.Max(0, aj-ai)
					hi = math.Min(m.C, m.C+aj-ai)
				} else {
					lo = math.Max(0, ai+aj-m.C)
					hi = math.Min(m.C, ai+aj)
				}
				if lo == hi {
					continue
				}

				eta := 2*K[i][j] - K[i][i] - K[j][j]
				if eta >= 0 {
					continue
				}

				alphas[j] = aj - ys[j]*(ei-ej)/eta
				if alphas[j] > hi {
					alphas[j] = hi
				} else if alphas[j] < lo {
					alphas[j] = lo
				}
				if math.Abs(alphas[j]-aj) < 1e-5 {
					continue
				}
				alphas[i] = ai + ys[i]*ys[j]*(aj-alphas[j])

				b1 := bias - ei - ys[i]*(alphas[i]-ai)*K[i][i] - ys[j]*(alphas[j]-aj)*K[i][j]
				b2 := bias - ej - ys[i]*(alphas[i]-ai)*K[i][j] - ys[j]*(alphas[j]-aj)*K[j][j]
				switch {
				case alphas[i] > 0 && alphas[i] < m.C:
					bias = b1
				case alphas[j] > 0 && alphas[j] < m.C:
					bias = b2
				default:
					bias = (b1 + b2) / 2
				}
				changed++
			}
		}
		if changed == 0 {
			passes++
		} else {
			passes = 0
		}
	}

	// Retain support vectors only.
	m.alphas = m.alphas[:0]
	m.sv = m.sv[:0]
	m.svY = m.svY[:0]
	for i := 0; i < n; i++ {
		if alphas[i] > 0 {
			m.alphas = append(m.alphas, alphas[i])
			m.sv = append(m.sv, X[i])
			m.svY = append(m.svY, ys[i])
		}
	}
	m.bias = bias
	return nil
}

func (m *SVM) decision(x []float64) float64 {
	s := m.bias
	for i, sv := range m.sv {
		s += m.alphas[i] * m.svY[i] * m.kernel(sv, x)
	}
	return s
}

func (m *SVM) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = sigmoid(m.decision(x))
	}
	return out
}

func (m *SVM) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		if m.decision(x) >= 0 {
			out[i] = 1
		}
	}
	return out
}
