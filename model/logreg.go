package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticNet is an elastic-net-penalized logistic regression. The
// mixing parameter Alpha blends the L1 and L2 penalties (0.5 by
// default); Lambda scales the overall penalty and is the hyperparameter
// selected by cross-validation. Fitting uses proximal gradient descent:
// a gradient step on the smooth log-loss + ridge part followed by
// soft-thresholding for the lasso part. The intercept is unpenalized.
type LogisticNet struct {
	Alpha    float64
	Lambda   float64
	StepSize float64
	MaxIter  int

	weights []float64
	bias    float64
}

func NewLogisticNet(lambda float64) *LogisticNet {
	return &LogisticNet{
		Alpha:    0.5,
		Lambda:   lambda,
		StepSize: 0.1,
		MaxIter:  500,
	}
}

func (m *LogisticNet) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("logistic: empty training set")
	}
	n := float64(len(X))
	p := len(X[0])
	m.weights = make([]float64, p)
	m.bias = 0

	grad := make([]float64, p)
	l2 := m.Lambda * (1 - m.Alpha)
	l1 := m.Lambda * m.Alpha

	for iter := 0; iter < m.MaxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0

		for i, x := range X {
			e := sigmoid(m.bias+floats.Dot(m.weights, x)) - y[i]
			floats.AddScaled(grad, e, x)
			gradBias += e
		}
		floats.Scale(1/n, grad)
		gradBias /= n

		// Ridge part of the penalty stays in the smooth gradient.
		floats.AddScaled(grad, l2, m.weights)

		for j := range m.weights {
			m.weights[j] = softThreshold(m.weights[j]-m.StepSize*grad[j], m.StepSize*l1)
		}
		m.bias -= m.StepSize * gradBias
	}
	return nil
}

func (m *LogisticNet) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = sigmoid(m.bias + floats.Dot(m.weights, x))
	}
	return out
}

func (m *LogisticNet) Predict(X [][]float64) []float64 {
	proba := m.PredictProba(X)
	for i, p := range proba {
		if p >= 0.5 {
			proba[i] = 1
		} else {
			proba[i] = 0
		}
	}
	return proba
}

// Coefficients returns the fitted weights; zeros indicate features the
// lasso part dropped.
func (m *LogisticNet) Coefficients() []float64 {
	return m.weights
}

func softThreshold(v, t float64) float64 {
	switch {
	case v > t:
		return v - t
	case v < -t:
		return v + t
	default:
		return 0
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
