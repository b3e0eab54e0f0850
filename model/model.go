// Package model trains and compares binary classifiers over the patient
// feature table. The harness consumes every family through the
// Classifier capability and never reaches into family internals, except
// for the optional Importancer extension the random forest provides.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Classifier is the capability contract every model family satisfies.
type Classifier interface {
	// Fit trains on the design matrix X and 0/1 labels y.
	Fit(X [][]float64, y []float64) error
	// Predict returns hard 0/1 labels.
	Predict(X [][]float64) []float64
	// PredictProba returns the predicted probability of the positive
	// (Costly) class.
	PredictProba(X [][]float64) []float64
}

// Importancer is an optional extension for families that can rank
// feature contributions.
type Importancer interface {
	// Importances returns one non-negative weight per feature column,
	// normalized to sum to 1.
	Importances() []float64
}

// Importance pairs a feature name with its normalized weight.
type Importance struct {
	Feature string
	Weight  float64
}

// RankImportances joins column names with weights and sorts descending.
func RankImportances(cols []string, weights []float64) []Importance {
	n := len(weights)
	if len(cols) < n {
		n = len(cols)
	}
	out := make([]Importance, n)
	for i := 0; i < n; i++ {
		out[i] = Importance{Feature: cols[i], Weight: weights[i]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Weight > out[b].Weight })
	return out
}

// Report is the flat, family-comparable evaluation record.
type Report struct {
	Family  string
	Params  string
	CVScore float64
	Metrics Metrics
	Ranked  []Importance // random forest only
}

// ComparisonTable renders one row per family. All families must be
// present before a best model is declared; the caller decides when that
// holds.
func ComparisonTable(reports []Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-22s %-28s %9s %12s %12s %8s\n",
		"model", "params", "accuracy", "sensitivity", "specificity", "auc")
	for _, r := range reports {
		fmt.Fprintf(&b, "%-22s %-28s %9.4f %12.4f %12.4f %8.4f\n",
			r.Family, r.Params, r.Metrics.Accuracy, r.Metrics.Sensitivity,
			r.Metrics.Specificity, r.Metrics.AUC)
	}
	return b.String()
}

// ImportanceTable renders the ranked variable importance list.
func ImportanceTable(ranked []Importance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-32s %10s\n", "feature", "importance")
	for _, im := range ranked {
		fmt.Fprintf(&b, "%-32s %10.4f\n", im.Feature, im.Weight)
	}
	return b.String()
}
