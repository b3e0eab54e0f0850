package model

import (
	"fmt"
	"math"
	"math/rand"
)

// Candidate is one hyperparameter combination: a human-readable
// description plus a factory for a fresh, unfitted classifier.
type Candidate struct {
	Desc  string
	Build func() Classifier
}

// Grid is the hyperparameter search space for one model family.
type Grid struct {
	Family     string
	Candidates []Candidate
}

// kFold assigns rows to k folds after a seeded shuffle. Every row lands
// in exactly one fold.
func kFold(n, k int, seed int64) [][]int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	folds := make([][]int, k)
	for i, v := range idx {
		folds[i%k] = append(folds[i%k], v)
	}
	return folds
}

func singleClass(y []float64) bool {
	if len(y) == 0 {
		return true
	}
	first := y[0]
	for _, v := range y[1:] {
		if v != first {
			return false
		}
	}
	return true
}

// crossValidate scores one candidate by mean fold accuracy. Folds whose
// training part collapses to a single class are skipped rather than
// aborting the search; the returned count is the number of folds that
// actually scored.
func crossValidate(c Candidate, X [][]float64, y []float64, folds [][]int) (float64, int, error) {
	var sum float64
	var scored int

	inFold := make([]bool, len(y))
	for _, fold := range folds {
		for i := range inFold {
			inFold[i] = false
		}
		for _, i := range fold {
			inFold[i] = true
		}

		var trX, valX [][]float64
		var trY, valY []float64
		for i := range X {
			if inFold[i] {
				valX = append(valX, X[i])
				valY = append(valY, y[i])
			} else {
				trX = append(trX, X[i])
				trY = append(trY, y[i])
			}
		}

		if singleClass(trY) || len(valY) == 0 {
			continue
		}

		clf := c.Build()
		if err := clf.Fit(trX, trY); err != nil {
			return 0, 0, fmt.Errorf("fit %s: %w", c.Desc, err)
		}

		pred := clf.Predict(valX)
		correct := 0.0
		for i := range valY {
			if pred[i] == valY[i] {
				correct++
			}
		}
		sum += correct / float64(len(valY))
		scored++
	}

	if scored == 0 {
		return math.NaN(), 0, nil
	}
	return sum / float64(scored), scored, nil
}

type searchResult struct {
	cand  Candidate
	score float64
	err   error
}

// Search runs k-fold cross-validation for every candidate on the
// training partition, fits candidates concurrently, and refits the
// winner on the full partition. Test data must never reach this stage.
func (g Grid) Search(X [][]float64, y []float64, k int, seed int64) (Classifier, Candidate, float64, error) {
	if len(g.Candidates) == 0 {
		return nil, Candidate{}, 0, fmt.Errorf("%s: empty hyperparameter grid", g.Family)
	}
	if k < 2 || k > len(X) {
		return nil, Candidate{}, 0, fmt.Errorf("%s: cannot run %d-fold CV on %d rows", g.Family, k, len(X))
	}

	folds := kFold(len(X), k, seed)

	rc := make(chan searchResult, len(g.Candidates))
	for _, c := range g.Candidates {
		go func(c Candidate) {
			score, _, err := crossValidate(c, X, y, folds)
			rc <- searchResult{c, score, err}
		}(c)
	}

	best := Candidate{}
	bestScore := math.Inf(-1)
	found := false
	for range g.Candidates {
		r := <-rc
		if r.err != nil {
			return nil, Candidate{}, 0, r.err
		}
		if math.IsNaN(r.score) {
			continue
		}
		// Ties break toward the lexicographically smaller description so
		// the search is deterministic despite concurrent fits.
		if r.score > bestScore || (r.score == bestScore && found && r.cand.Desc < best.Desc) {
			best = r.cand
			bestScore = r.score
			found = true
		}
	}
	if !found {
		return nil, Candidate{}, 0, fmt.Errorf("%s: every CV fold was degenerate", g.Family)
	}

	clf := best.Build()
	if err := clf.Fit(X, y); err != nil {
		return nil, Candidate{}, 0, fmt.Errorf("refit %s %s: %w", g.Family, best.Desc, err)
	}
	return clf, best, bestScore, nil
}
