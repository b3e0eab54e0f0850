package sample

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// SMOTE rebalances a training table. For each minority-class row it
// synthesizes pct/100 new rows by interpolating toward one of its k
// nearest minority neighbors, then undersamples the majority class down
// to the post-oversampling minority count. The input is never mutated.
//
// Returns an error when the minority class has too few members to find
// k neighbors.
func SMOTE(X [][]float64, y []float64, pct, k int, seed int64) ([][]float64, []float64, error) {
	if len(X) != len(y) {
		return nil, nil, fmt.Errorf("smote: X and y lengths differ (%d vs %d)", len(X), len(y))
	}

	var minIdx, majIdx []int
	for i, v := range y {
		if v == 1 {
			minIdx = append(minIdx, i)
		} else {
			majIdx = append(majIdx, i)
		}
	}
	minLabel, majLabel := 1.0, 0.0
	if len(minIdx) > len(majIdx) {
		minIdx, majIdx = majIdx, minIdx
		minLabel, majLabel = 0.0, 1.0
	}

	if len(minIdx) == 0 {
		return nil, nil, fmt.Errorf("smote: training partition has a single class")
	}
	if len(minIdx) <= k {
		return nil, nil, fmt.Errorf("smote: minority class has %d members, need more than k=%d neighbors", len(minIdx), k)
	}

	rng := rand.New(rand.NewSource(seed))
	perSample := pct / 100

	var outX [][]float64
	var outY []float64

	// Original minority rows.
	for _, i := range minIdx {
		outX = append(outX, append([]float64(nil), X[i]...))
		outY = append(outY, minLabel)
	}

	// Synthetic minority rows.
	for _, i := range minIdx {
		neighbors := nearestMinority(X, minIdx, i, k)
		for s := 0; s < perSample; s++ {
			nb := neighbors[rng.Intn(len(neighbors))]
			gap := rng.Float64()
			synth := make([]float64, len(X[i]))
			for d := range synth {
				synth[d] = X[i][d] + gap*(X[nb][d]-X[i][d])
			}
			outX = append(outX, synth)
			outY = append(outY, minLabel)
		}
	}

	// Undersample the majority down to the rebalanced minority count.
	target := len(outX)
	if target > len(majIdx) {
		target = len(majIdx)
	}
	perm := rng.Perm(len(majIdx))[:target]
	sort.Ints(perm)
	for _, p := range perm {
		i := majIdx[p]
		outX = append(outX, append([]float64(nil), X[i]...))
		outY = append(outY, majLabel)
	}

	return outX, outY, nil
}

// nearestMinority returns the indices (into X) of the k minority rows
// closest to row i, excluding i itself.
func nearestMinority(X [][]float64, minIdx []int, i, k int) []int {
	type cand struct {
		idx  int
		dist float64
	}
	cands := make([]cand, 0, len(minIdx)-1)
	for _, j := range minIdx {
		if j == i {
			continue
		}
		cands = append(cands, cand{j, floats.Distance(X[i], X[j], 2)})
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].dist != cands[b].dist {
			return cands[a].dist < cands[b].dist
		}
		return cands[a].idx < cands[b].idx
	})
	if k > len(cands) {
		k = len(cands)
	}
	out := make([]int, k)
	for n := 0; n < k; n++ {
		out[n] = cands[n].idx
	}
	return out
}
