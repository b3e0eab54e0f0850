package model

import (
	"fmt"
	"math/rand"
	"sort"
)

// Forest is a classification random forest: bootstrap-sampled trees with
// Gini splits over a random feature subset per node. It satisfies both
// Classifier and Importancer; variable importance is the bootstrap-
// weighted Gini impurity decrease accumulated per feature, normalized to
// sum to 1.
type Forest struct {
	Trees    int
	MTry     int // features considered per split
	MaxDepth int
	MinLeaf  int
	Seed     int64

	trees      []*treeNode
	importance []float64
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	prob      float64 // leaf: fraction of positive samples
}

func NewForest(trees, mtry int, seed int64) *Forest {
	return &Forest{
		Trees:    trees,
		MTry:     mtry,
		MaxDepth: 12,
		MinLeaf:  2,
		Seed:     seed,
	}
}

func (f *Forest) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("forest: empty training set")
	}
	n := len(X)
	p := len(X[0])
	mtry := f.MTry
	if mtry > p {
		mtry = p
	}
	if mtry < 1 {
		mtry = 1
	}

	f.trees = make([]*treeNode, f.Trees)
	f.importance = make([]float64, p)
	rng := rand.New(rand.NewSource(f.Seed))

	for t := 0; t < f.Trees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.trees[t] = f.build(X, y, idx, mtry, f.MaxDepth, rng)
	}

	total := 0.0
	for _, v := range f.importance {
		total += v
	}
	if total > 0 {
		for j := range f.importance {
			f.importance[j] /= total
		}
	}
	return nil
}

func (f *Forest) build(X [][]float64, y []float64, idx []int, mtry, depth int, rng *rand.Rand) *treeNode {
	pos := 0.0
	for _, i := range idx {
		pos += y[i]
	}
	prob := pos / float64(len(idx))

	if depth == 0 || len(idx) <= f.MinLeaf || prob == 0 || prob == 1 {
		return &treeNode{feature: -1, prob: prob}
	}

	bestFeat := -1
	bestThresh := 0.0
	parentGini := gini(prob)
	bestGain := 0.0
	var bestLeft, bestRight []int

	for _, feat := range rng.Perm(len(X[0]))[:mtry] {
		vals := make([]float64, 0, len(idx))
		seen := make(map[float64]bool)
		for _, i := range idx {
			v := X[i][feat]
			if !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
		if len(vals) < 2 {
			continue
		}
		sort.Float64s(vals)

		for v := 0; v < len(vals)-1; v++ {
			thresh := (vals[v] + vals[v+1]) / 2
			var lIdx, rIdx []int
			var lPos, rPos float64
			for _, i := range idx {
				if X[i][feat] <= thresh {
					lIdx = append(lIdx, i)
					lPos += y[i]
				} else {
					rIdx = append(rIdx, i)
					rPos += y[i]
				}
			}
			if len(lIdx) == 0 || len(rIdx) == 0 {
				continue
			}
			nL, nR := float64(len(lIdx)), float64(len(rIdx))
			nAll := nL + nR
			split := (nL*gini(lPos/nL) + nR*gini(rPos/nR)) / nAll
			gain := parentGini - split
			if gain > bestGain {
				bestGain = gain
				bestFeat = feat
				bestThresh = thresh
				bestLeft, bestRight = lIdx, rIdx
			}
		}
	}

	if bestFeat == -1 {
		return &treeNode{feature: -1, prob: prob}
	}

	// Importance: impurity decrease weighted by the node's sample share.
	f.importance[bestFeat] += bestGain * float64(len(idx))

	return &treeNode{
		feature:   bestFeat,
		threshold: bestThresh,
		left:      f.build(X, y, bestLeft, mtry, depth-1, rng),
		right:     f.build(X, y, bestRight, mtry, depth-1, rng),
	}
}

func gini(p float64) float64 {
	return 2 * p * (1 - p)
}

func (f *Forest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		sum := 0.0
		for _, t := range f.trees {
			sum += predictNode(t, x)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out
}

func (f *Forest) Predict(X [][]float64) []float64 {
	proba := f.PredictProba(X)
	for i, p := range proba {
		if p >= 0.5 {
			proba[i] = 1
		} else {
			proba[i] = 0
		}
	}
	return proba
}

func (f *Forest) Importances() []float64 {
	return f.importance
}

func predictNode(n *treeNode, x []float64) float64 {
	for n.feature >= 0 {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}
