package model

import "sort"

// Metrics is the held-out evaluation record: accuracy, sensitivity
// (recall of Costly), specificity (recall of NonCostly) and the ROC AUC
// over the predicted Costly probability.
type Metrics struct {
	Accuracy    float64
	Sensitivity float64
	Specificity float64
	AUC         float64
}

// Evaluate scores a fitted classifier on held-out data. It must only be
// called after hyperparameter selection has completed.
func Evaluate(clf Classifier, X [][]float64, y []float64) Metrics {
	pred := clf.Predict(X)
	proba := clf.PredictProba(X)

	var tp, tn, fp, fn float64
	for i := range y {
		switch {
		case y[i] == 1 && pred[i] == 1:
			tp++
		case y[i] == 1 && pred[i] == 0:
			fn++
		case y[i] == 0 && pred[i] == 0:
			tn++
		default:
			fp++
		}
	}

	m := Metrics{AUC: AUC(proba, y)}
	if total := tp + tn + fp + fn; total > 0 {
		m.Accuracy = (tp + tn) / total
	}
	if tp+fn > 0 {
		m.Sensitivity = tp / (tp + fn)
	}
	if tn+fp > 0 {
		m.Specificity = tn / (tn + fp)
	}
	return m
}

// AUC computes the area under the ROC curve as the rank statistic
// P(score(pos) > score(neg)), counting ties as one half. Returns 0.5
// when either class is absent.
func AUC(scores, y []float64) float64 {
	type pair struct {
		score float64
		pos   bool
	}
	pairs := make([]pair, len(scores))
	var nPos, nNeg float64
	for i := range scores {
		pairs[i] = pair{scores[i], y[i] == 1}
		if y[i] == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0.5
	}

	sort.Slice(pairs, func(a, b int) bool { return pairs[a].score < pairs[b].score })

	// Sum ranks of positives, averaging ranks within tied groups.
	var rankSum float64
	i := 0
	for i < len(pairs) {
		j := i
		for j < len(pairs) && pairs[j].score == pairs[i].score {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			if pairs[k].pos {
				rankSum += avgRank
			}
		}
		i = j
	}

	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg)
}
