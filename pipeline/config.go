// Package pipeline wires the claim table through feature aggregation,
// resampling and model comparison as one deterministic batch job.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"copdrisk/model"
)

// Config carries every tunable the pipeline needs. Stages receive it
// explicitly; nothing reads ambient globals, and a fixed Seed makes the
// whole run reproducible.
type Config struct {
	Seed int64

	// Windowing and labeling.
	WindowSpan      time.Duration
	EDLocation      string
	EDSubcategory   string
	CostlyThreshold int

	// Partitioning and resampling.
	TestFraction   float64
	SMOTEPercent   int
	SMOTENeighbors int
	CVFolds        int

	// TrainOnlyStats computes imputation and clamping statistics from
	// the training partition instead of the full table. The default
	// (false) uses full-table statistics, which leaks population
	// information across the split; see DESIGN.md.
	TrainOnlyStats bool

	// Aggregation fan-out; zero or one runs serially.
	Workers int

	// Hyperparameter grids.
	LogisticLambdas []float64
	ForestMTry      []int
	ForestTrees     []int
	SVMCost         []float64
	SVMGamma        []float64

	// OutDir, when non-empty, receives Parquet artifacts.
	OutDir string

	Log zerolog.Logger
}

// DefaultConfig returns the standard run: a two-year feature window,
// a Costly threshold of 10 label-window ED visits, 200% SMOTE with five
// neighbors, five CV folds, and the three family grids.
func DefaultConfig() Config {
	return Config{
		Seed:            1,
		WindowSpan:      730 * 24 * time.Hour,
		EDLocation:      "ED",
		EDSubcategory:   "ED",
		CostlyThreshold: 10,
		TestFraction:    0.3,
		SMOTEPercent:    200,
		SMOTENeighbors:  5,
		CVFolds:         5,
		LogisticLambdas: []float64{0.001, 0.01, 0.1, 1},
		ForestMTry:      []int{3, 5, 7},
		ForestTrees:     []int{300, 500, 700},
		SVMCost:         []float64{0.1, 1, 10},
		SVMGamma:        []float64{0.01, 0.1, 1},
		Log:             zerolog.Nop(),
	}
}

// Grids expands the configured hyperparameter values into the three
// family search spaces.
func (c Config) Grids() []model.Grid {
	var logistic []model.Candidate
	for _, lambda := range c.LogisticLambdas {
		lambda := lambda
		logistic = append(logistic, model.Candidate{
			Desc:  fmt.Sprintf("alpha=0.5 lambda=%g", lambda),
			Build: func() model.Classifier { return model.NewLogisticNet(lambda) },
		})
	}

	var forest []model.Candidate
	for _, mtry := range c.ForestMTry {
		for _, trees := range c.ForestTrees {
			mtry, trees := mtry, trees
			forest = append(forest, model.Candidate{
				Desc:  fmt.Sprintf("mtry=%d trees=%d", mtry, trees),
				Build: func() model.Classifier { return model.NewForest(trees, mtry, c.Seed) },
			})
		}
	}

	var svm []model.Candidate
	for _, cost := range c.SVMCost {
		for _, gamma := range c.SVMGamma {
			cost, gamma := cost, gamma
			svm = append(svm, model.Candidate{
				Desc:  fmt.Sprintf("C=%g gamma=%g", cost, gamma),
				Build: func() model.Classifier { return model.NewSVM(cost, gamma, c.Seed) },
			})
		}
	}

	return []model.Grid{
		{Family: "logistic-elasticnet", Candidates: logistic},
		{Family: "random-forest", Candidates: forest},
		{Family: "svm-rbf", Candidates: svm},
	}
}
