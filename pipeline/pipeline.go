package pipeline

import (
	"context"
	"fmt"
	"time"

	"copdrisk/claims"
	"copdrisk/features"
	"copdrisk/model"
	"copdrisk/sample"
)

// Result is everything a run produces: the per-patient feature table,
// the partition sizes, and one evaluation report per model family.
type Result struct {
	Rows      []features.PatientRow
	Columns   []string
	TrainSize int
	TestSize  int
	Reports   []model.Report
}

// Best returns the report with the highest held-out AUC. It is only
// meaningful once all families are present, which Run guarantees.
func (r *Result) Best() model.Report {
	best := r.Reports[0]
	for _, rep := range r.Reports[1:] {
		if rep.Metrics.AUC > best.Metrics.AUC {
			best = rep
		}
	}
	return best
}

// Run executes the full batch job over raw claim records: clean →
// aggregate → clamp/encode → split → resample → normalize → train and
// evaluate the three families. No test row influences model selection.
func Run(ctx context.Context, records []claims.Record, cfg Config) (*Result, error) {
	log := cfg.Log
	start := time.Now()

	// Cleaning. The default mode filters and imputes in one step; the
	// corrected mode only filters here and defers imputation until the
	// patient split is known. Excluded diagnosis chapters are dropped by
	// the aggregator (categorization happens before that filter), but an
	// input with nothing left to aggregate fails fast here.
	if cfg.TrainOnlyStats {
		records = claims.FilterAdults(records)
		if len(records) == 0 {
			return nil, fmt.Errorf("no claim records remain after age filtering")
		}
	} else {
		cleaned, err := claims.Clean(records)
		if err != nil {
			return nil, err
		}
		records = cleaned
	}
	anyKept := false
	for _, r := range records {
		if !features.Excluded(r.Diagnosis) {
			anyKept = true
			break
		}
	}
	if !anyKept {
		return nil, fmt.Errorf("no claim records remain after diagnosis filtering")
	}

	store := claims.NewStore(records)
	ids := store.PatientIDs()
	if len(ids) < 2 {
		return nil, fmt.Errorf("need at least 2 patients, have %d", len(ids))
	}

	// The split is decided per patient before the corrected mode
	// computes its statistics, so that mode never peeks at test
	// patients.
	trainIdx, _ := sample.Split(len(ids), cfg.TestFraction, cfg.Seed)
	inTrain := make(map[string]bool, len(trainIdx))
	for _, i := range trainIdx {
		inTrain[ids[i]] = true
	}

	if cfg.TrainOnlyStats {
		var statsRecords []claims.Record
		for _, r := range records {
			if inTrain[r.PatientID] {
				statsRecords = append(statsRecords, r)
			}
		}
		claims.Impute(records, claims.ComputeCleanStats(statsRecords))
	}
	log.Info().Int("claims", len(records)).Int("patients", len(ids)).Msg("cleaned claim table")

	agg := features.Aggregator{
		EDLocation:      cfg.EDLocation,
		EDSubcategory:   cfg.EDSubcategory,
		Span:            cfg.WindowSpan,
		CostlyThreshold: cfg.CostlyThreshold,
		Workers:         cfg.Workers,
	}
	rows := agg.Aggregate(store)

	statsRows := rows
	if cfg.TrainOnlyStats {
		statsRows = nil
		for _, r := range rows {
			if inTrain[r.PatientID] {
				statsRows = append(statsRows, r)
			}
		}
	}
	features.ClampOutliers(rows, statsRows)

	table := features.Encode(rows)
	log.Info().Int("rows", len(table.X)).Int("columns", len(table.Cols)).Msg("encoded feature table")

	// Indices into the encoded table follow the sorted patient order, so
	// the patient-level split carries over directly.
	var trainRows, testRows []int
	for i, id := range table.IDs {
		if inTrain[id] {
			trainRows = append(trainRows, i)
		} else {
			testRows = append(testRows, i)
		}
	}
	trainX, trainY := table.Subset(trainRows)
	testX, testY := table.Subset(testRows)
	if len(trainX) == 0 || len(testX) == 0 {
		return nil, fmt.Errorf("degenerate split: %d train, %d test rows", len(trainX), len(testX))
	}

	trainX, trainY, err := sample.SMOTE(trainX, trainY, cfg.SMOTEPercent, cfg.SMOTENeighbors, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("resample training partition: %w", err)
	}
	log.Info().Int("train", len(trainX)).Int("test", len(testX)).Msg("partitioned and resampled")

	features.Normalize(trainX, testX)

	res := &Result{
		Rows:      rows,
		Columns:   table.Cols,
		TrainSize: len(trainX),
		TestSize:  len(testX),
	}

	// All three families are trained and evaluated before any winner is
	// declared.
	for _, grid := range cfg.Grids() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gridStart := time.Now()

		clf, best, cvScore, err := grid.Search(trainX, trainY, cfg.CVFolds, cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", grid.Family, err)
		}

		rep := model.Report{
			Family:  grid.Family,
			Params:  best.Desc,
			CVScore: cvScore,
			Metrics: model.Evaluate(clf, testX, testY),
		}
		if imp, ok := clf.(model.Importancer); ok {
			rep.Ranked = model.RankImportances(table.Cols, imp.Importances())
		}
		res.Reports = append(res.Reports, rep)

		log.Info().
			Str("family", grid.Family).
			Str("params", best.Desc).
			Float64("cv_accuracy", cvScore).
			Float64("test_auc", rep.Metrics.AUC).
			Dur("elapsed", time.Since(gridStart)).
			Msg("trained family")
	}

	if cfg.OutDir != "" {
		if err := writeArtifacts(cfg.OutDir, rows, res.Reports); err != nil {
			return nil, err
		}
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("pipeline complete")
	return res, nil
}
