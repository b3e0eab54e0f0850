package features

import (
	"runtime"
	"sync"
	"time"

	"copdrisk/claims"
)

// PatientRow is the fixed-schema feature/label row produced for each
// patient. Counts are float64 so the row feeds the design matrix
// directly.
type PatientRow struct {
	PatientID string

	// Demographics, copied from the patient's first claim.
	AgeBand        string
	Gender         string
	LineOfBusiness string
	LocationDesc   string
	Deprivation    float64

	// Feature-window predictors.
	COPDEDVisits      float64
	EDVisits          float64
	TotalClaims       float64
	RespiratoryClaims float64
	DistinctDiagnoses float64

	// Label-window ED visits and the derived outcome.
	LabelEDVisits float64
	Costly        bool
}

// Aggregator reduces a patient's claims into one PatientRow. Rows whose
// diagnosis falls in an excluded chapter are dropped before windowing.
type Aggregator struct {
	EDLocation      string
	EDSubcategory   string
	Span            time.Duration
	CostlyThreshold int

	// Workers bounds the per-patient fan-out. Zero or one runs serially.
	Workers int
}

// Aggregate produces one row per patient in the store, ordered by
// patient identifier. Patients with no claims in a window, or whose
// every claim falls in an excluded chapter, still yield a row with zero
// counts and a NonCostly label, never an error.
func (a Aggregator) Aggregate(store *claims.Store) []PatientRow {
	all := store.ByPatient()
	byPatient := make(map[string][]claims.Record, len(all))
	for id, recs := range all {
		for _, r := range recs {
			if !Excluded(r.Diagnosis) {
				byPatient[id] = append(byPatient[id], r)
			}
		}
	}

	ids := store.PatientIDs()
	rows := make([]PatientRow, len(ids))
	workers := a.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}

	if workers == 1 {
		for i, id := range ids {
			rows[i] = a.aggregateOne(id, all[id][0], byPatient[id])
		}
		return rows
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			rows[i] = a.aggregateOne(id, all[id][0], byPatient[id])
			<-sem
		}(i, id)
	}
	wg.Wait()
	return rows
}

func (a Aggregator) aggregateOne(id string, first claims.Record, recs []claims.Record) PatientRow {
	row := PatientRow{
		PatientID:      id,
		AgeBand:        first.AgeBand,
		Gender:         first.Gender,
		LineOfBusiness: first.LineOfBusiness,
		LocationDesc:   first.LocationDesc,
		Deprivation:    first.Deprivation,
	}
	if len(recs) == 0 {
		return row
	}

	months := make([]time.Time, len(recs))
	for i, r := range recs {
		months[i] = r.Month
	}
	w := SplitWindows(months, a.Span)

	diagnoses := make(map[string]bool)
	for _, r := range recs {
		ed := r.Location == a.EDLocation && r.Subcategory == a.EDSubcategory
		cat := Categorize(r.Diagnosis)

		switch {
		case w.InFeature(r.Month):
			row.TotalClaims++
			diagnoses[r.Diagnosis] = true
			if cat == COPD || cat == RespiratoryNonCOPD {
				row.RespiratoryClaims++
			}
			if ed {
				row.EDVisits++
				if cat == COPD {
					row.COPDEDVisits++
				}
			}
		case w.InLabel(r.Month):
			if ed {
				row.LabelEDVisits++
			}
		}
	}
	row.DistinctDiagnoses = float64(len(diagnoses))
	row.Costly = row.LabelEDVisits >= float64(a.CostlyThreshold)
	return row
}
