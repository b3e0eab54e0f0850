package features

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NumericColumn is an accessor pair for one numeric feature column of
// the patient table, so clamping and matrix assembly can work
// column-wise without reflection.
type NumericColumn struct {
	Name string
	Get  func(*PatientRow) float64
	Set  func(*PatientRow, float64)
}

// NumericColumns lists the predictor columns in design-matrix order.
// LabelEDVisits is deliberately absent: it exists only to derive the
// outcome and never enters the model.
func NumericColumns() []NumericColumn {
	return []NumericColumn{
		{"deprivation_index",
			func(r *PatientRow) float64 { return r.Deprivation },
			func(r *PatientRow, v float64) { r.Deprivation = v }},
		{"copd_ed_visits",
			func(r *PatientRow) float64 { return r.COPDEDVisits },
			func(r *PatientRow, v float64) { r.COPDEDVisits = v }},
		{"ed_visits",
			func(r *PatientRow) float64 { return r.EDVisits },
			func(r *PatientRow, v float64) { r.EDVisits = v }},
		{"total_claims",
			func(r *PatientRow) float64 { return r.TotalClaims },
			func(r *PatientRow, v float64) { r.TotalClaims = v }},
		{"respiratory_claims",
			func(r *PatientRow) float64 { return r.RespiratoryClaims },
			func(r *PatientRow, v float64) { r.RespiratoryClaims = v }},
		{"distinct_diagnoses",
			func(r *PatientRow) float64 { return r.DistinctDiagnoses },
			func(r *PatientRow, v float64) { r.DistinctDiagnoses = v }},
	}
}

// ClampOutliers clamps every numeric column of rows into the Tukey
// fences [Q1-1.5·IQR, Q3+1.5·IQR]. Fences are computed from statsRows,
// normally the full table; pass the training rows to keep test-set
// values out of the fence statistics. Clamping is idempotent.
func ClampOutliers(rows []PatientRow, statsRows []PatientRow) {
	if len(statsRows) == 0 {
		return
	}
	for _, col := range NumericColumns() {
		vals := make([]float64, len(statsRows))
		for i := range statsRows {
			vals[i] = col.Get(&statsRows[i])
		}
		lo, hi := clampBounds(vals)
		for i := range rows {
			v := col.Get(&rows[i])
			if v < lo {
				col.Set(&rows[i], lo)
			} else if v > hi {
				col.Set(&rows[i], hi)
			}
		}
	}
}

func clampBounds(vals []float64) (lo, hi float64) {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	h := 1.5 * (q3 - q1)
	return q1 - h, q3 + h
}
