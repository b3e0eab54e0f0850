package features

import (
	"testing"
)

func rowsWithEDVisits(vals ...float64) []PatientRow {
	rows := make([]PatientRow, len(vals))
	for i, v := range vals {
		rows[i] = PatientRow{PatientID: "P", EDVisits: v}
	}
	return rows
}

func TestClampOutliers(t *testing.T) {
	rows := rowsWithEDVisits(1, 2, 2, 3, 3, 3, 4, 4, 5, 100)
	ClampOutliers(rows, rows)

	max := rows[0].EDVisits
	for _, r := range rows {
		if r.EDVisits > max {
			max = r.EDVisits
		}
	}
	if max == 100 {
		t.Errorf("extreme value 100 was not clamped")
	}

	// Interior values untouched
	if rows[0].EDVisits != 1 || rows[3].EDVisits != 3 {
		t.Errorf("interior values changed: %f, %f", rows[0].EDVisits, rows[3].EDVisits)
	}
}

func TestClampIdempotent(t *testing.T) {
	rows := rowsWithEDVisits(1, 2, 2, 3, 3, 3, 4, 4, 5, 100)
	ClampOutliers(rows, rows)

	once := make([]PatientRow, len(rows))
	copy(once, rows)

	// Re-clamping already-clamped values is a no-op. Bounds are
	// recomputed from the clamped table, whose extremes now sit exactly
	// on the previous fences.
	ClampOutliers(rows, rows)
	for i := range rows {
		if rows[i] != once[i] {
			t.Errorf("row %d changed on second clamp: %+v vs %+v", i, rows[i], once[i])
		}
	}
}

func TestClampTrainOnlyStats(t *testing.T) {
	train := rowsWithEDVisits(1, 2, 2, 3, 3, 4)
	test := rowsWithEDVisits(50)

	all := append(append([]PatientRow(nil), train...), test...)
	ClampOutliers(all, train)

	if got := all[len(all)-1].EDVisits; got == 50 {
		t.Errorf("test-row outlier not clamped against train fences")
	}
	for i := range train {
		if all[i].EDVisits != train[i].EDVisits {
			t.Errorf("train row %d changed: %f", i, all[i].EDVisits)
		}
	}
}
