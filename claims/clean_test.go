package claims

import (
	"math"
	"testing"
	"time"
)

func rec(patient, ageBand, gender string, depriv float64) Record {
	return Record{
		PatientID:   patient,
		Month:       time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Diagnosis:   "J44",
		AgeBand:     ageBand,
		Gender:      gender,
		Deprivation: depriv,
	}
}

func TestFilterAdults(t *testing.T) {
	records := []Record{
		rec("P1", "18-24", "F", 1),
		rec("P2", "10-17", "M", 1),
		rec("P3", "<18", "M", 1),
		rec("P4", "75+", "F", 1),
		rec("P5", "", "F", 1),
	}

	out := FilterAdults(records)
	if len(out) != 2 {
		t.Fatalf("expected 2 adult records, got %d", len(out))
	}
	if out[0].PatientID != "P1" || out[1].PatientID != "P4" {
		t.Errorf("unexpected survivors: %s, %s", out[0].PatientID, out[1].PatientID)
	}
}

func TestImputeMedianAndMode(t *testing.T) {
	records := []Record{
		rec("P1", "18-24", "F", 1.0),
		rec("P2", "18-24", "F", 3.0),
		rec("P3", "25-34", "M", 5.0),
		rec("P4", "18-24", "", math.NaN()),
	}

	st := ComputeCleanStats(records)
	if st.DeprivationMedian != 3.0 {
		t.Errorf("expected median 3.0, got %f", st.DeprivationMedian)
	}
	if st.GenderMode != "F" {
		t.Errorf("expected gender mode F, got %q", st.GenderMode)
	}
	if st.AgeBandMode != "18-24" {
		t.Errorf("expected age band mode 18-24, got %q", st.AgeBandMode)
	}

	Impute(records, st)
	if records[3].Gender != "F" {
		t.Errorf("expected imputed gender F, got %q", records[3].Gender)
	}
	if records[3].Deprivation != 3.0 {
		t.Errorf("expected imputed deprivation 3.0, got %f", records[3].Deprivation)
	}
}

func TestCleanEmptyAfterFiltering(t *testing.T) {
	records := []Record{
		rec("P1", "10-17", "M", 1),
		rec("P2", "0-9", "F", 1),
	}
	if _, err := Clean(records); err == nil {
		t.Fatal("expected error when nothing survives the age filter")
	}
}

func TestStorePatientIDsSorted(t *testing.T) {
	s := NewStore([]Record{
		rec("P3", "18-24", "F", 1),
		rec("P1", "18-24", "F", 1),
		rec("P3", "18-24", "F", 1),
		rec("P2", "18-24", "F", 1),
	})
	ids := s.PatientIDs()
	want := []string{"P1", "P2", "P3"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}
