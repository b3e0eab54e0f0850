package features

import (
	"testing"
	"time"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestSplitWindows(t *testing.T) {
	months := []time.Time{
		month(2019, 3),
		month(2023, 6), // latest
		month(2022, 1),
		month(2018, 7), // earliest
	}
	w := SplitWindows(months, DefaultWindowSpan)

	if !w.Latest.Equal(month(2023, 6)) {
		t.Errorf("latest = %v", w.Latest)
	}
	if !w.Earliest.Equal(month(2018, 7)) {
		t.Errorf("earliest = %v", w.Earliest)
	}

	// Recent claims are features, older claims feed the label.
	if !w.InFeature(month(2023, 6)) {
		t.Error("latest month should be in the feature window")
	}
	if !w.InFeature(month(2022, 1)) {
		t.Error("month within 730 days of latest should be in the feature window")
	}
	if w.InLabel(month(2022, 1)) {
		t.Error("feature-window month must not also be in the label window")
	}
	if !w.InLabel(month(2019, 3)) {
		t.Error("old month should be in the label window")
	}
	if !w.InLabel(month(2018, 7)) {
		t.Error("earliest month should be in the label window")
	}
	if w.InFeature(month(2018, 7)) {
		t.Error("earliest month must not be in the feature window")
	}
}

func TestWindowsDisjointExhaustive(t *testing.T) {
	months := []time.Time{month(2018, 1), month(2020, 5), month(2021, 9), month(2023, 12)}
	w := SplitWindows(months, DefaultWindowSpan)
	for _, m := range months {
		inF, inL := w.InFeature(m), w.InLabel(m)
		if inF == inL {
			t.Errorf("month %v: InFeature=%v InLabel=%v, want exactly one", m, inF, inL)
		}
	}
}

func TestSplitWindowsSingleClaim(t *testing.T) {
	w := SplitWindows([]time.Time{month(2023, 6)}, DefaultWindowSpan)
	if !w.InFeature(month(2023, 6)) {
		t.Error("a patient's only claim belongs to the feature window")
	}
}
