package features

import "time"

// DefaultWindowSpan is the length of the feature window: the two years
// leading up to a patient's most recent claim.
const DefaultWindowSpan = 730 * 24 * time.Hour

// Window partitions a patient's claim months around a boundary anchored
// to that patient's own latest record. Claims in (Boundary, Latest] form
// the feature window; claims at or before Boundary form the label
// window. The recent span predicts; everything older labels.
type Window struct {
	Earliest time.Time
	Latest   time.Time
	Boundary time.Time
}

// SplitWindows computes the window boundaries for one patient's claim
// months. The months slice must be non-empty.
func SplitWindows(months []time.Time, span time.Duration) Window {
	w := Window{Earliest: months[0], Latest: months[0]}
	for _, m := range months[1:] {
		if m.Before(w.Earliest) {
			w.Earliest = m
		}
		if m.After(w.Latest) {
			w.Latest = m
		}
	}
	w.Boundary = w.Latest.Add(-span)
	return w
}

// InFeature reports whether a claim month falls in the feature window.
func (w Window) InFeature(t time.Time) bool {
	return t.After(w.Boundary) && !t.After(w.Latest)
}

// InLabel reports whether a claim month falls in the label window.
func (w Window) InLabel(t time.Time) bool {
	return !t.After(w.Boundary)
}
