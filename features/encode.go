package features

import (
	"fmt"
	"sort"
)

// Table is the encoded design matrix. IDs parallels X until the
// train/test partition, after which the patient identifier is dropped.
type Table struct {
	IDs  []string
	Cols []string
	X    [][]float64
	Y    []float64
}

type categoricalColumn struct {
	name string
	get  func(*PatientRow) string
}

func categoricalColumns() []categoricalColumn {
	return []categoricalColumn{
		{"age_band", func(r *PatientRow) string { return r.AgeBand }},
		{"gender", func(r *PatientRow) string { return r.Gender }},
		{"line_of_business", func(r *PatientRow) string { return r.LineOfBusiness }},
		{"location_description", func(r *PatientRow) string { return r.LocationDesc }},
	}
}

// Encode expands each nominal column into one indicator column per
// observed value (the original column is dropped) and assembles the
// numeric predictors into a design matrix. For every row the indicators
// of one source column sum to exactly 1.
func Encode(rows []PatientRow) Table {
	numeric := NumericColumns()
	cats := categoricalColumns()

	// Observed vocabulary per categorical column, sorted for stable
	// column order.
	vocab := make([][]string, len(cats))
	for ci, c := range cats {
		seen := make(map[string]bool)
		for i := range rows {
			seen[c.get(&rows[i])] = true
		}
		for v := range seen {
			vocab[ci] = append(vocab[ci], v)
		}
		sort.Strings(vocab[ci])
	}

	var cols []string
	for _, c := range numeric {
		cols = append(cols, c.Name)
	}
	for ci, c := range cats {
		for _, v := range vocab[ci] {
			cols = append(cols, fmt.Sprintf("%s=%s", c.name, v))
		}
	}

	t := Table{
		IDs:  make([]string, len(rows)),
		Cols: cols,
		X:    make([][]float64, len(rows)),
		Y:    make([]float64, len(rows)),
	}

	for i := range rows {
		r := &rows[i]
		t.IDs[i] = r.PatientID
		if r.Costly {
			t.Y[i] = 1
		}

		x := make([]float64, 0, len(cols))
		for _, c := range numeric {
			x = append(x, c.Get(r))
		}
		for ci, c := range cats {
			val := c.get(r)
			for _, v := range vocab[ci] {
				if v == val {
					x = append(x, 1)
				} else {
					x = append(x, 0)
				}
			}
		}
		t.X[i] = x
	}
	return t
}

// Subset returns the table restricted to the given row indices, with
// patient identifiers dropped (the model stages no longer need row
// identity).
func (t Table) Subset(idx []int) ([][]float64, []float64) {
	X := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for i, j := range idx {
		X[i] = t.X[j]
		y[i] = t.Y[j]
	}
	return X, y
}
