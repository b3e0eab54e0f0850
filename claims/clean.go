package claims

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// CleanStats holds the column-wise imputation statistics: the median for
// the numeric deprivation index and the mode for each categorical
// column. Computing these over the full table before the train/test
// split leaks population statistics across that boundary; pass
// train-only records to ComputeCleanStats to avoid that.
type CleanStats struct {
	DeprivationMedian float64
	AgeBandMode       string
	GenderMode        string
	LineOfBusiness    string
	LocationDescMode  string
}

// ComputeCleanStats derives imputation statistics from the given records.
func ComputeCleanStats(records []Record) CleanStats {
	var depriv []float64
	for _, r := range records {
		if !math.IsNaN(r.Deprivation) {
			depriv = append(depriv, r.Deprivation)
		}
	}
	sort.Float64s(depriv)

	st := CleanStats{
		AgeBandMode:      mode(records, func(r *Record) string { return r.AgeBand }),
		GenderMode:       mode(records, func(r *Record) string { return r.Gender }),
		LineOfBusiness:   mode(records, func(r *Record) string { return r.LineOfBusiness }),
		LocationDescMode: mode(records, func(r *Record) string { return r.LocationDesc }),
	}
	if len(depriv) > 0 {
		st.DeprivationMedian = stat.Quantile(0.5, stat.Empirical, depriv, nil)
	}
	return st
}

// mode returns the most frequent non-empty value; ties break toward the
// lexicographically smallest value so imputation is deterministic.
func mode(records []Record, get func(*Record) string) string {
	counts := make(map[string]int)
	for i := range records {
		if v := get(&records[i]); v != "" {
			counts[v]++
		}
	}
	var best string
	bestN := 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best = v
			bestN = n
		}
	}
	return best
}

// Impute fills missing values in place using the given statistics.
func Impute(records []Record, st CleanStats) {
	for i := range records {
		r := &records[i]
		if math.IsNaN(r.Deprivation) {
			r.Deprivation = st.DeprivationMedian
		}
		if r.AgeBand == "" {
			r.AgeBand = st.AgeBandMode
		}
		if r.Gender == "" {
			r.Gender = st.GenderMode
		}
		if r.LineOfBusiness == "" {
			r.LineOfBusiness = st.LineOfBusiness
		}
		if r.LocationDesc == "" {
			r.LocationDesc = st.LocationDescMode
		}
	}
}

// FilterAdults drops records for patients whose age band is below 18
// years. Bands are parsed by their leading number ("18-24", "75+");
// "<N" bands are treated as starting at zero.
func FilterAdults(records []Record) []Record {
	out := records[:0:0]
	for _, r := range records {
		if ageBandStart(r.AgeBand) >= 18 {
			out = append(out, r)
		}
	}
	return out
}

func ageBandStart(band string) int {
	band = strings.TrimSpace(band)
	if band == "" {
		return -1
	}
	if strings.HasPrefix(band, "<") {
		return 0
	}
	end := 0
	for end < len(band) && band[end] >= '0' && band[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(band[:end])
	if err != nil {
		return -1
	}
	return n
}

// Clean applies the default cleaning path: restrict to adults, then
// impute every column from statistics over the whole cleaned table.
// Returns an error if nothing survives the age filter.
func Clean(records []Record) ([]Record, error) {
	records = FilterAdults(records)
	if len(records) == 0 {
		return nil, fmt.Errorf("no claim records remain after age filtering")
	}
	Impute(records, ComputeCleanStats(records))
	return records, nil
}
