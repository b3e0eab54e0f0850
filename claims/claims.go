// Package claims holds the cleaned claim-level table that the feature
// pipeline aggregates. One Record per claim line.
package claims

import (
	"sort"
	"time"
)

// Record is one cleaned claim line. Demographic fields are assumed
// constant across a patient's records; the aggregator takes the first
// occurrence.
type Record struct {
	PatientID      string
	Month          time.Time // first of month, UTC
	Diagnosis      string    // primary diagnosis code, uppercased
	Location       string    // procedure location code
	LocationDesc   string    // service location description
	Subcategory    string    // financial subcategory code
	AgeBand        string
	Gender         string
	LineOfBusiness string
	Deprivation    float64 // NaN until imputed
	Deceased       bool
	Terminated     bool
}

// Store is the in-memory claim record table. It owns the raw rows until
// aggregation.
type Store struct {
	records []Record
}

func NewStore(records []Record) *Store {
	return &Store{records: records}
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) Records() []Record {
	return s.records
}

// PatientIDs returns the distinct patient identifiers in sorted order.
// Sorted order keeps downstream seeded shuffles reproducible.
func (s *Store) PatientIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range s.records {
		if !seen[r.PatientID] {
			seen[r.PatientID] = true
			ids = append(ids, r.PatientID)
		}
	}
	sort.Strings(ids)
	return ids
}

// ByPatient groups records by patient identifier.
func (s *Store) ByPatient() map[string][]Record {
	m := make(map[string][]Record)
	for _, r := range s.records {
		m[r.PatientID] = append(m[r.PatientID], r)
	}
	return m
}
