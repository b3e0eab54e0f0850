package claims

import (
	"context"
	_ "embed"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sql/schema.sql
var schema string

// PGStore persists cleaned claim records in PostgreSQL so a run can be
// repeated without re-parsing the raw extract.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// InitSchema creates the claims table if it does not exist.
func (s *PGStore) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("init claims schema: %w", err)
	}
	return nil
}

// Insert bulk-loads records via COPY.
func (s *PGStore) Insert(ctx context.Context, records []Record) (int64, error) {
	rows := make([][]any, len(records))
	for i, r := range records {
		var depriv any
		if !math.IsNaN(r.Deprivation) {
			depriv = r.Deprivation
		}
		rows[i] = []any{
			r.PatientID, r.Month, r.Diagnosis, r.Location, r.LocationDesc,
			r.Subcategory, r.AgeBand, r.Gender, r.LineOfBusiness, depriv,
			r.Deceased, r.Terminated,
		}
	}

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"claims"},
		[]string{
			"patient_id", "claim_month", "diagnosis_code", "procedure_location",
			"location_description", "financial_subcategory", "age_band", "gender",
			"line_of_business", "deprivation_index", "deceased", "terminated",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return n, fmt.Errorf("copy claims: %w", err)
	}
	return n, nil
}

// Load reads every claim record back, ordered by patient and month.
func (s *PGStore) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT patient_id, claim_month, diagnosis_code, procedure_location,
		       location_description, financial_subcategory, age_band, gender,
		       line_of_business, deprivation_index, deceased, terminated
		FROM claims
		ORDER BY patient_id, claim_month, id`)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var depriv *float64
		err := rows.Scan(&r.PatientID, &r.Month, &r.Diagnosis, &r.Location,
			&r.LocationDesc, &r.Subcategory, &r.AgeBand, &r.Gender,
			&r.LineOfBusiness, &depriv, &r.Deceased, &r.Terminated)
		if err != nil {
			return nil, fmt.Errorf("scan claim row: %w", err)
		}
		if depriv != nil {
			r.Deprivation = *depriv
		} else {
			r.Deprivation = math.NaN()
		}
		r.Month = r.Month.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claim rows: %w", err)
	}
	return records, nil
}
