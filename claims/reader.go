package claims

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Columns the reader requires in the input header. Free-text description
// columns and the service count are never read; dropping them is how the
// cleaning step "removes" them.
var requiredColumns = []string{
	"patient_id",
	"claim_month",
	"diagnosis_code",
	"procedure_location",
	"financial_subcategory",
	"age_band",
	"gender",
	"line_of_business",
	"deprivation_index",
}

var monthLayouts = []string{"2006-01", "2006-01-02", "01/2006", "200601"}

// CSVReader streams a claims CSV file and emits one Record per row.
type CSVReader struct {
	file   *os.File
	csv    *csv.Reader
	rowNum int64
	colIdx map[string]int // normalized header → column index
}

func NewCSVReader(filepath string) (*CSVReader, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath, err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	r := &CSVReader{
		file:   file,
		csv:    reader,
		colIdx: make(map[string]int),
	}

	if err := r.readHeader(); err != nil {
		file.Close()
		return nil, err
	}

	return r, nil
}

func (r *CSVReader) readHeader() error {
	headerRow, err := r.csv.Read()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	r.rowNum++
	if len(headerRow) > 0 {
		headerRow[0] = strings.TrimPrefix(headerRow[0], "\uFEFF")
	}

	for i, h := range headerRow {
		h = strings.ToLower(strings.TrimSpace(h))
		r.colIdx[h] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := r.colIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("input is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RowNum returns the current row number (1-based, header included).
func (r *CSVReader) RowNum() int64 {
	return r.rowNum
}

func (r *CSVReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Next returns the next claim record. Returns io.EOF when the file is
// exhausted. Empty rows are skipped.
func (r *CSVReader) Next() (*Record, error) {
	for {
		row, err := r.csv.Read()
		if err != nil {
			return nil, err
		}
		r.rowNum++

		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}

		rec, err := r.parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.rowNum, err)
		}
		return rec, nil
	}
}

// ReadAll drains the reader into a slice.
func (r *CSVReader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (r *CSVReader) parseRow(row []string) (*Record, error) {
	rec := &Record{
		PatientID:      r.field(row, "patient_id"),
		Diagnosis:      strings.ToUpper(r.field(row, "diagnosis_code")),
		Location:       r.field(row, "procedure_location"),
		LocationDesc:   r.field(row, "location_description"),
		Subcategory:    r.field(row, "financial_subcategory"),
		AgeBand:        r.field(row, "age_band"),
		Gender:         r.field(row, "gender"),
		LineOfBusiness: r.field(row, "line_of_business"),
		Deceased:       parseBool(r.field(row, "deceased")),
		Terminated:     parseBool(r.field(row, "terminated")),
	}

	if rec.PatientID == "" {
		return nil, fmt.Errorf("empty patient_id")
	}

	month, err := ParseMonth(r.field(row, "claim_month"))
	if err != nil {
		return nil, err
	}
	rec.Month = month

	rec.Deprivation = parseFloat(r.field(row, "deprivation_index"))

	return rec, nil
}

func (r *CSVReader) field(row []string, name string) string {
	idx, ok := r.colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseMonth parses a claim month in any supported layout and normalizes
// it to the first of the month, UTC.
func ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable claim month %q", s)
}

// parseFloat returns NaN for empty or malformed values so the cleaning
// step can impute them.
func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "1":
		return true
	}
	return false
}
