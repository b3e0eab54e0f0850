package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"copdrisk/features"
	"copdrisk/model"
)

// featureRow is the Parquet schema for the per-patient feature table,
// written before one-hot encoding so the columns stay fixed.
type featureRow struct {
	PatientID         string  `parquet:"patient_id"`
	AgeBand           string  `parquet:"age_band"`
	Gender            string  `parquet:"gender"`
	LineOfBusiness    string  `parquet:"line_of_business"`
	LocationDesc      string  `parquet:"location_description"`
	Deprivation       float64 `parquet:"deprivation_index"`
	COPDEDVisits      float64 `parquet:"copd_ed_visits"`
	EDVisits          float64 `parquet:"ed_visits"`
	TotalClaims       float64 `parquet:"total_claims"`
	RespiratoryClaims float64 `parquet:"respiratory_claims"`
	DistinctDiagnoses float64 `parquet:"distinct_diagnoses"`
	LabelEDVisits     float64 `parquet:"label_ed_visits"`
	Costly            bool    `parquet:"costly"`
}

// reportRow is the Parquet schema for the model comparison table.
type reportRow struct {
	Family      string  `parquet:"family"`
	Params      string  `parquet:"params"`
	CVScore     float64 `parquet:"cv_accuracy"`
	Accuracy    float64 `parquet:"accuracy"`
	Sensitivity float64 `parquet:"sensitivity"`
	Specificity float64 `parquet:"specificity"`
	AUC         float64 `parquet:"auc"`
}

func writeArtifacts(dir string, rows []features.PatientRow, reports []model.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	frows := make([]featureRow, len(rows))
	for i, r := range rows {
		frows[i] = featureRow{
			PatientID:         r.PatientID,
			AgeBand:           r.AgeBand,
			Gender:            r.Gender,
			LineOfBusiness:    r.LineOfBusiness,
			LocationDesc:      r.LocationDesc,
			Deprivation:       r.Deprivation,
			COPDEDVisits:      r.COPDEDVisits,
			EDVisits:          r.EDVisits,
			TotalClaims:       r.TotalClaims,
			RespiratoryClaims: r.RespiratoryClaims,
			DistinctDiagnoses: r.DistinctDiagnoses,
			LabelEDVisits:     r.LabelEDVisits,
			Costly:            r.Costly,
		}
	}
	if err := writeParquet(filepath.Join(dir, "patient_features.parquet"), frows); err != nil {
		return err
	}

	rrows := make([]reportRow, len(reports))
	for i, r := range reports {
		rrows[i] = reportRow{
			Family:      r.Family,
			Params:      r.Params,
			CVScore:     r.CVScore,
			Accuracy:    r.Metrics.Accuracy,
			Sensitivity: r.Metrics.Sensitivity,
			Specificity: r.Metrics.Specificity,
			AUC:         r.Metrics.AUC,
		}
	}
	return writeParquet(filepath.Join(dir, "model_comparison.parquet"), rrows)
}

// writeParquet writes one batch of rows with the same writer settings
// used across our analytical outputs.
func writeParquet[T any](filename string, rows []T) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.CreatedBy("copdrisk", "1.0", ""),
	)

	if _, err := writer.Write(rows); err != nil {
		file.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return file.Close()
}
