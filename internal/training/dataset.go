package training

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"altcred/internal/common/errors"
	"altcred/internal/models"
)

// Header returns the CSV header: the features in canonical order followed by
// the label.
func Header() []string {
	return append(models.FeatureNames(), models.LabelLoanDefault)
}

// WriteCSV writes rows with a header. Labels are written as 0 or 1.
func WriteCSV(w io.Writer, rows []models.LabeledApplicant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	record := make([]string, len(Header()))
	for _, row := range rows {
		for i, v := range row.Features.Values() {
			record[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		record[len(record)-1] = "0"
		if row.LoanDefault {
			record[len(record)-1] = "1"
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a dataset written by WriteCSV. Column order must match
// Header exactly.
func ReadCSV(r io.Reader) ([]models.LabeledApplicant, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header())

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !slices.Equal(header, Header()) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var rows []models.LabeledApplicant
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		values := make([]float64, len(record)-1)
		for i := range values {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, header[i], err)
			}
			values[i] = v
		}

		var label bool
		switch record[len(record)-1] {
		case "0", "false", "False":
		case "1", "true", "True":
			label = true
		default:
			return nil, fmt.Errorf("line %d: invalid label %q", line, record[len(record)-1])
		}

		rows = append(rows, models.LabeledApplicant{
			Features:    models.FeatureVectorFromValues(values),
			LoanDefault: label,
		})
	}
	return rows, nil
}

// SaveCSV writes rows to path, creating parent directories.
func SaveCSV(path string, rows []models.LabeledApplicant) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewDatasetWriteFailedError(path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.NewDatasetWriteFailedError(path, err)
	}
	if err := WriteCSV(file, rows); err != nil {
		file.Close()
		return errors.NewDatasetWriteFailedError(path, err)
	}
	if err := file.Close(); err != nil {
		return errors.NewDatasetWriteFailedError(path, err)
	}
	return nil
}

// LoadCSV reads the dataset at path.
func LoadCSV(path string) ([]models.LabeledApplicant, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDatasetReadFailedError(path, err)
	}
	defer file.Close()

	rows, err := ReadCSV(file)
	if err != nil {
		return nil, errors.NewDatasetReadFailedError(path, err)
	}
	return rows, nil
}
