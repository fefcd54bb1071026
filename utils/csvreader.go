package utils

import (
	"encoding/csv"
	"io"
)

// ParseCSV reads an uploaded CSV, drops the header row, and skips any row
// with fewer than minFields fields. It returns the usable rows and the
// number skipped.
func ParseCSV(r io.Reader, minFields int) ([][]string, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) > 0 {
		records = records[1:]
	}

	rows := make([][]string, 0, len(records))
	skipped := 0
	for _, row := range records {
		if len(row) < minFields {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}
