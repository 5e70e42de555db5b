package validator

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteReport writes findings as CSV with the fields in declared order. An
// empty result list writes nothing: curators should not see empty artifacts.
func WriteReport(path string, fields []string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(fields); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	record := make([]string, len(fields))
	for _, row := range rows {
		for i, field := range fields {
			record[i] = row[field]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
