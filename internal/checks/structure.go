package checks

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

// Structure rejects tabular input that is structurally malformed: missing
// columns, rows with the wrong cell count, and rows whose id does not match
// the file's classification (any non-empty id makes it an update file).
type Structure struct {
	validator.Base
}

// NewStructure builds the input-file structure check.
func NewStructure() *Structure {
	return &Structure{Base: validator.Base{
		CheckName:    "structure",
		CheckFormats: []validator.Format{validator.FormatCSV},
		Filename:     "file_structure.csv",
		Fields:       []string{"row", "id", "issue"},
	}}
}

// Run reads the tabular file raw, so cell-count problems are visible before
// any header mapping happens.
func (c *Structure) Run(_ context.Context, vc *validator.Context, _ validator.Format) ([]validator.Row, error) {
	f, err := os.Open(vc.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", vc.CSVPath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return []validator.Row{{"row": "1", "issue": fmt.Sprintf("unreadable header: %v", err)}}, nil
	}

	var findings []validator.Row
	headerIndex := make(map[string]int, len(header))
	for i, col := range header {
		headerIndex[col] = i
	}
	for _, col := range record.RequiredColumns {
		if _, ok := headerIndex[col]; !ok {
			findings = append(findings, validator.Row{"row": "1", "issue": "missing column " + col})
		}
	}

	idCol, hasID := headerIndex[record.FieldID]

	type rawRow struct {
		line int
		id   string
	}
	var rows []rawRow
	anyID := false
	for line := 2; ; line++ {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			findings = append(findings, validator.Row{"row": strconv.Itoa(line), "issue": fmt.Sprintf("unreadable row: %v", err)})
			continue
		}
		if len(cells) != len(header) {
			findings = append(findings, validator.Row{
				"row":   strconv.Itoa(line),
				"issue": fmt.Sprintf("expected %d cells, got %d", len(header), len(cells)),
			})
		}
		id := ""
		if hasID && idCol < len(cells) {
			id = cells[idCol]
		}
		if id != "" {
			anyID = true
		}
		rows = append(rows, rawRow{line: line, id: id})
	}

	if !hasID {
		findings = append(findings, validator.Row{"row": "1", "issue": "missing column id"})
		return findings, nil
	}

	// Majority classification: any non-empty id makes this an update file,
	// and every update row must then carry one. A file with no ids at all is
	// a new-record file, where empty ids are the rule.
	if anyID {
		for _, r := range rows {
			if r.id == "" {
				findings = append(findings, validator.Row{
					"row":   strconv.Itoa(r.line),
					"issue": "update file row has no id",
				})
			}
		}
	}
	return findings, nil
}
