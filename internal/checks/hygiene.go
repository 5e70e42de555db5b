package checks

import (
	"context"
	"strings"

	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

// hygieneChars are the characters no field may start or end with:
// whitespace plus the punctuation that curation never accepts at the edges.
const hygieneChars = "!#$%&*+,-./:;<=>?@\\^_`{|}~ \t\n\v\f\r"

// Hygiene flags strings with leading or trailing whitespace or punctuation.
type Hygiene struct {
	validator.Base
}

// NewHygiene builds the leading/trailing hygiene check.
func NewHygiene() *Hygiene {
	return &Hygiene{Base: validator.Base{
		CheckName:    "hygiene",
		CheckFormats: []validator.Format{validator.FormatCSV, validator.FormatJSON},
		Filename:     "leading_trailing.csv",
		Fields:       []string{"record_id", "field", "value", "position"},
	}}
}

func (c *Hygiene) Run(_ context.Context, vc *validator.Context, format validator.Format) ([]validator.Row, error) {
	switch format {
	case validator.FormatCSV:
		_, rows, err := record.ReadRows(vc.CSVPath)
		if err != nil {
			return nil, err
		}
		var findings []validator.Row
		for i, row := range rows {
			findings = append(findings, scanHygiene(rowLabel(row, i), map[string]string(row))...)
		}
		return findings, nil
	default:
		files, err := record.ListTreeFiles(vc.JSONDir)
		if err != nil {
			return nil, err
		}
		var findings []validator.Row
		for _, f := range files {
			flat, err := record.FlattenFile(f)
			if err != nil {
				vc.Logger.Warn("skipping undecodable tree document", "path", f, "error", err)
				continue
			}
			label := flat["id"]
			if label == "" {
				label = f
			}
			findings = append(findings, scanHygiene(label, flat)...)
		}
		return findings, nil
	}
}

func scanHygiene(label string, flat map[string]string) []validator.Row {
	var findings []validator.Row
	for _, field := range record.FlatKeys(flat) {
		value := flat[field]
		if value == "" {
			continue
		}
		if strings.ContainsRune(hygieneChars, rune(value[0])) {
			findings = append(findings, validator.Row{
				"record_id": label, "field": field, "value": value, "position": "leading",
			})
		}
		if strings.ContainsRune(hygieneChars, rune(value[len(value)-1])) {
			findings = append(findings, validator.Row{
				"record_id": label, "field": field, "value": value, "position": "trailing",
			})
		}
	}
	return findings
}
