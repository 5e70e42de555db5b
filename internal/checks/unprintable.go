package checks

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

// Unprintable flags fields containing non-printable characters. Newlines and
// carriage returns are not exempt here.
type Unprintable struct {
	validator.Base
}

// NewUnprintable builds the unprintable-characters check.
func NewUnprintable() *Unprintable {
	return &Unprintable{Base: validator.Base{
		CheckName:    "unprintable",
		CheckFormats: []validator.Format{validator.FormatCSV, validator.FormatJSON},
		Filename:     "unprintable_characters.csv",
		Fields:       []string{"record_id", "field", "value", "characters"},
	}}
}

func (c *Unprintable) Run(_ context.Context, vc *validator.Context, format validator.Format) ([]validator.Row, error) {
	switch format {
	case validator.FormatCSV:
		_, rows, err := record.ReadRows(vc.CSVPath)
		if err != nil {
			return nil, err
		}
		var findings []validator.Row
		for i, row := range rows {
			findings = append(findings, scanUnprintable(rowLabel(row, i), map[string]string(row))...)
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
			findings = append(findings, scanUnprintable(label, flat)...)
		}
		return findings, nil
	}
}

func scanUnprintable(label string, flat map[string]string) []validator.Row {
	var findings []validator.Row
	for _, field := range record.FlatKeys(flat) {
		value := flat[field]
		offenders := unprintableRunes(value)
		if len(offenders) == 0 {
			continue
		}
		reprs := make([]string, len(offenders))
		for i, r := range offenders {
			reprs[i] = strconv.QuoteRune(r)
		}
		findings = append(findings, validator.Row{
			"record_id":  label,
			"field":      field,
			"value":      value,
			"characters": strings.Join(reprs, " "),
		})
	}
	return findings
}

// unprintableRunes returns the distinct offending codepoints in first-seen
// order.
func unprintableRunes(s string) []rune {
	var offenders []rune
	seen := make(map[rune]bool)
	for _, r := range s {
		if r == ' ' || unicode.IsPrint(r) || seen[r] {
			continue
		}
		seen[r] = true
		offenders = append(offenders, r)
	}
	return offenders
}
