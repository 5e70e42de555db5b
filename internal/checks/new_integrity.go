package checks

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"rorcheck/internal/normalize"
	"rorcheck/internal/record"
	"rorcheck/internal/validator"
	pstrings "rorcheck/pkg/platform/strings"
)

// NewIntegrity cross-references every populated cell of a new-record row
// against the corresponding tree document. A value that landed in the wrong
// field is a transposition; a value absent from the document is missing.
type NewIntegrity struct {
	validator.Base
}

// NewNewIntegrity builds the new-record integrity check.
func NewNewIntegrity() *NewIntegrity {
	return &NewIntegrity{Base: validator.Base{
		CheckName:    "new_integrity",
		CheckFormats: []validator.Format{validator.FormatCSVJSON},
		Filename:     "new_record_integrity.csv",
		Fields:       []string{"id", "type", "field", "value"},
	}}
}

func (c *NewIntegrity) Run(_ context.Context, vc *validator.Context, _ validator.Format) ([]validator.Row, error) {
	header, rows, err := record.ReadRows(vc.CSVPath)
	if err != nil {
		return nil, err
	}
	// Update batches carry edit directives, not literal values; following
	// those through is the update-integrity check's business.
	if isUpdateBatch(header, rows) {
		return nil, nil
	}

	var findings []validator.Row
	for _, row := range rows {
		id := row[record.FieldID]
		suffix := record.IDSuffix(id)
		if suffix == "" {
			continue
		}
		rec, err := record.LoadFile(filepath.Join(vc.JSONDir, suffix+".json"))
		if err != nil {
			if os.IsNotExist(err) {
				findings = append(findings, validator.Row{
					"id": id, "type": "missing_record", "field": record.FieldID, "value": id,
				})
			} else {
				findings = append(findings, validator.Row{
					"id": id, "type": "unreadable_record", "field": record.FieldID, "value": err.Error(),
				})
			}
			continue
		}

		view := record.TreeView(rec)
		all := stringSet(view.All())

		for _, field := range record.ViewFields {
			if field == record.FieldID {
				continue
			}
			for _, atom := range pstrings.Atoms(row[field]) {
				atom = canonicalAtom(field, atom)
				if atom == "" {
					continue
				}
				if stringSet(view[field])[atom] {
					continue
				}
				if all[atom] {
					findings = append(findings, validator.Row{
						"id": id, "type": "transposition", "field": field, "value": atom,
					})
				} else {
					findings = append(findings, validator.Row{
						"id": id, "type": "missing", "field": field, "value": atom,
					})
				}
			}
		}
	}
	return findings, nil
}

// isUpdateBatch classifies the input file: update batches declare an
// update_field column, and their cells hold directives rather than values.
func isUpdateBatch(header []string, rows []record.Row) bool {
	for _, col := range header {
		if col == record.FieldUpdateField {
			return true
		}
	}
	return record.HasDirectives(rows)
}

// canonicalAtom puts a tabular atom into the tree view's vocabulary:
// language tags stripped, wikipedia titles percent-quoted, integer fields
// rendered canonically, types lower-cased.
func canonicalAtom(field, atom string) string {
	switch {
	case nameFields[field]:
		return pstrings.StripLang(atom)
	case field == record.FieldWikipedia:
		return normalize.WikipediaURL(atom)
	case field == record.FieldEstablished || field == record.FieldGeonamesID:
		return canonInt(atom)
	case field == record.FieldTypes:
		return strings.ToLower(atom)
	case strings.HasPrefix(field, "external_ids."):
		return strings.TrimSuffix(atom, "*preferred")
	default:
		return atom
	}
}
