package checks

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

// UpdateIntegrity checks that every add/replace of an update row landed in
// the tree document and that no delete target survived.
type UpdateIntegrity struct {
	validator.Base
}

// NewUpdateIntegrity builds the update-record integrity check.
func NewUpdateIntegrity() *UpdateIntegrity {
	return &UpdateIntegrity{Base: validator.Base{
		CheckName:    "update_integrity",
		CheckFormats: []validator.Format{validator.FormatCSVJSON},
		Filename:     "update_record_integrity.csv",
		Fields:       []string{"id", "field", "type", "status", "position"},
	}}
}

func (c *UpdateIntegrity) Run(_ context.Context, vc *validator.Context, _ validator.Format) ([]validator.Row, error) {
	_, rows, err := record.ReadRows(vc.CSVPath)
	if err != nil {
		return nil, err
	}

	var findings []validator.Row
	for _, row := range rows {
		id := row[record.FieldID]
		if id == "" {
			continue
		}
		rec, err := record.LoadFile(filepath.Join(vc.JSONDir, record.IDSuffix(id)+".json"))
		if err != nil {
			status := "unreadable_record"
			if os.IsNotExist(err) {
				status = "missing_record"
			}
			findings = append(findings, validator.Row{
				"id": id, "field": record.FieldID, "status": status,
			})
			continue
		}

		view := record.TreeView(rec)
		all := stringSet(view.All())
		inverted := view.Inverted()

		for _, field := range record.ViewFields {
			if field == record.FieldID {
				continue
			}
			cell := row[field]
			if strings.TrimSpace(cell) == "" {
				continue
			}
			for _, op := range record.ParseOps(cell) {
				findings = append(findings, checkDirective(id, field, op, view, all, inverted)...)
			}
		}
	}
	return findings, nil
}

func checkDirective(id, field string, op record.Op, view record.View, all map[string]bool, inverted map[string][]string) []validator.Row {
	switch {
	case op.Kind == "":
		return []validator.Row{{
			"id": id, "field": field, "status": "unknown_directive", "position": op.Value,
		}}

	case op.Kind == record.OpDelete:
		value := canonicalAtom(field, op.Value)
		if all[value] && fieldHolds(inverted, value, field) {
			return []validator.Row{{
				"id": id, "field": field, "type": record.OpDelete,
				"status": "still_present", "position": value,
			}}
		}
		return nil

	case record.IsDeleteAll(op.Value):
		// replace==delete wipes the whole field; anything left behind means
		// the delete did not happen.
		if len(view[field]) > 0 {
			return []validator.Row{{
				"id": id, "field": field, "type": record.OpDelete,
				"status": "still_present", "position": strings.Join(view[field], ";"),
			}}
		}
		return nil

	default: // add or replace with a real value
		value := canonicalAtom(field, op.Value)
		if value == "" {
			return nil
		}
		if !all[value] {
			return []validator.Row{{
				"id": id, "field": field, "type": op.Kind,
				"status": "missing", "position": value,
			}}
		}
		return nil
	}
}

func fieldHolds(inverted map[string][]string, value, field string) bool {
	for _, f := range inverted[value] {
		if f == field {
			return true
		}
	}
	return false
}
