package checks

import (
	"context"
	"strings"

	"rorcheck/internal/normalize"
	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

// baselineRef points a matched value back at its baseline record.
type baselineRef struct {
	ID        string
	Name      string
	Namespace string
}

// DuplicateIDs flags external identifier values in the batch that already
// exist on a baseline record, across every namespace.
type DuplicateIDs struct {
	validator.Base
}

// NewDuplicateIDs builds the duplicate-external-IDs check.
func NewDuplicateIDs() *DuplicateIDs {
	return &DuplicateIDs{Base: validator.Base{
		CheckName:     "duplicate_ids",
		CheckFormats:  []validator.Format{validator.FormatCSV, validator.FormatJSON},
		Filename:      "duplicate_external_ids.csv",
		Fields:        []string{"record_id", "namespace", "value", "baseline_id", "baseline_name"},
		NeedsBaseline: true,
	}}
}

func (c *DuplicateIDs) Run(_ context.Context, vc *validator.Context, format validator.Format) ([]validator.Row, error) {
	index := baselineIDIndex(vc)

	type batchEntry struct {
		label string
		atoms map[string][]string // namespace -> values
	}
	var batch []batchEntry

	switch format {
	case validator.FormatCSV:
		_, rows, err := record.ReadRows(vc.CSVPath)
		if err != nil {
			return nil, err
		}
		isUpdate := record.IsUpdateFile(rows)
		for i, row := range rows {
			atoms := make(map[string][]string)
			for _, ns := range record.ExternalIDTypes {
				for _, slot := range []string{"preferred", "all"} {
					for _, v := range cellValues(row[record.ExternalIDField(ns, slot)], isUpdate) {
						v = strings.TrimSuffix(v, "*preferred")
						if v == "" || v == "delete" {
							continue
						}
						atoms[ns] = append(atoms[ns], v)
					}
				}
			}
			batch = append(batch, batchEntry{label: rowLabel(row, i), atoms: atoms})
		}
	default:
		entries, err := loadTree(vc.JSONDir, vc.Logger)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			atoms := make(map[string][]string)
			for _, group := range e.Rec.ExternalIDs {
				if group.Preferred != "" {
					atoms[group.Type] = append(atoms[group.Type], group.Preferred)
				}
				atoms[group.Type] = append(atoms[group.Type], group.All...)
			}
			batch = append(batch, batchEntry{label: treeLabel(e), atoms: atoms})
		}
	}

	var findings []validator.Row
	for _, entry := range batch {
		seen := make(map[string]bool)
		for _, ns := range record.ExternalIDTypes {
			for _, value := range entry.atoms[ns] {
				value = normalize.Whitespace(value)
				key := ns + "\x00" + value
				if value == "" || seen[key] {
					continue
				}
				seen[key] = true
				for _, ref := range index[key] {
					findings = append(findings, validator.Row{
						"record_id":     entry.label,
						"namespace":     ns,
						"value":         value,
						"baseline_id":   ref.ID,
						"baseline_name": ref.Name,
					})
				}
			}
		}
	}
	return findings, nil
}

// baselineIDIndex maps namespace+value to the baseline records holding it,
// with whitespace normalized on every baseline identifier.
func baselineIDIndex(vc *validator.Context) map[string][]baselineRef {
	index := make(map[string][]baselineRef)
	for _, rec := range vc.Baseline.All() {
		for _, group := range rec.ExternalIDs {
			values := append([]string(nil), group.All...)
			if group.Preferred != "" {
				values = append(values, group.Preferred)
			}
			added := make(map[string]bool, len(values))
			for _, v := range values {
				v = normalize.Whitespace(v)
				if v == "" || added[v] {
					continue
				}
				added[v] = true
				key := group.Type + "\x00" + v
				index[key] = append(index[key], baselineRef{
					ID:        rec.ID,
					Name:      rec.DisplayName(),
					Namespace: group.Type,
				})
			}
		}
	}
	return index
}
