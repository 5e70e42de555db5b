package checks

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"rorcheck/internal/patterns"
	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

// DuplicateValues flags the same string appearing as the value of two
// independent fields of one record. The tree and tabular views carry
// deliberately separate ignore policies; collapsing them causes false
// positives.
type DuplicateValues struct {
	validator.Base
}

// NewDuplicateValues builds the within-record duplicate-values check.
func NewDuplicateValues() *DuplicateValues {
	return &DuplicateValues{Base: validator.Base{
		CheckName:    "duplicate_values",
		CheckFormats: []validator.Format{validator.FormatCSV, validator.FormatJSON},
		Filename:     "duplicate_values.csv",
		Fields:       []string{"record_id", "field_1", "field_2", "value"},
	}}
}

func (c *DuplicateValues) Run(_ context.Context, vc *validator.Context, format validator.Format) ([]validator.Row, error) {
	switch format {
	case validator.FormatCSV:
		return c.runCSV(vc)
	default:
		return c.runTree(vc)
	}
}

func (c *DuplicateValues) runTree(vc *validator.Context) ([]validator.Row, error) {
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
		findings = append(findings, scanFlat(label, flat, treeIgnore)...)
	}
	return findings, nil
}

func (c *DuplicateValues) runCSV(vc *validator.Context) ([]validator.Row, error) {
	_, rows, err := record.ReadRows(vc.CSVPath)
	if err != nil {
		return nil, err
	}
	var findings []validator.Row
	for i, row := range rows {
		findings = append(findings, scanFlat(rowLabel(row, i), map[string]string(row), rowIgnore)...)
	}
	return findings, nil
}

// ignorePolicy reports whether a shared value between two fields is benign.
type ignorePolicy func(field1, field2, value string) bool

// scanFlat inverts a flat view and reports every unordered field pair
// sharing a value, ordered by field appearance.
func scanFlat(label string, flat map[string]string, ignore ignorePolicy) []validator.Row {
	byValue := make(map[string][]string)
	for _, field := range record.FlatKeys(flat) {
		value := flat[field]
		if value == "" || strings.EqualFold(value, "null") {
			continue
		}
		byValue[value] = append(byValue[value], field)
	}

	values := make([]string, 0, len(byValue))
	for v, fields := range byValue {
		if len(fields) > 1 {
			values = append(values, v)
		}
	}
	sort.Strings(values)

	var findings []validator.Row
	for _, value := range values {
		fields := byValue[value]
		for i := 0; i < len(fields); i++ {
			for j := i + 1; j < len(fields); j++ {
				if ignore(fields[i], fields[j], value) {
					continue
				}
				findings = append(findings, validator.Row{
					"record_id": label,
					"field_1":   fields[i],
					"field_2":   fields[j],
					"value":     value,
				})
			}
		}
	}
	return findings
}

var (
	externalIDGroup = regexp.MustCompile(`^external_ids_(\d+)_(preferred|all)(_\d+)?$`)
	nameTypeSlot    = regexp.MustCompile(`^names_\d+_types(_\d+)?$`)
	relTypeSlot     = regexp.MustCompile(`^relationships_\d+_types?(_\d+)?$`)
	langSlot        = regexp.MustCompile(`(^|_)lang$`)
)

// treeIgnore is the policy for the exhaustive flat view of a tree document.
func treeIgnore(field1, field2, value string) bool {
	if patterns.ValidRelationshipTypes[value] {
		return true
	}
	if strings.HasPrefix(field1, "admin_") && strings.HasPrefix(field2, "admin_") {
		return true
	}
	if langSlot.MatchString(field1) && langSlot.MatchString(field2) {
		return true
	}
	if nameTypeSlot.MatchString(field1) && nameTypeSlot.MatchString(field2) {
		return true
	}
	if relTypeSlot.MatchString(field1) && relTypeSlot.MatchString(field2) {
		return true
	}
	m1 := externalIDGroup.FindStringSubmatch(field1)
	m2 := externalIDGroup.FindStringSubmatch(field2)
	if m1 != nil && m2 != nil && m1[1] == m2[1] {
		// preferred and all slots of the same identifier group legitimately
		// repeat the same value.
		return true
	}
	return false
}

// rowIgnore is the policy for the tabular view, where a name carrying the
// ror_display type always also appears under label.
func rowIgnore(field1, field2, value string) bool {
	if patterns.ValidRelationshipTypes[value] {
		return true
	}
	pair := map[string]bool{field1: true, field2: true}
	if pair[record.FieldRORDisplay] && pair[record.FieldLabel] {
		return true
	}
	m1 := csvExternalIDCol.FindStringSubmatch(field1)
	m2 := csvExternalIDCol.FindStringSubmatch(field2)
	if m1 != nil && m2 != nil && m1[1] == m2[1] {
		return true
	}
	return false
}

var csvExternalIDCol = regexp.MustCompile(`^external_ids\.type\.([a-z]+)\.(preferred|all)$`)
