package checks

import (
	"context"
	"strconv"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"rorcheck/internal/normalize"
	"rorcheck/internal/record"
	"rorcheck/internal/validator"
	pstrings "rorcheck/pkg/platform/strings"
)

// ReleaseDuplicates hunts for records within the same batch that are likely
// the same organization: identical normalized website URLs (score 100) or
// names whose fuzzy similarity reaches the operating threshold.
type ReleaseDuplicates struct {
	validator.Base
}

// NewReleaseDuplicates builds the in-release duplicate check.
func NewReleaseDuplicates() *ReleaseDuplicates {
	return &ReleaseDuplicates{Base: validator.Base{
		CheckName:    "release_duplicates",
		CheckFormats: []validator.Format{validator.FormatCSV, validator.FormatJSON},
		Filename:     "release_duplicates.csv",
		Fields:       []string{"record_1", "record_2", "match_type", "match_ratio", "value_1", "value_2"},
	}}
}

type releaseEntry struct {
	label   string
	names   []string
	urls    []string
	country string
}

func (c *ReleaseDuplicates) Run(_ context.Context, vc *validator.Context, format validator.Format) ([]validator.Row, error) {
	entries, err := c.collect(vc, format)
	if err != nil {
		return nil, err
	}
	threshold := vc.Config.FuzzyThreshold

	var findings []validator.Row
	reportedNames := make(map[string]bool)
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			// Different declared countries cannot be the same organization;
			// an absent country matches anything.
			if a.country != "" && b.country != "" && a.country != b.country {
				continue
			}

			if u1, u2, ok := sharedURL(a.urls, b.urls); ok {
				findings = append(findings, validator.Row{
					"record_1":    a.label,
					"record_2":    b.label,
					"match_type":  "url",
					"match_ratio": "100",
					"value_1":     u1,
					"value_2":     u2,
				})
			}

			for _, n1 := range a.names {
				for _, n2 := range b.names {
					key := namePairKey(n1, n2)
					if reportedNames[key] {
						continue
					}
					ratio := fuzzy.Ratio(
						normalize.Text(pstrings.StripLang(n1)),
						normalize.Text(pstrings.StripLang(n2)),
					)
					if ratio < threshold {
						continue
					}
					reportedNames[key] = true
					findings = append(findings, validator.Row{
						"record_1":    a.label,
						"record_2":    b.label,
						"match_type":  "name",
						"match_ratio": strconv.Itoa(ratio),
						"value_1":     n1,
						"value_2":     n2,
					})
				}
			}
		}
	}
	return findings, nil
}

func (c *ReleaseDuplicates) collect(vc *validator.Context, format validator.Format) ([]releaseEntry, error) {
	var entries []releaseEntry
	switch format {
	case validator.FormatCSV:
		_, rows, err := record.ReadRows(vc.CSVPath)
		if err != nil {
			return nil, err
		}
		isUpdate := record.IsUpdateFile(rows)
		for i, row := range rows {
			var names []string
			for _, field := range []string{record.FieldRORDisplay, record.FieldLabel, record.FieldAlias} {
				names = append(names, cellValues(row[field], isUpdate)...)
			}
			entries = append(entries, releaseEntry{
				label: rowLabel(row, i),
				names: names,
				urls:  cellValues(row[record.FieldWebsite], isUpdate),
			})
		}
	default:
		treeEntries, err := loadTree(vc.JSONDir, vc.Logger)
		if err != nil {
			return nil, err
		}
		for _, e := range treeEntries {
			var names []string
			view := record.TreeView(e.Rec)
			for _, field := range []string{record.FieldRORDisplay, record.FieldLabel, record.FieldAlias} {
				names = append(names, view[field]...)
			}
			entries = append(entries, releaseEntry{
				label:   treeLabel(e),
				names:   names,
				urls:    view[record.FieldWebsite],
				country: e.Rec.CountryCode(),
			})
		}
	}
	return entries, nil
}

// sharedURL returns the first pair of URLs that normalize identically.
func sharedURL(urls1, urls2 []string) (string, string, bool) {
	for _, u1 := range urls1 {
		n1 := normalize.URL(u1)
		if n1 == "" {
			continue
		}
		for _, u2 := range urls2 {
			if normalize.URL(u2) == n1 {
				return u1, u2, true
			}
		}
	}
	return "", "", false
}

func namePairKey(n1, n2 string) string {
	if n2 < n1 {
		n1, n2 = n2, n1
	}
	return n1 + "\x00" + n2
}
