package checks

import (
	"context"
	"strings"

	"rorcheck/internal/normalize"
	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

// urlRef carries a matched baseline URL with its original form.
type urlRef struct {
	ID   string
	Name string
	URL  string
}

// DuplicateURLs flags batch website URLs that normalize to a URL already
// held by a baseline record.
type DuplicateURLs struct {
	validator.Base
}

// NewDuplicateURLs builds the duplicate-URLs check.
func NewDuplicateURLs() *DuplicateURLs {
	return &DuplicateURLs{Base: validator.Base{
		CheckName:     "duplicate_urls",
		CheckFormats:  []validator.Format{validator.FormatCSV, validator.FormatJSON},
		Filename:      "duplicate_urls.csv",
		Fields:        []string{"record_id", "url", "normalized", "baseline_id", "baseline_name", "baseline_url"},
		NeedsBaseline: true,
	}}
}

func (c *DuplicateURLs) Run(_ context.Context, vc *validator.Context, format validator.Format) ([]validator.Row, error) {
	index := baselineURLIndex(vc)

	type batchEntry struct {
		label string
		urls  []string
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
			batch = append(batch, batchEntry{
				label: rowLabel(row, i),
				urls:  cellValues(row[record.FieldWebsite], isUpdate),
			})
		}
	default:
		entries, err := loadTree(vc.JSONDir, vc.Logger)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			var urls []string
			for _, l := range e.Rec.Links {
				if l.Type == "website" {
					urls = append(urls, l.Value)
				}
			}
			batch = append(batch, batchEntry{label: treeLabel(e), urls: urls})
		}
	}

	var findings []validator.Row
	for _, entry := range batch {
		for _, u := range entry.urls {
			key := normalize.URL(u)
			if key == "" {
				continue
			}
			refs := index[key]
			if len(refs) == 0 {
				refs = index["//www."+strings.TrimPrefix(key, "//")]
			}
			for _, ref := range refs {
				if ref.ID == entry.label {
					// An update row naturally shares its own baseline URL.
					continue
				}
				findings = append(findings, validator.Row{
					"record_id":     entry.label,
					"url":           u,
					"normalized":    key,
					"baseline_id":   ref.ID,
					"baseline_name": ref.Name,
					"baseline_url":  ref.URL,
				})
			}
		}
	}
	return findings, nil
}

// baselineURLIndex maps the normalized form of every baseline website to its
// record, plus a //www.<host> variant so baseline records stored without
// "www." still match batch records that include it.
func baselineURLIndex(vc *validator.Context) map[string][]urlRef {
	index := make(map[string][]urlRef)
	for _, rec := range vc.Baseline.All() {
		for _, l := range rec.Links {
			if l.Type != "website" {
				continue
			}
			key := normalize.URL(l.Value)
			if key == "" {
				continue
			}
			ref := urlRef{ID: rec.ID, Name: rec.DisplayName(), URL: l.Value}
			index[key] = append(index[key], ref)
			variant := "//www." + strings.TrimPrefix(key, "//")
			index[variant] = append(index[variant], ref)
		}
	}
	return index
}
