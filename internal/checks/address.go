package checks

import (
	"context"
	"strconv"
	"strings"

	"rorcheck/internal/normalize"
	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

// Address cross-verifies a record's declared city and country against the
// place-ID authority. A lookup failure degrades that record to an API error
// finding; it never aborts the run.
type Address struct {
	validator.Base
}

// NewAddress builds the address-validation check.
func NewAddress() *Address {
	return &Address{Base: validator.Base{
		CheckName:     "address",
		CheckFormats:  []validator.Format{validator.FormatCSV, validator.FormatJSON},
		Filename:      "address_validation.csv",
		Fields:        []string{"record_id", "geonames_id", "city", "country", "geonames_city", "geonames_country", "issue"},
		NeedsGeonames: true,
	}}
}

type addressEntry struct {
	label      string
	geonamesID string
	city       string
	country    string
}

func (c *Address) Run(ctx context.Context, vc *validator.Context, format validator.Format) ([]validator.Row, error) {
	var entries []addressEntry

	switch format {
	case validator.FormatCSV:
		_, rows, err := record.ReadRows(vc.CSVPath)
		if err != nil {
			return nil, err
		}
		isUpdate := record.IsUpdateFile(rows)
		for i, row := range rows {
			ids := cellValues(row[record.FieldGeonamesID], isUpdate)
			if len(ids) == 0 {
				continue
			}
			entries = append(entries, addressEntry{
				label:      rowLabel(row, i),
				geonamesID: ids[0],
				city:       strings.TrimSpace(row[record.FieldCity]),
				country:    strings.TrimSpace(row[record.FieldCountry]),
			})
		}
	default:
		treeEntries, err := loadTree(vc.JSONDir, vc.Logger)
		if err != nil {
			return nil, err
		}
		for _, e := range treeEntries {
			if len(e.Rec.Locations) == 0 || e.Rec.Locations[0].GeonamesID == 0 {
				continue
			}
			loc := e.Rec.Locations[0]
			entries = append(entries, addressEntry{
				label:      treeLabel(e),
				geonamesID: strconv.Itoa(loc.GeonamesID),
				city:       loc.GeonamesDetails.Name,
				country:    loc.GeonamesDetails.CountryName,
			})
		}
	}

	var findings []validator.Row
	for _, entry := range entries {
		place, err := vc.Geonames.Lookup(ctx, entry.geonamesID)
		if err != nil {
			findings = append(findings, validator.Row{
				"record_id":   entry.label,
				"geonames_id": entry.geonamesID,
				"city":        entry.city,
				"country":     entry.country,
				"issue":       "API error",
			})
			continue
		}

		var issues []string
		if entry.city != "" && !placeEqual(entry.city, place.Name) {
			issues = append(issues, "city mismatch")
		}
		if entry.country != "" && !placeEqual(entry.country, place.CountryName) {
			issues = append(issues, "country mismatch")
		}
		if len(issues) == 0 {
			continue
		}
		findings = append(findings, validator.Row{
			"record_id":        entry.label,
			"geonames_id":      entry.geonamesID,
			"city":             entry.city,
			"country":          entry.country,
			"geonames_city":    place.Name,
			"geonames_country": place.CountryName,
			"issue":            strings.Join(issues, ", "),
		})
	}
	return findings, nil
}

// placeEqual compares place names loosely: whitespace collapsed, case
// ignored. "New York" vs "New York City" still mismatches.
func placeEqual(declared, authoritative string) bool {
	return strings.EqualFold(normalize.Whitespace(declared), normalize.Whitespace(authoritative))
}
