package checks

import (
	"context"
	"sort"
	"strconv"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/sync/errgroup"

	"rorcheck/internal/normalize"
	"rorcheck/internal/record"
	"rorcheck/internal/rorapi"
	"rorcheck/internal/validator"
	pstrings "rorcheck/pkg/platform/strings"
)

// ProductionDuplicates hunts for batch records that are likely to already
// exist in the live registry. Search traffic runs on a bounded worker pool
// behind the shared sliding-window rate limiter; per-record transport
// failures degrade to no findings for that record.
type ProductionDuplicates struct {
	validator.Base
}

// NewProductionDuplicates builds the production duplicate check.
func NewProductionDuplicates() *ProductionDuplicates {
	return &ProductionDuplicates{Base: validator.Base{
		CheckName:     "production_duplicates",
		CheckFormats:  []validator.Format{validator.FormatCSV, validator.FormatJSON},
		Filename:      "production_duplicates.csv",
		Fields:        []string{"record_id", "record_name", "matched_id", "matched_name", "match_ratio"},
		NeedsGeonames: true,
	}}
}

type productionEntry struct {
	label      string
	names      []string
	geonamesID string
}

func (c *ProductionDuplicates) Run(ctx context.Context, vc *validator.Context, format validator.Format) ([]validator.Row, error) {
	entries, err := c.collect(vc, format)
	if err != nil {
		return nil, err
	}

	workers := vc.Config.SearchWorkers
	if workers <= 0 {
		workers = 1
	}

	// Per-entry result slots keep the output in input order regardless of
	// which worker finishes first.
	results := make([][]validator.Row, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			results[i] = c.scan(gctx, vc, entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var findings []validator.Row
	for _, rows := range results {
		findings = append(findings, rows...)
	}
	return findings, nil
}

func (c *ProductionDuplicates) scan(ctx context.Context, vc *validator.Context, entry productionEntry) []validator.Row {
	country := ""
	if entry.geonamesID != "" {
		place, err := vc.Geonames.Lookup(ctx, entry.geonamesID)
		if err == nil {
			country = place.CountryCode
		} else {
			vc.Logger.Warn("production scan without country", "record", entry.label, "error", err)
		}
	}

	// Exactly two searches per record, both keyed on the primary name; the
	// ratio pass below still compares every declared name against the hits.
	query := primaryName(entry.names)
	if query == "" {
		return nil
	}
	candidates := make(map[string]rorapi.Organization)
	if orgs, err := vc.Search.SearchQuery(ctx, query); err == nil {
		for _, o := range orgs {
			candidates[o.ID] = o
		}
	} else {
		vc.Logger.Warn("query search failed", "record", entry.label, "error", err)
	}
	if orgs, err := vc.Search.SearchAffiliation(ctx, query); err == nil {
		for _, o := range orgs {
			candidates[o.ID] = o
		}
	} else {
		vc.Logger.Warn("affiliation search failed", "record", entry.label, "error", err)
	}

	candidateIDs := make([]string, 0, len(candidates))
	for id := range candidates {
		candidateIDs = append(candidateIDs, id)
	}
	sort.Strings(candidateIDs)

	threshold := vc.Config.FuzzyThreshold
	var findings []validator.Row
	reported := make(map[string]bool)
	for _, id := range candidateIDs {
		candidate := candidates[id]
		if country != "" && candidate.CountryCode() != "" && candidate.CountryCode() != country {
			continue
		}
		for _, name := range entry.names {
			if reported[candidate.ID] {
				break
			}
			for _, candidateName := range candidate.NameValues() {
				ratio := fuzzy.Ratio(
					normalize.Text(pstrings.StripLang(name)),
					normalize.Text(candidateName),
				)
				if ratio < threshold {
					continue
				}
				reported[candidate.ID] = true
				findings = append(findings, validator.Row{
					"record_id":   entry.label,
					"record_name": name,
					"matched_id":  candidate.ID,
					"matched_name": candidateName,
					"match_ratio": strconv.Itoa(ratio),
				})
				break
			}
		}
	}
	return findings
}

// primaryName is the search term for a record: its first name, display name
// first in collection order, with the language tag stripped.
func primaryName(names []string) string {
	for _, name := range names {
		if q := pstrings.StripLang(name); q != "" {
			return q
		}
	}
	return ""
}

func (c *ProductionDuplicates) collect(vc *validator.Context, format validator.Format) ([]productionEntry, error) {
	var entries []productionEntry
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
			var gid string
			if ids := cellValues(row[record.FieldGeonamesID], isUpdate); len(ids) > 0 {
				gid = ids[0]
			}
			entries = append(entries, productionEntry{
				label:      rowLabel(row, i),
				names:      pstrings.DedupeAndTrim(names),
				geonamesID: gid,
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
			var gid string
			if len(e.Rec.Locations) > 0 && e.Rec.Locations[0].GeonamesID != 0 {
				gid = strconv.Itoa(e.Rec.Locations[0].GeonamesID)
			}
			entries = append(entries, productionEntry{
				label:      treeLabel(e),
				names:      pstrings.DedupeAndTrim(names),
				geonamesID: gid,
			})
		}
	}
	return entries, nil
}
