package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Row is one tabular record: column name to raw cell.
type Row map[string]string

// IsUpdate reports whether the row targets an existing record. An empty id
// marks a new-record row.
func (r Row) IsUpdate() bool {
	return r[FieldID] != ""
}

// Columns lists every recognized tabular column. Column names are the
// authoritative schema.
var Columns = func() []string {
	cols := []string{
		FieldID,
		FieldHTMLURL,
		FieldStatus,
		FieldTypes,
		FieldEstablished,
		FieldDomains,
		FieldRORDisplay,
		FieldLabel,
		FieldAlias,
		FieldAcronym,
		FieldWebsite,
		FieldWikipedia,
	}
	for _, t := range ExternalIDTypes {
		cols = append(cols, ExternalIDField(t, "preferred"), ExternalIDField(t, "all"))
	}
	cols = append(cols, FieldGeonamesID, FieldCity, FieldCountry)
	return cols
}()

// RequiredColumns is the subset of Columns that must appear in every file.
// html_url is an optional tracker back-reference; city/country only feed the
// address check and update files may omit them.
var RequiredColumns = func() []string {
	optional := map[string]bool{FieldHTMLURL: true, FieldCity: true, FieldCountry: true}
	var cols []string
	for _, c := range Columns {
		if !optional[c] {
			cols = append(cols, c)
		}
	}
	return cols
}()

// ReadRows reads a tabular file into header-keyed rows, preserving file
// order. Short rows map only the cells present; long rows drop the excess.
// Structural problems beyond that are the structure check's business, so the
// reader is lenient about per-row field counts.
func ReadRows(path string) ([]string, []Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows []Row
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return header, rows, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// IsUpdateFile classifies a batch: if any row carries a non-empty id the
// file holds update rows, otherwise new-record rows.
func IsUpdateFile(rows []Row) bool {
	for _, row := range rows {
		if row.IsUpdate() {
			return true
		}
	}
	return false
}
