// Package checks holds the concrete validators. Each check embeds the
// framework Base, declares its report shape, and implements Run for the
// formats it supports.
package checks

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"rorcheck/internal/record"
	pstrings "rorcheck/pkg/platform/strings"
)

// treeEntry is one loaded tree document.
type treeEntry struct {
	Path string
	Rec  *record.Record
}

// loadTree reads every tree document under dir in lexicographic order.
// Undecodable documents are warned about and skipped rather than aborting
// the run; the schema check reports them as findings.
func loadTree(dir string, logger *slog.Logger) ([]treeEntry, error) {
	files, err := record.ListTreeFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list tree directory %s: %w", dir, err)
	}
	var entries []treeEntry
	for _, f := range files {
		rec, err := record.LoadFile(f)
		if err != nil {
			logger.Warn("skipping undecodable tree document", "path", f, "error", err)
			continue
		}
		entries = append(entries, treeEntry{Path: f, Rec: rec})
	}
	return entries, nil
}

// rowLabel identifies a row in findings: the record ID when present,
// otherwise its position in the file (1-based, header excluded).
func rowLabel(row record.Row, idx int) string {
	if id := row[record.FieldID]; id != "" {
		return id
	}
	return "row " + strconv.Itoa(idx+1)
}

// treeLabel identifies a tree document in findings.
func treeLabel(e treeEntry) string {
	if e.Rec.ID != "" {
		return e.Rec.ID
	}
	return filepath.Base(e.Path)
}

// canonInt renders an integer-shaped atom canonically so "01936" and "1936"
// compare equal. Non-integers come back unchanged.
func canonInt(atom string) string {
	n, err := strconv.Atoi(strings.TrimSpace(atom))
	if err != nil {
		return atom
	}
	return strconv.Itoa(n)
}

// stringSet builds a membership set.
func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// cellValues returns the value atoms of a cell. In update files each atom is
// a directive: delete directives and whole-field deletes contribute nothing,
// add/replace contribute their value.
func cellValues(cell string, isUpdate bool) []string {
	if !isUpdate {
		return pstrings.Atoms(cell)
	}
	var values []string
	for _, op := range record.ParseOps(cell) {
		if op.Kind == record.OpDelete || op.Kind == "" || record.IsDeleteAll(op.Value) {
			continue
		}
		values = append(values, op.Value)
	}
	return values
}

// nameFields are the canonical keys whose atoms carry language tags in
// tabular form.
var nameFields = map[string]bool{
	record.FieldRORDisplay: true,
	record.FieldLabel:      true,
	record.FieldAlias:      true,
	record.FieldAcronym:    true,
}
