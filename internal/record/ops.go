package record

import (
	"strings"

	pstrings "rorcheck/pkg/platform/strings"
)

// Update operations.
const (
	OpAdd     = "add"
	OpDelete  = "delete"
	OpReplace = "replace"
)

// IsDeleteAll reports whether value is the form that deletes an entire
// field when paired with a replace op.
func IsDeleteAll(value string) bool {
	return value == "delete" || value == "Delete"
}

// Op is one targeted-edit directive from an update row.
type Op struct {
	Kind  string
	Value string
}

// HasDirectives reports whether any cell of the batch uses targeted-edit
// syntax: an explicit "==" directive or a whole-field delete. New-record
// batches carry literal values only.
func HasDirectives(rows []Row) bool {
	for _, row := range rows {
		for col, cell := range row {
			if col == FieldID {
				continue
			}
			for _, atom := range pstrings.Atoms(cell) {
				if strings.Contains(atom, "==") || IsDeleteAll(atom) {
					return true
				}
			}
		}
	}
	return false
}

// ParseOps decomposes an update cell into directives. Each atom is shaped
// <op>==<value>; a bare value parses as replace. The tolerated legacy form
// "op.<fieldname>==<value>" is reduced to its op token first. Atoms whose op
// token is not recognized come back with Kind "" so callers can surface them
// as malformed.
func ParseOps(cell string) []Op {
	var ops []Op
	for _, atom := range pstrings.Atoms(cell) {
		op, value, found := strings.Cut(atom, "==")
		if !found {
			ops = append(ops, Op{Kind: OpReplace, Value: strings.TrimSpace(atom)})
			continue
		}
		op = strings.TrimSpace(op)
		// Strip the legacy "op.fieldname" qualifier.
		if i := strings.Index(op, "."); i >= 0 {
			op = op[:i]
		}
		value = strings.TrimSpace(value)
		switch op {
		case OpAdd, OpDelete, OpReplace:
			ops = append(ops, Op{Kind: op, Value: value})
		default:
			ops = append(ops, Op{Kind: "", Value: atom})
		}
	}
	return ops
}
