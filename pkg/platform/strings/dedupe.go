// Package strings provides string manipulation utilities for multi-valued
// registry cells.
package strings

import (
	"strings"
)

// Atoms splits a semicolon-separated cell into trimmed atoms, dropping the
// empty ones. An empty cell yields an empty slice.
//
// Example:
//
//	Atoms("foo; bar ;;baz")
//	// Returns: []string{"foo", "bar", "baz"}
func Atoms(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}

	parts := strings.Split(cell, ";")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}

	return result
}

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// StripLang removes the trailing "*<lang>" language tag from a name atom.
// Atoms without a tag are returned unchanged.
//
// Example:
//
//	StripLang("Universität Wien*de")
//	// Returns: "Universität Wien"
func StripLang(atom string) string {
	i := strings.LastIndex(atom, "*")
	if i < 0 {
		return atom
	}
	tag := atom[i+1:]
	if len(tag) < 2 {
		return atom
	}
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return atom
		}
	}
	return atom[:i]
}
