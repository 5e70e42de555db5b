// Package patterns holds the compiled field patterns and closed vocabularies
// shared by the validators. It performs no I/O.
package patterns

import "regexp"

var (
	// Acronyms accepts uppercase letters, digits, and spaces only.
	Acronyms = regexp.MustCompile(`^[A-Z0-9 ]+$`)

	// Names requires a language tag suffix: any value followed by '*' and a
	// language code of at least two letters.
	Names = regexp.MustCompile(`^.+\*[a-zA-Z]{2,}$`)

	// URL accepts http or https URLs.
	URL = regexp.MustCompile(`^https?://.+`)

	// WikipediaURL accepts language-subdomain wikipedia URLs, or the literal
	// "delete" used by update directives.
	WikipediaURL = regexp.MustCompile(`^(https?://[a-zA-Z]+\.wikipedia\.org/.+|delete)$`)

	// ISNI is the spaced 16-digit form with an X check digit allowed, plus the
	// optional *preferred marker carried by tabular cells.
	ISNI = regexp.MustCompile(`^(0000 \d{4} \d{4} \d{3}[\dX](\*preferred)?|delete)$`)

	// Wikidata is Q followed by a positive integer.
	Wikidata = regexp.MustCompile(`^(Q[1-9]\d*(\*preferred)?|delete)$`)

	// FundRef and GeoNames identifiers are bare positive integers.
	FundRef  = regexp.MustCompile(`^([1-9]\d*(\*preferred)?|delete)$`)
	GeoNames = regexp.MustCompile(`^([1-9]\d*(\*preferred)?|delete)$`)
)

// ValidStatuses is the closed lifecycle vocabulary.
var ValidStatuses = map[string]bool{
	"active":    true,
	"inactive":  true,
	"withdrawn": true,
}

// ValidTypes is the closed organization-type vocabulary.
var ValidTypes = map[string]bool{
	"education":  true,
	"funder":     true,
	"healthcare": true,
	"company":    true,
	"archive":    true,
	"nonprofit":  true,
	"government": true,
	"facility":   true,
	"other":      true,
}

// ValidRelationshipTypes enumerates the recognized relationship kinds.
var ValidRelationshipTypes = map[string]bool{
	"parent":      true,
	"child":       true,
	"related":     true,
	"predecessor": true,
	"successor":   true,
}
