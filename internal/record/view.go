package record

import (
	"strconv"

	pstrings "rorcheck/pkg/platform/strings"
)

// Canonical field keys. The dotted paths double as the tabular column names,
// which are the authoritative schema.
const (
	FieldID          = "id"
	FieldHTMLURL     = "html_url"
	FieldStatus      = "status"
	FieldTypes       = "types"
	FieldEstablished = "established"
	FieldDomains     = "domains"
	FieldRORDisplay  = "names.types.ror_display"
	FieldLabel       = "names.types.label"
	FieldAlias       = "names.types.alias"
	FieldAcronym     = "names.types.acronym"
	FieldWebsite     = "links.type.website"
	FieldWikipedia   = "links.type.wikipedia"
	FieldGeonamesID  = "locations.geonames_id"
	FieldCity        = "city"
	FieldCountry     = "country"
	FieldUpdateField = "update_field"
)

// ExternalIDTypes enumerates the identifier namespaces in column order.
var ExternalIDTypes = []string{"isni", "wikidata", "fundref", "grid"}

// ExternalIDField builds the canonical key for an identifier slot.
// slot is "preferred" or "all".
func ExternalIDField(idType, slot string) string {
	return "external_ids.type." + idType + "." + slot
}

// ViewFields lists the canonical keys of a view in schema order.
var ViewFields = func() []string {
	fields := []string{
		FieldID,
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
		FieldGeonamesID,
	}
	for _, t := range ExternalIDTypes {
		fields = append(fields, ExternalIDField(t, "preferred"), ExternalIDField(t, "all"))
	}
	return fields
}()

// View is the canonical projection of a record: dotted-path keys, each
// mapped to a list of strings. Singleton fields hold lists of length 0 or 1.
type View map[string][]string

// All flattens every non-empty atomic value of the view into one list.
func (v View) All() []string {
	var all []string
	for _, field := range ViewFields {
		for _, value := range v[field] {
			if value != "" {
				all = append(all, value)
			}
		}
	}
	return all
}

// Contains reports whether any field of the view holds value.
func (v View) Contains(value string) bool {
	for _, field := range ViewFields {
		for _, held := range v[field] {
			if held == value {
				return true
			}
		}
	}
	return false
}

// Inverted maps every non-empty atomic value to the list of fields holding
// it, in schema order.
func (v View) Inverted() map[string][]string {
	inv := make(map[string][]string)
	for _, field := range ViewFields {
		for _, value := range v[field] {
			if value == "" {
				continue
			}
			inv[value] = append(inv[value], field)
		}
	}
	return inv
}

// TreeView projects a tree record onto the canonical keys. Numbers are
// rendered as strings; name values are stored without language tags, as the
// tree format carries the tag in a separate attribute.
func TreeView(r *Record) View {
	v := View{}
	if r.ID != "" {
		v[FieldID] = []string{r.ID}
	}
	if r.Status != "" {
		v[FieldStatus] = []string{r.Status}
	}
	v[FieldTypes] = append([]string(nil), r.Types...)
	if r.Established != nil {
		v[FieldEstablished] = []string{strconv.Itoa(*r.Established)}
	}
	v[FieldDomains] = append([]string(nil), r.Domains...)

	nameField := map[string]string{
		"ror_display": FieldRORDisplay,
		"label":       FieldLabel,
		"alias":       FieldAlias,
		"acronym":     FieldAcronym,
	}
	for _, n := range r.Names {
		for _, t := range n.Types {
			if field, ok := nameField[t]; ok {
				v[field] = append(v[field], n.Value)
			}
		}
	}

	for _, l := range r.Links {
		switch l.Type {
		case "website":
			v[FieldWebsite] = append(v[FieldWebsite], l.Value)
		case "wikipedia":
			v[FieldWikipedia] = append(v[FieldWikipedia], l.Value)
		}
	}

	for _, loc := range r.Locations {
		if loc.GeonamesID != 0 {
			v[FieldGeonamesID] = append(v[FieldGeonamesID], strconv.Itoa(loc.GeonamesID))
		}
	}

	for _, group := range r.ExternalIDs {
		if group.Preferred != "" {
			v[ExternalIDField(group.Type, "preferred")] = append(v[ExternalIDField(group.Type, "preferred")], group.Preferred)
		}
		for _, id := range group.All {
			v[ExternalIDField(group.Type, "all")] = append(v[ExternalIDField(group.Type, "all")], id)
		}
	}

	return v
}

// RowView projects a tabular row onto the same canonical keys. Cells are
// split on ';' and trimmed; empty cells yield empty lists.
func RowView(row Row) View {
	v := View{}
	for _, field := range ViewFields {
		cell, ok := row[field]
		if !ok {
			continue
		}
		v[field] = pstrings.Atoms(cell)
	}
	return v
}
