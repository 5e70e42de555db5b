// Package record defines the registry record model and the projections the
// validators reason about: the canonical dotted-path view over curated
// fields, its inverted and aggregate variants, the exhaustive flat view, and
// the tabular row reader.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Name is a single name entry. A name may carry several types; exactly one
// name on a record carries the ror_display type.
type Name struct {
	Value string   `json:"value"`
	Types []string `json:"types"`
	Lang  string   `json:"lang,omitempty"`
}

// Link is a website or wikipedia reference.
type Link struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// GeonamesDetails carries the denormalized place attributes of a location.
type GeonamesDetails struct {
	Name                   string  `json:"name,omitempty"`
	CountryCode            string  `json:"country_code,omitempty"`
	CountryName            string  `json:"country_name,omitempty"`
	CountrySubdivisionCode string  `json:"country_subdivision_code,omitempty"`
	CountrySubdivisionName string  `json:"country_subdivision_name,omitempty"`
	Lat                    float64 `json:"lat,omitempty"`
	Lng                    float64 `json:"lng,omitempty"`
}

// Location keys a record to the place-ID service. The first location carries
// the authoritative place for the record.
type Location struct {
	GeonamesID      int             `json:"geonames_id"`
	GeonamesDetails GeonamesDetails `json:"geonames_details"`
}

// ExternalID groups identifiers of one namespace: the full list plus an
// optional preferred singleton.
type ExternalID struct {
	Type      string   `json:"type"`
	All       []string `json:"all"`
	Preferred string   `json:"preferred,omitempty"`
}

// Relationship links this record to a peer record.
type Relationship struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Stamp is a created/last-modified marker. Opaque to validation beyond its
// existence.
type Stamp struct {
	Date          string `json:"date"`
	SchemaVersion string `json:"schema_version"`
}

// Admin carries the record stamps.
type Admin struct {
	Created      Stamp `json:"created"`
	LastModified Stamp `json:"last_modified"`
}

// Record is one organization in tree form.
type Record struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Types         []string       `json:"types"`
	Established   *int           `json:"established"`
	Names         []Name         `json:"names"`
	Links         []Link         `json:"links"`
	Locations     []Location     `json:"locations"`
	ExternalIDs   []ExternalID   `json:"external_ids"`
	Relationships []Relationship `json:"relationships"`
	Domains       []string       `json:"domains,omitempty"`
	Admin         Admin          `json:"admin"`
}

// IDSuffix returns the last path component of the record's ID URI, which is
// also the basename of its tree document.
func (r *Record) IDSuffix() string {
	return IDSuffix(r.ID)
}

// DisplayName returns the value of the name carrying the ror_display type,
// or the first name when none does.
func (r *Record) DisplayName() string {
	for _, n := range r.Names {
		for _, t := range n.Types {
			if t == "ror_display" {
				return n.Value
			}
		}
	}
	if len(r.Names) > 0 {
		return r.Names[0].Value
	}
	return ""
}

// CountryCode returns the country code of the first location, or "" when no
// location carries one.
func (r *Record) CountryCode() string {
	if len(r.Locations) == 0 {
		return ""
	}
	return r.Locations[0].GeonamesDetails.CountryCode
}

// IDSuffix returns the last path component of a record ID URI.
func IDSuffix(id string) string {
	id = strings.TrimSuffix(strings.TrimSpace(id), "/")
	i := strings.LastIndex(id, "/")
	if i < 0 {
		return id
	}
	return id[i+1:]
}

// Parse decodes a single tree document.
func Parse(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &r, nil
}

// LoadFile reads and decodes one tree document.
func LoadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return r, nil
}

// ListTreeFiles returns the .json files under dir, lexicographically sorted.
// Validators iterate tree input in this order.
func ListTreeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
