// Package baseline loads and indexes the last released snapshot of all
// registry records. The snapshot is loaded once per run and shared read-only
// by every check.
package baseline

import (
	"rorcheck/internal/record"
)

// DataSource is the in-memory index over the baseline snapshot. Lookups by
// ID are O(1); reverse-relationship queries scan.
type DataSource struct {
	records []*record.Record
	byID    map[string]*record.Record
}

// New indexes the given records.
func New(records []*record.Record) *DataSource {
	byID := make(map[string]*record.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return &DataSource{records: records, byID: byID}
}

// Get returns the record with the given ID.
func (d *DataSource) Get(id string) (*record.Record, bool) {
	r, ok := d.byID[id]
	return r, ok
}

// Exists reports whether a record with the given ID is in the snapshot.
func (d *DataSource) Exists(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// IDs enumerates the known record IDs in snapshot order.
func (d *DataSource) IDs() []string {
	ids := make([]string, len(d.records))
	for i, r := range d.records {
		ids[i] = r.ID
	}
	return ids
}

// All enumerates every record in snapshot order. Callers must not mutate the
// returned records.
func (d *DataSource) All() []*record.Record {
	return d.records
}

// RelatedTo returns the records that list id as a relationship peer.
func (d *DataSource) RelatedTo(id string) []*record.Record {
	var related []*record.Record
	for _, r := range d.records {
		for _, rel := range r.Relationships {
			if rel.ID == id {
				related = append(related, r)
				break
			}
		}
	}
	return related
}

// Len returns the number of records in the snapshot.
func (d *DataSource) Len() int {
	return len(d.records)
}
