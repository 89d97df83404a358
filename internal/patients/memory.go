package patients

import "context"

// MemoryDirectory is a fixed in-memory directory for tests and local runs.
type MemoryDirectory struct {
	records []*Record
}

// NewMemoryDirectory creates a directory over the given records.
func NewMemoryDirectory(records ...*Record) *MemoryDirectory {
	return &MemoryDirectory{records: records}
}

// Lookup resolves (name, dob) against the in-memory records.
func (d *MemoryDirectory) Lookup(ctx context.Context, name, dob string) (*LookupResult, error) {
	var found []*Record
	for _, rec := range d.records {
		if matches(rec, name, dob) {
			found = append(found, rec)
		}
	}
	return resolve(found), nil
}
