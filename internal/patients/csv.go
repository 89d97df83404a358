package patients

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
)

// CSVDirectory reads patients from a CSV file with a header row containing
// at least the columns Name, DOB, ID, Doctor, PatientType, Email, Phone.
type CSVDirectory struct {
	path string
}

// NewCSVDirectory creates a directory backed by the given CSV file. The
// file does not need to exist; lookups against a missing file simply
// resolve to the new-patient default.
func NewCSVDirectory(path string) *CSVDirectory {
	return &CSVDirectory{path: path}
}

// Lookup scans the file for rows matching (name, dob). Any read or parse
// failure degrades to the new-patient default.
func (d *CSVDirectory) Lookup(ctx context.Context, name, dob string) (*LookupResult, error) {
	records, err := d.readAll()
	if err != nil {
		return NewPatientResult(), nil
	}

	var found []*Record
	for _, rec := range records {
		if matches(rec, name, dob) {
			found = append(found, rec)
		}
	}
	return resolve(found), nil
}

func (d *CSVDirectory) readAll() ([]*Record, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	col := indexColumns(rows[0])
	records := make([]*Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, &Record{
			ID:             field(row, col, "ID"),
			Name:           field(row, col, "Name"),
			DateOfBirth:    field(row, col, "DOB"),
			Email:          field(row, col, "Email"),
			Phone:          field(row, col, "Phone"),
			AssignedDoctor: field(row, col, "Doctor"),
			PatientType:    PatientType(field(row, col, "PatientType")),
		})
	}
	return records, nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
