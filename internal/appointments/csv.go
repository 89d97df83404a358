package appointments

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/medicare-clinic/scheduling-platform/internal/patients"
)

var csvHeader = []string{"ID", "Doctor", "Slot", "PatientType", "InsuranceCarrier", "MemberID", "GroupNumber"}

// CSVLedger appends booking rows to a CSV file. The file is created with
// its header on first append. Amendments rewrite the whole table under the
// ledger's mutex.
type CSVLedger struct {
	mu   sync.Mutex
	path string
}

// NewCSVLedger creates a ledger backed by the given CSV file.
func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{path: path}
}

// Append adds one row, creating the file with its header if needed.
func (l *CSVLedger) Append(ctx context.Context, rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	needHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		needHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("appointments: open ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("appointments: write header: %w", err)
		}
	}
	if err := w.Write(toRow(rec)); err != nil {
		return fmt.Errorf("appointments: append row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("appointments: append row: %w", err)
	}
	return nil
}

// UpdateInsurance rewrites the table with the amended row.
func (l *CSVLedger) UpdateInsurance(ctx context.Context, id, carrier, memberID, groupNumber string) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.readAll()
	if err != nil {
		return nil, ErrRecordNotFound
	}

	var updated *Record
	for i := range records {
		if records[i].ID == id {
			records[i].InsuranceCarrier = carrier
			records[i].InsuranceMemberID = memberID
			records[i].InsuranceGroupNumber = groupNumber
			updated = &records[i]
			break
		}
	}
	if updated == nil {
		return nil, ErrRecordNotFound
	}
	if err := l.writeAll(records); err != nil {
		return nil, fmt.Errorf("appointments: persist amendment: %w", err)
	}
	out := *updated
	return &out, nil
}

// List returns all rows in append order; a missing or unreadable file
// yields an empty list, never an error.
func (l *CSVLedger) List(ctx context.Context) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.readAll()
	if err != nil {
		return nil, nil
	}
	return records, nil
}

func (l *CSVLedger) readAll() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []Record
	for i, row := range rows {
		if i == 0 || len(row) < len(csvHeader) {
			continue
		}
		records = append(records, Record{
			ID:                   row[0],
			Doctor:               row[1],
			Slot:                 row[2],
			PatientType:          patients.PatientType(row[3]),
			InsuranceCarrier:     row[4],
			InsuranceMemberID:    row[5],
			InsuranceGroupNumber: row[6],
		})
	}
	return records, nil
}

func (l *CSVLedger) writeAll(records []Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), "appointments-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, rec := range records {
		if err := w.Write(toRow(rec)); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), l.path)
}

func toRow(rec Record) []string {
	return []string{
		rec.ID,
		rec.Doctor,
		rec.Slot,
		string(rec.PatientType),
		rec.InsuranceCarrier,
		rec.InsuranceMemberID,
		rec.InsuranceGroupNumber,
	}
}
