package availability

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const slotSeparator = ", "

// CSVInventory stores per-doctor slot sequences in a two-column CSV file
// (Doctor, Available Slots), where the slots column is one comma-and-space
// joined string. Every reservation rewrites the whole file; a mutex keeps
// the read-modify-write cycle race-free within the process.
type CSVInventory struct {
	mu   sync.Mutex
	path string
}

// NewCSVInventory creates an inventory backed by the given CSV file.
func NewCSVInventory(path string) *CSVInventory {
	return &CSVInventory{path: path}
}

type doctorRow struct {
	doctor string
	slots  []string
}

// ReserveNext pops the head slot for the doctor and persists the shortened
// sequence before returning.
func (inv *CSVInventory) ReserveNext(ctx context.Context, doctor string) (string, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	rows, err := inv.readAll()
	if err != nil {
		return "", ErrUnavailable
	}

	for i, row := range rows {
		if row.doctor != doctor {
			continue
		}
		if len(row.slots) == 0 {
			return "", ErrUnavailable
		}
		reserved := row.slots[0]
		rows[i].slots = row.slots[1:]
		if err := inv.writeAll(rows); err != nil {
			return "", fmt.Errorf("availability: persist reservation: %w", err)
		}
		return reserved, nil
	}
	return "", ErrUnavailable
}

// Restore pushes a slot back onto the front of the doctor's sequence.
func (inv *CSVInventory) Restore(ctx context.Context, doctor, slot string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	// A missing file starts an empty table, but any other read failure
	// must not be compensated by a rewrite that would drop every other
	// doctor's slots.
	rows, err := inv.readAll()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("availability: read for restore: %w", err)
	}

	replaced := false
	for i, row := range rows {
		if row.doctor == doctor {
			rows[i].slots = append([]string{slot}, row.slots...)
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, doctorRow{doctor: doctor, slots: []string{slot}})
	}
	if err := inv.writeAll(rows); err != nil {
		return fmt.Errorf("availability: persist restore: %w", err)
	}
	return nil
}

// Doctors lists all doctors in stored order with their open slot counts.
// A missing or unreadable file yields an empty roster, so callers can
// serve their configured fallback list instead of failing.
func (inv *CSVInventory) Doctors(ctx context.Context) ([]DoctorSummary, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	rows, err := inv.readAll()
	if err != nil {
		return nil, nil
	}
	out := make([]DoctorSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, DoctorSummary{Name: row.doctor, OpenSlots: len(row.slots)})
	}
	return out, nil
}

// Slots returns the doctor's sequence without mutating it.
func (inv *CSVInventory) Slots(ctx context.Context, doctor string) ([]string, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	rows, err := inv.readAll()
	if err != nil {
		return nil, nil
	}
	for _, row := range rows {
		if row.doctor == doctor {
			return append([]string(nil), row.slots...), nil
		}
	}
	return nil, nil
}

func (inv *CSVInventory) readAll() ([]doctorRow, error) {
	f, err := os.Open(inv.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var rows []doctorRow
	for i, rec := range records {
		if i == 0 || len(rec) == 0 {
			continue
		}
		row := doctorRow{doctor: strings.TrimSpace(rec[0])}
		if len(rec) > 1 {
			row.slots = splitSlots(rec[1])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeAll rewrites the whole table via a temp file and rename, so readers
// never observe a partially written snapshot.
func (inv *CSVInventory) writeAll(rows []doctorRow) error {
	tmp, err := os.CreateTemp(filepath.Dir(inv.path), "doctors-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{"Doctor", "Available Slots"}); err != nil {
		tmp.Close()
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.doctor, strings.Join(row.slots, slotSeparator)}); err != nil {
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
	return os.Rename(tmp.Name(), inv.path)
}

func splitSlots(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	slots := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			slots = append(slots, trimmed)
		}
	}
	return slots
}
