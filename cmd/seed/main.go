// Command seed resets the patient directory and doctor availability to a
// known demo dataset, for either storage backend.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	appconfig "github.com/medicare-clinic/scheduling-platform/internal/config"
	"github.com/medicare-clinic/scheduling-platform/internal/storage/postgres"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

type seedPatient struct {
	id, name, dob, doctor, patientType, email, phone string
}

type seedDoctor struct {
	name  string
	slots []string
}

var seedPatients = []seedPatient{
	{"P001", "Jane Doe", "1990-01-15", "Dr. Smith", "Returning", "jane.doe@example.com", "555-0101"},
	{"P002", "John Roe", "1985-06-30", "Dr. Johnson", "Returning", "john.roe@example.com", "555-0102"},
	{"P003", "Ava Chen", "2001-11-02", "Dr. Lee", "New", "ava.chen@example.com", "555-0103"},
}

var seedDoctors = []seedDoctor{
	{"Dr. Smith", []string{"2025-09-01 09:00", "2025-09-01 10:00", "2025-09-01 11:00"}},
	{"Dr. Johnson", []string{"2025-09-01 09:30", "2025-09-01 13:00"}},
	{"Dr. Lee", []string{"2025-09-02 08:00", "2025-09-02 09:00", "2025-09-02 10:00"}},
}

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	var err error
	switch cfg.StorageBackend {
	case appconfig.BackendPostgres:
		err = seedPostgres(context.Background(), cfg.DatabaseURL)
	case appconfig.BackendCSV:
		err = seedCSV(cfg.DataDir)
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		logger.Error("seed failed", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}

	logger.Info("seed complete",
		"backend", cfg.StorageBackend,
		"patients", len(seedPatients),
		"doctors", len(seedDoctors),
	)
}

func seedCSV(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	patientRows := [][]string{{"Name", "DOB", "ID", "Doctor", "PatientType", "Email", "Phone"}}
	for _, p := range seedPatients {
		patientRows = append(patientRows, []string{p.name, p.dob, p.id, p.doctor, p.patientType, p.email, p.phone})
	}
	if err := writeCSV(filepath.Join(dataDir, "patients.csv"), patientRows); err != nil {
		return err
	}

	doctorRows := [][]string{{"Doctor", "Available Slots"}}
	for _, d := range seedDoctors {
		doctorRows = append(doctorRows, []string{d.name, strings.Join(d.slots, ", ")})
	}
	return writeCSV(filepath.Join(dataDir, "availability.csv"), doctorRows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func seedPostgres(ctx context.Context, databaseURL string) error {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	for _, p := range seedPatients {
		_, err := pool.Exec(ctx, `
			INSERT INTO patients (id, name, dob, assigned_doctor, patient_type, email, phone)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				dob = EXCLUDED.dob,
				assigned_doctor = EXCLUDED.assigned_doctor,
				patient_type = EXCLUDED.patient_type,
				email = EXCLUDED.email,
				phone = EXCLUDED.phone`,
			p.id, p.name, p.dob, p.doctor, p.patientType, p.email, p.phone)
		if err != nil {
			return fmt.Errorf("seed patient %s: %w", p.id, err)
		}
	}

	for _, d := range seedDoctors {
		_, err := pool.Exec(ctx, `
			INSERT INTO doctor_availability (doctor, slots)
			VALUES ($1, $2)
			ON CONFLICT (doctor) DO UPDATE SET slots = EXCLUDED.slots, updated_at = now()`,
			d.name, d.slots)
		if err != nil {
			return fmt.Errorf("seed doctor %s: %w", d.name, err)
		}
	}

	return nil
}
