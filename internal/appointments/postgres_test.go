package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/medicare-clinic/scheduling-platform/internal/patients"
)

func TestPostgresAppend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	ledger := &PostgresLedger{pool: mock}
	mock.ExpectExec("INSERT INTO appointments").
		WithArgs("b1", "Dr. Lee", "2025-09-06 09:30", patients.TypeNew, NA, NA, NA).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = ledger.Append(context.Background(), Record{
		ID:                   "b1",
		Doctor:               "Dr. Lee",
		Slot:                 "2025-09-06 09:30",
		PatientType:          patients.TypeNew,
		InsuranceCarrier:     NA,
		InsuranceMemberID:    NA,
		InsuranceGroupNumber: NA,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateInsuranceNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	ledger := &PostgresLedger{pool: mock}
	mock.ExpectQuery("UPDATE appointments").
		WithArgs("nope", "X", "Y", "Z").
		WillReturnError(pgx.ErrNoRows)

	if _, err := ledger.UpdateInsurance(context.Background(), "nope", "X", "Y", "Z"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPostgresList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	ledger := &PostgresLedger{pool: mock}
	mock.ExpectQuery("SELECT id, doctor, slot, patient_type").
		WillReturnRows(pgxmock.NewRows([]string{"id", "doctor", "slot", "patient_type", "insurance_carrier", "insurance_member_id", "insurance_group_number"}).
			AddRow("b1", "Dr. Lee", "2025-09-06 09:30", "New", NA, NA, NA))

	records, err := ledger.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].Doctor != "Dr. Lee" {
		t.Errorf("unexpected records: %+v", records)
	}
}
