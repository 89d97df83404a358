package appointments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the ledger needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresLedger stores booking rows in the appointments table.
type PostgresLedger struct {
	pool PgxPool
}

// NewPostgresLedger initializes a ledger backed by pgxpool.
func NewPostgresLedger(pool PgxPool) *PostgresLedger {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresLedger{pool: pool}
}

const insertSQL = `
	INSERT INTO appointments (id, doctor, slot, patient_type, insurance_carrier, insurance_member_id, insurance_group_number)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Append inserts one row.
func (l *PostgresLedger) Append(ctx context.Context, rec Record) error {
	if _, err := l.pool.Exec(ctx, insertSQL,
		rec.ID,
		rec.Doctor,
		rec.Slot,
		rec.PatientType,
		rec.InsuranceCarrier,
		rec.InsuranceMemberID,
		rec.InsuranceGroupNumber,
	); err != nil {
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// UpdateInsurance amends the insurance columns of one row.
func (l *PostgresLedger) UpdateInsurance(ctx context.Context, id, carrier, memberID, groupNumber string) (*Record, error) {
	query := `
		UPDATE appointments
		SET insurance_carrier = $2, insurance_member_id = $3, insurance_group_number = $4
		WHERE id = $1
		RETURNING id, doctor, slot, patient_type, insurance_carrier, insurance_member_id, insurance_group_number
	`
	var rec Record
	err := l.pool.QueryRow(ctx, query, id, carrier, memberID, groupNumber).Scan(
		&rec.ID,
		&rec.Doctor,
		&rec.Slot,
		&rec.PatientType,
		&rec.InsuranceCarrier,
		&rec.InsuranceMemberID,
		&rec.InsuranceGroupNumber,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: update insurance: %w", err)
	}
	return &rec, nil
}

// List returns all rows in append order.
func (l *PostgresLedger) List(ctx context.Context) ([]Record, error) {
	query := `
		SELECT id, doctor, slot, patient_type, insurance_carrier, insurance_member_id, insurance_group_number
		FROM appointments
		ORDER BY created_at, id
	`
	rows, err := l.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.Doctor,
			&rec.Slot,
			&rec.PatientType,
			&rec.InsuranceCarrier,
			&rec.InsuranceMemberID,
			&rec.InsuranceGroupNumber,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	return records, nil
}
