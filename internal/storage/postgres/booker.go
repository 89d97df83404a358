package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medicare-clinic/scheduling-platform/internal/appointments"
	"github.com/medicare-clinic/scheduling-platform/internal/availability"
)

// PgxPool is the subset of pgxpool.Pool the booker needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBooker reserves a slot and appends the ledger row in one transaction,
// so a crash between the two steps can never consume a slot without a
// corresponding record. The doctor's availability row stays locked for the
// duration, which also serializes racing bookings for the same doctor at
// the database.
type TxBooker struct {
	pool PgxPool
}

// NewTxBooker creates a transactional booker over the given pool.
func NewTxBooker(pool PgxPool) *TxBooker {
	if pool == nil {
		panic("postgres: pgx pool required")
	}
	return &TxBooker{pool: pool}
}

const reserveHeadSQL = `
	WITH head AS (
		SELECT doctor, slots[1] AS slot
		FROM doctor_availability
		WHERE doctor = $1 AND cardinality(slots) > 0
		FOR UPDATE
	)
	UPDATE doctor_availability a
	SET slots = a.slots[2:], updated_at = now()
	FROM head
	WHERE a.doctor = head.doctor
	RETURNING head.slot
`

const insertAppointmentSQL = `
	INSERT INTO appointments (id, doctor, slot, patient_type, insurance_carrier, insurance_member_id, insurance_group_number)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// BookAtomic fills rec.Slot with the doctor's head slot and inserts the
// row, atomically. Returns availability.ErrUnavailable when the doctor is
// unknown or drained.
func (b *TxBooker) BookAtomic(ctx context.Context, rec appointments.Record) (string, error) {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("postgres: begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var slot string
	if err := tx.QueryRow(ctx, reserveHeadSQL, rec.Doctor).Scan(&slot); err != nil {
		if err == pgx.ErrNoRows {
			return "", availability.ErrUnavailable
		}
		return "", fmt.Errorf("postgres: reserve slot: %w", err)
	}

	if _, err := tx.Exec(ctx, insertAppointmentSQL,
		rec.ID,
		rec.Doctor,
		slot,
		rec.PatientType,
		rec.InsuranceCarrier,
		rec.InsuranceMemberID,
		rec.InsuranceGroupNumber,
	); err != nil {
		return "", fmt.Errorf("postgres: record appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("postgres: commit booking: %w", err)
	}
	return slot, nil
}
