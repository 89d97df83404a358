package availability

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the inventory needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresInventory stores one keyed row per doctor, so writers for
// different doctors never contend on a whole table.
type PostgresInventory struct {
	pool PgxPool
}

// NewPostgresInventory initializes an inventory backed by pgxpool.
func NewPostgresInventory(pool PgxPool) *PostgresInventory {
	if pool == nil {
		panic("availability: pgx pool required")
	}
	return &PostgresInventory{pool: pool}
}

// reserveNextSQL locks the doctor's row, pops the head slot, and returns
// it, all in one statement.
const reserveNextSQL = `
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

// ReserveNext pops the head slot inside a single row-locked statement.
func (inv *PostgresInventory) ReserveNext(ctx context.Context, doctor string) (string, error) {
	var slot string
	err := inv.pool.QueryRow(ctx, reserveNextSQL, doctor).Scan(&slot)
	if err == pgx.ErrNoRows {
		return "", ErrUnavailable
	}
	if err != nil {
		return "", fmt.Errorf("availability: reserve next: %w", err)
	}
	return slot, nil
}

// Restore prepends a slot to the doctor's sequence, creating the row if it
// does not exist.
func (inv *PostgresInventory) Restore(ctx context.Context, doctor, slot string) error {
	query := `
		INSERT INTO doctor_availability (doctor, slots)
		VALUES ($1, ARRAY[$2])
		ON CONFLICT (doctor)
		DO UPDATE SET slots = array_prepend($2, doctor_availability.slots), updated_at = now()
	`
	if _, err := inv.pool.Exec(ctx, query, doctor, slot); err != nil {
		return fmt.Errorf("availability: restore slot: %w", err)
	}
	return nil
}

// Doctors lists doctors with open slot counts.
func (inv *PostgresInventory) Doctors(ctx context.Context) ([]DoctorSummary, error) {
	query := `
		SELECT doctor, cardinality(slots)
		FROM doctor_availability
		ORDER BY doctor
	`
	rows, err := inv.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("availability: list doctors: %w", err)
	}
	defer rows.Close()

	var out []DoctorSummary
	for rows.Next() {
		var s DoctorSummary
		if err := rows.Scan(&s.Name, &s.OpenSlots); err != nil {
			return nil, fmt.Errorf("availability: scan doctor: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("availability: list doctors: %w", err)
	}
	return out, nil
}

// Slots returns the doctor's current sequence without mutating it.
func (inv *PostgresInventory) Slots(ctx context.Context, doctor string) ([]string, error) {
	query := `SELECT slots FROM doctor_availability WHERE doctor = $1`
	var slots []string
	err := inv.pool.QueryRow(ctx, query, doctor).Scan(&slots)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("availability: read slots: %w", err)
	}
	return slots, nil
}
