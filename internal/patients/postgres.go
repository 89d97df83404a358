package patients

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the directory needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresDirectory reads patients from the relational database.
type PostgresDirectory struct {
	pool PgxPool
}

// NewPostgresDirectory initializes a directory backed by pgxpool.
func NewPostgresDirectory(pool PgxPool) *PostgresDirectory {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresDirectory{pool: pool}
}

// Lookup resolves (name, dob) against the patients table. The duplicate
// tie-break is pushed into the query: numeric IDs order numerically ahead
// of non-numeric ones, blank IDs last. Query failures degrade to the
// new-patient default, matching the unreadable-source contract.
func (d *PostgresDirectory) Lookup(ctx context.Context, name, dob string) (*LookupResult, error) {
	query := `
		SELECT id, assigned_doctor, patient_type, email, phone
		FROM patients
		WHERE lower(name) = lower($1) AND dob = $2
		ORDER BY
			NULLIF(id, '') IS NULL,
			id !~ '^[0-9]+$',
			CASE WHEN id ~ '^[0-9]+$' THEN id::bigint END,
			id
		LIMIT 1
	`
	var res LookupResult
	err := d.pool.QueryRow(ctx, query, name, dob).Scan(
		&res.ID,
		&res.Doctor,
		&res.PatientType,
		&res.Email,
		&res.Phone,
	)
	if err == pgx.ErrNoRows {
		return NewPatientResult(), nil
	}
	if err != nil {
		return NewPatientResult(), nil
	}
	res.Found = true
	return &res, nil
}
