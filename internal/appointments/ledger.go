package appointments

import "context"

// Ledger is the append-only store of committed bookings. Append never
// deduplicates and never validates the slot against the inventory; the
// ledger trusts its caller. Rows are never deleted, and only the insurance
// columns of an existing row may change, via UpdateInsurance.
type Ledger interface {
	// Append adds a new row, initializing the store on first use. A
	// storage failure is fatal for the booking attempt and is returned
	// as-is.
	Append(ctx context.Context, rec Record) error

	// UpdateInsurance amends the three insurance columns of the row with
	// the given ID. Unknown IDs yield ErrRecordNotFound.
	UpdateInsurance(ctx context.Context, id, carrier, memberID, groupNumber string) (*Record, error)

	// List returns all rows in append order. A missing or unreadable
	// store yields an empty list, not an error.
	List(ctx context.Context) ([]Record, error)
}
