package availability

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when a doctor is unknown or has no open
	// slots. No slot is reserved and no state is mutated.
	ErrUnavailable = errors.New("no available slot for doctor")
)

// DoctorSummary describes one doctor's remaining capacity.
type DoctorSummary struct {
	Name      string `json:"name"`
	OpenSlots int    `json:"open_slots"`
}

// Inventory holds, per doctor, an ordered sequence of open appointment
// slots. Slots are opaque labels; the stored order is the offer order, and
// reservation always removes the head of the sequence (FIFO).
//
// ReserveNext must durably persist the removal before returning, so a
// subsequent call can never re-offer the same slot. ReserveNext alone is
// not safe under concurrent invocation for the same doctor; callers
// (booking.Service) serialize per doctor.
type Inventory interface {
	// ReserveNext removes and returns the first slot of the doctor's
	// sequence, or ErrUnavailable.
	ReserveNext(ctx context.Context, doctor string) (string, error)

	// Restore pushes a slot back onto the front of the doctor's sequence.
	// Used to compensate when the ledger append fails after a reservation.
	Restore(ctx context.Context, doctor, slot string) error

	// Doctors lists doctors with their open slot counts. Read-only.
	Doctors(ctx context.Context) ([]DoctorSummary, error)

	// Slots returns the doctor's current sequence in stored order, without
	// mutating it. Unknown doctors yield an empty sequence.
	Slots(ctx context.Context, doctor string) ([]string, error)
}
