// Package booking coordinates slot reservation and ledger commits so that
// one request yields at most one appointment.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/medicare-clinic/scheduling-platform/internal/appointments"
	"github.com/medicare-clinic/scheduling-platform/internal/availability"
	"github.com/medicare-clinic/scheduling-platform/internal/observability/metrics"
	"github.com/medicare-clinic/scheduling-platform/internal/patients"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

var (
	// ErrNoSlots is the "no booking made" outcome: the chosen doctor has
	// no open slot. Recoverable — the caller picks a different doctor.
	ErrNoSlots = errors.New("no available slots for doctor")

	// ErrInvalidRequest is returned when the request is missing a doctor
	// or patient type.
	ErrInvalidRequest = errors.New("doctor and patient type are required")
)

// Durations of an appointment by patient type. This is the entire duration
// policy; there is no per-doctor or per-procedure variation.
const (
	NewPatientDuration       = 60
	ReturningPatientDuration = 30
)

// DurationFor returns the appointment length in minutes.
func DurationFor(pt patients.PatientType) int {
	if pt == patients.TypeNew {
		return NewPatientDuration
	}
	return ReturningPatientDuration
}

// BookRequest carries everything needed to book one appointment.
type BookRequest struct {
	Doctor      string               `json:"doctor"`
	PatientType patients.PatientType `json:"patient_type"`
	Insurance   *patients.Insurance  `json:"insurance,omitempty"`
}

// Confirmation is returned to the caller once the booking is durably
// recorded.
type Confirmation struct {
	BookingID       string `json:"booking_id"`
	Doctor          string `json:"doctor"`
	Slot            string `json:"slot"`
	DurationMinutes int    `json:"duration_minutes"`
}

// AtomicBooker reserves the head slot and appends the ledger row in a
// single transaction. Stores that support it (Postgres) close the crash
// window between reservation and append entirely. The record's Slot field
// is filled by the implementation.
type AtomicBooker interface {
	BookAtomic(ctx context.Context, rec appointments.Record) (slot string, err error)
}

// Service orchestrates one booking: allocate a slot, compute the duration,
// record the appointment. It owns neither store; it owns only the per-
// doctor critical section and the transient pairing for one booking.
type Service struct {
	inventory availability.Inventory
	ledger    appointments.Ledger
	atomic    AtomicBooker
	locks     *keyedMutex
	locker    Locker
	logger    *logging.Logger
	metrics   *metrics.BookingMetrics
	tracer    trace.Tracer
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithAtomicBooker routes bookings through a transactional store.
func WithAtomicBooker(a AtomicBooker) Option {
	return func(s *Service) { s.atomic = a }
}

// WithLocker layers a cross-process lock over the in-process one.
func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithMetrics attaches booking metrics.
func WithMetrics(m *metrics.BookingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs a booking service.
func NewService(inventory availability.Inventory, ledger appointments.Ledger, logger *logging.Logger, opts ...Option) *Service {
	if inventory == nil {
		panic("booking: inventory required")
	}
	if ledger == nil {
		panic("booking: ledger required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		inventory: inventory,
		ledger:    ledger,
		locks:     newKeyedMutex(),
		logger:    logger,
		tracer:    otel.Tracer("clinic.internal.booking"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book reserves the doctor's first open slot and appends one ledger row.
// On ErrNoSlots nothing was reserved and nothing was written. The whole
// reserve-then-append sequence runs inside a per-doctor critical section,
// so two callers racing for a doctor's last slot cannot both succeed.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Confirmation, error) {
	if req.Doctor == "" || req.PatientType == "" {
		return nil, ErrInvalidRequest
	}

	ctx, span := s.tracer.Start(ctx, "booking.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.doctor", req.Doctor),
		attribute.String("clinic.patient_type", string(req.PatientType)),
	)

	unlock := s.locks.Lock(req.Doctor)
	defer unlock()
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, req.Doctor)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("booking: doctor lock: %w", err)
		}
		defer release()
	}

	carrier, memberID, groupNumber := appointments.NormalizeInsurance(req.Insurance)
	rec := appointments.Record{
		ID:                   uuid.NewString(),
		Doctor:               req.Doctor,
		PatientType:          req.PatientType,
		InsuranceCarrier:     carrier,
		InsuranceMemberID:    memberID,
		InsuranceGroupNumber: groupNumber,
	}

	start := time.Now()
	slot, err := s.commit(ctx, rec)
	s.metrics.ObserveBookingLatency(time.Since(start).Seconds())

	if errors.Is(err, availability.ErrUnavailable) {
		s.metrics.ObserveBooking(req.Doctor, "unavailable")
		s.logger.Info("no slots available", "doctor", req.Doctor)
		return nil, ErrNoSlots
	}
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking(req.Doctor, "error")
		return nil, err
	}

	s.metrics.ObserveBooking(req.Doctor, "booked")
	s.logger.Info("appointment booked",
		"booking_id", rec.ID,
		"doctor", req.Doctor,
		"slot", slot,
		"patient_type", req.PatientType,
	)
	return &Confirmation{
		BookingID:       rec.ID,
		Doctor:          req.Doctor,
		Slot:            slot,
		DurationMinutes: DurationFor(req.PatientType),
	}, nil
}

// commit runs the reserve-and-append sequence. The transactional path is
// preferred; the two-step path restores the reserved slot when the ledger
// append fails, so a slot is never silently consumed without a record.
func (s *Service) commit(ctx context.Context, rec appointments.Record) (string, error) {
	if s.atomic != nil {
		return s.atomic.BookAtomic(ctx, rec)
	}

	slot, err := s.inventory.ReserveNext(ctx, rec.Doctor)
	if err != nil {
		return "", err
	}
	rec.Slot = slot
	if err := s.ledger.Append(ctx, rec); err != nil {
		if rerr := s.inventory.Restore(ctx, rec.Doctor, slot); rerr != nil {
			s.logger.Error("slot lost: ledger append and restore both failed",
				"doctor", rec.Doctor, "slot", slot, "append_error", err, "restore_error", rerr)
		}
		return "", fmt.Errorf("booking: record appointment: %w", err)
	}
	return slot, nil
}

// AttachInsurance amends the insurance columns of an existing booking. It
// consumes no slot and appends no row; re-running it is harmless.
func (s *Service) AttachInsurance(ctx context.Context, bookingID string, ins *patients.Insurance) (*appointments.Record, error) {
	ctx, span := s.tracer.Start(ctx, "booking.attach_insurance")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.booking_id", bookingID))

	carrier, memberID, groupNumber := appointments.NormalizeInsurance(ins)
	rec, err := s.ledger.UpdateInsurance(ctx, bookingID, carrier, memberID, groupNumber)
	if err != nil {
		if !errors.Is(err, appointments.ErrRecordNotFound) {
			span.RecordError(err)
		}
		s.metrics.ObserveInsuranceUpdate("error")
		return nil, err
	}

	s.metrics.ObserveInsuranceUpdate("amended")
	s.logger.Info("insurance attached", "booking_id", bookingID, "carrier", carrier)
	return rec, nil
}
