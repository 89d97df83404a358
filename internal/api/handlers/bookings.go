package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medicare-clinic/scheduling-platform/internal/appointments"
	"github.com/medicare-clinic/scheduling-platform/internal/booking"
	"github.com/medicare-clinic/scheduling-platform/internal/patients"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

// BookingHandler serves booking creation and insurance amendment.
type BookingHandler struct {
	service *booking.Service
	logger  *logging.Logger
}

// NewBookingHandler creates a booking HTTP handler.
func NewBookingHandler(service *booking.Service, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{service: service, logger: logger}
}

// Routes returns a chi router with booking routes.
func (h *BookingHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Put("/{bookingID}/insurance", h.AttachInsurance)
	return r
}

// Create books the next open slot for a doctor.
// POST /bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req booking.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	conf, err := h.service.Book(r.Context(), req)
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		http.Error(w, `{"error": "doctor and patient_type are required"}`, http.StatusBadRequest)
		return
	case errors.Is(err, booking.ErrNoSlots):
		http.Error(w, `{"error": "no available slots for this doctor"}`, http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("booking failed", "doctor", req.Doctor, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(conf); err != nil {
		h.logger.Error("failed to encode confirmation", "error", err)
	}
}

// AttachInsuranceRequest is the request body for an insurance amendment.
type AttachInsuranceRequest struct {
	Insurance patients.Insurance `json:"insurance"`
}

// AttachInsurance amends the insurance columns of an existing booking.
// PUT /bookings/{bookingID}/insurance
func (h *BookingHandler) AttachInsurance(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	if bookingID == "" {
		http.Error(w, `{"error": "booking_id required"}`, http.StatusBadRequest)
		return
	}

	var req AttachInsuranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	rec, err := h.service.AttachInsurance(r.Context(), bookingID, &req.Insurance)
	switch {
	case errors.Is(err, appointments.ErrRecordNotFound):
		http.Error(w, `{"error": "booking not found"}`, http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("insurance amendment failed", "booking_id", bookingID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		h.logger.Error("failed to encode amended record", "error", err)
	}
}
