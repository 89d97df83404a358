package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medicare-clinic/scheduling-platform/internal/appointments"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

// AdminHandler serves the back-office view of the appointment ledger.
type AdminHandler struct {
	ledger appointments.Ledger
	logger *logging.Logger
}

// NewAdminHandler creates an admin HTTP handler.
func NewAdminHandler(ledger appointments.Ledger, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{ledger: ledger, logger: logger}
}

// Routes returns a chi router with admin routes.
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/appointments", h.ListAppointments)
	r.Get("/appointments/export", h.ExportAppointments)
	return r
}

// ListAppointments returns all ledger rows in append order.
// GET /admin/appointments
func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []appointments.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"appointments": records,
		"count":        len(records),
	}); err != nil {
		h.logger.Error("failed to encode appointment list", "error", err)
	}
}

// ExportAppointments streams the ledger as a CSV download.
// GET /admin/appointments/export
func (h *AdminHandler) ExportAppointments(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.List(r.Context())
	if err != nil {
		h.logger.Error("failed to export appointments", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="appointments.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"ID", "Doctor", "Slot", "PatientType", "InsuranceCarrier", "MemberID", "GroupNumber"})
	for _, rec := range records {
		_ = cw.Write([]string{
			rec.ID,
			rec.Doctor,
			rec.Slot,
			string(rec.PatientType),
			rec.InsuranceCarrier,
			rec.InsuranceMemberID,
			rec.InsuranceGroupNumber,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("failed to write appointment export", "error", err)
	}
}
