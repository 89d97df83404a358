package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medicare-clinic/scheduling-platform/internal/availability"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

// DoctorHandler serves the doctor roster with open slot counts.
type DoctorHandler struct {
	inventory availability.Inventory
	defaults  []string
	logger    *logging.Logger
}

// NewDoctorHandler creates a doctor roster HTTP handler. When the
// inventory is empty, defaults is served with zero open slots so clients
// always see the roster.
func NewDoctorHandler(inventory availability.Inventory, defaults []string, logger *logging.Logger) *DoctorHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DoctorHandler{inventory: inventory, defaults: defaults, logger: logger}
}

// List returns all doctors and their remaining capacity.
// GET /doctors
func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.inventory.Doctors(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if len(doctors) == 0 {
		for _, name := range h.defaults {
			doctors = append(doctors, availability.DoctorSummary{Name: name})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"doctors": doctors}); err != nil {
		h.logger.Error("failed to encode doctor list", "error", err)
	}
}
