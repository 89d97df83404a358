package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medicare-clinic/scheduling-platform/internal/patients"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

// PatientHandler serves directory lookups.
type PatientHandler struct {
	directory patients.Directory
	logger    *logging.Logger
}

// NewPatientHandler creates a patient lookup HTTP handler.
func NewPatientHandler(directory patients.Directory, logger *logging.Logger) *PatientHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PatientHandler{directory: directory, logger: logger}
}

// LookupRequest is the request body for a patient lookup.
type LookupRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dob"`
}

// Lookup resolves a patient by name and date of birth.
// POST /patients/lookup
func (h *PatientHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.DateOfBirth == "" {
		http.Error(w, `{"error": "name and dob are required"}`, http.StatusBadRequest)
		return
	}

	result, err := h.directory.Lookup(r.Context(), req.Name, req.DateOfBirth)
	if err != nil {
		h.logger.Error("patient lookup failed", "name", req.Name, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to encode lookup result", "error", err)
	}
}
