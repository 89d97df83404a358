package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medicare-clinic/scheduling-platform/internal/notify"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

// NotificationHandler serves patient-facing notification sends.
type NotificationHandler struct {
	notifier *notify.Service
	logger   *logging.Logger
}

// NewNotificationHandler creates a notification HTTP handler.
func NewNotificationHandler(notifier *notify.Service, logger *logging.Logger) *NotificationHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &NotificationHandler{notifier: notifier, logger: logger}
}

// Routes returns a chi router with notification routes.
func (h *NotificationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/intake-form", h.SendIntakeForm)
	r.Post("/reminder", h.SendReminder)
	return r
}

// NotificationRequest is the request body for both notification kinds.
type NotificationRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Doctor string `json:"doctor"`
	Slot   string `json:"slot"`
}

// SendIntakeForm emails a new-patient intake form link.
// POST /notifications/intake-form
func (h *NotificationHandler) SendIntakeForm(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, h.notifier.SendIntakeForm)
}

// SendReminder emails an appointment reminder.
// POST /notifications/reminder
func (h *NotificationHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, h.notifier.SendReminder)
}

func (h *NotificationHandler) send(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, email, name, doctor, slot string) error) {
	var req NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, `{"error": "email is required"}`, http.StatusBadRequest)
		return
	}

	if err := fn(r.Context(), req.Email, req.Name, req.Doctor, req.Slot); err != nil {
		h.logger.Error("notification send failed", "email", req.Email, "error", err)
		http.Error(w, `{"error": "failed to send notification"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "sent"}); err != nil {
		h.logger.Error("failed to encode notification response", "error", err)
	}
}
