package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medicare-clinic/scheduling-platform/internal/api/handlers"
	"github.com/medicare-clinic/scheduling-platform/internal/api/middleware"
	"github.com/medicare-clinic/scheduling-platform/internal/appointments"
	"github.com/medicare-clinic/scheduling-platform/internal/availability"
	"github.com/medicare-clinic/scheduling-platform/internal/booking"
	"github.com/medicare-clinic/scheduling-platform/internal/notify"
	"github.com/medicare-clinic/scheduling-platform/internal/patients"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Directory      patients.Directory
	Inventory      availability.Inventory
	Ledger         appointments.Ledger
	Booking        *booking.Service
	Notifier       *notify.Service
	DefaultDoctors []string
	AdminJWTSecret string
	Logger         *logging.Logger
}

// New assembles the full API router.
func New(deps Deps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/patients/lookup", handlers.NewPatientHandler(deps.Directory, logger).Lookup)
	r.Get("/doctors", handlers.NewDoctorHandler(deps.Inventory, deps.DefaultDoctors, logger).List)
	r.Mount("/bookings", handlers.NewBookingHandler(deps.Booking, logger).Routes())
	r.Mount("/notifications", handlers.NewNotificationHandler(deps.Notifier, logger).Routes())

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(middleware.AdminJWT(deps.AdminJWTSecret))
		ar.Mount("/", handlers.NewAdminHandler(deps.Ledger, logger).Routes())
	})

	return r
}
