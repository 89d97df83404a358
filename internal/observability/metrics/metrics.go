package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	bookingsTotal    *prometheus.CounterVec
	insuranceUpdates *prometheus.CounterVec
	bookingLatency   prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts by doctor and outcome",
		}, []string{"doctor", "status"}),
		insuranceUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "insurance_updates_total",
			Help:      "Total insurance amendments by outcome",
		}, []string{"status"}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "book_latency_seconds",
			Help:      "Latency of the reserve-and-append sequence",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.insuranceUpdates, m.bookingLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(doctor, status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(doctor, status).Inc()
}

func (m *BookingMetrics) ObserveInsuranceUpdate(status string) {
	if m == nil {
		return
	}
	m.insuranceUpdates.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveBookingLatency(seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatency.Observe(seconds)
}
