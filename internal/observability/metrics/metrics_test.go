package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveBooking(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveBooking("Dr. Lee", "booked")
	m.ObserveBooking("Dr. Lee", "booked")
	m.ObserveBooking("Dr. Lee", "unavailable")

	booked := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("Dr. Lee", "booked"))
	if booked != 2 {
		t.Errorf("expected 2 booked, got %v", booked)
	}
	unavailable := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("Dr. Lee", "unavailable"))
	if unavailable != 1 {
		t.Errorf("expected 1 unavailable, got %v", unavailable)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveBooking("Dr. Lee", "booked")
	m.ObserveInsuranceUpdate("amended")
	m.ObserveBookingLatency(0.1)
}
