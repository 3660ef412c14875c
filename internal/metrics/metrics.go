package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the booking counters. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	bookings        *prometheus.CounterVec
	promoEvaluation *prometheus.CounterVec
	sessionsPlanned prometheus.Counter
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_attempts_total",
			Help:      "Booking attempts by outcome (committed, slot_conflict, missing_fields, error).",
		}, []string{"outcome"}),
		promoEvaluation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotion_evaluations_total",
			Help:      "Promotion evaluations by result reason (applied when eligible).",
		}, []string{"result"}),
		sessionsPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "course_sessions_planned_total",
			Help:      "Treatment course sessions generated at course creation.",
		}),
	}

	reg.MustRegister(
		m.bookings,
		m.promoEvaluation,
		m.sessionsPlanned,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) BookingOutcome(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PromotionEvaluated(result string) {
	if m == nil {
		return
	}
	if result == "" {
		result = "applied"
	}
	m.promoEvaluation.WithLabelValues(result).Inc()
}

func (m *Metrics) SessionsPlanned(n int) {
	if m == nil {
		return
	}
	m.sessionsPlanned.Add(float64(n))
}
