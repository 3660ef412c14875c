package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New("test")

	m.BookingOutcome("committed")
	m.BookingOutcome("committed")
	m.BookingOutcome("slot_conflict")
	m.PromotionEvaluated("")
	m.PromotionEvaluated("min_order_not_met")
	m.SessionsPlanned(6)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("slot_conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.promoEvaluation.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.promoEvaluation.WithLabelValues("min_order_not_met")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.sessionsPlanned))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingOutcome("committed")
		m.PromotionEvaluated("")
		m.SessionsPlanned(3)
	})
}
