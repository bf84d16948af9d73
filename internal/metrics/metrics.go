package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by type.",
		},
		[]string{"type"},
	)

	bookingCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by actor role.",
		},
		[]string{"role"},
	)

	bookingCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "booking_completed_total",
			Help:      "Count of attendance outcomes by final status.",
		},
		[]string{"status"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonbook",
			Name:      "booking_rejected_total",
			Help:      "Count of booking requests rejected by error code.",
		},
		[]string{"code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, bookingCompleted, bookingRejected)
	})
}

func IncBookingCreated(bookingType string) {
	bookingCreated.WithLabelValues(bookingType).Inc()
}

func IncBookingCancelled(role string) {
	bookingCancelled.WithLabelValues(role).Inc()
}

func IncBookingCompleted(status string) {
	bookingCompleted.WithLabelValues(status).Inc()
}

func IncBookingRejected(code string) {
	bookingRejected.WithLabelValues(code).Inc()
}
