package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "supercar_rentals",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "supercar_rentals",
			Name:      "booking_rejected_total",
			Help:      "Count of booking requests refused, by reason.",
		},
		[]string{"reason"},
	)

	bookingStatusChanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "supercar_rentals",
			Name:      "booking_status_changed_total",
			Help:      "Count of booking status transitions by target status.",
		},
		[]string{"status"},
	)

	moderationDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "supercar_rentals",
			Name:      "comment_moderation_total",
			Help:      "Count of review moderation decisions.",
		},
		[]string{"decision"},
	)

	ratingRecomputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "supercar_rentals",
			Name:      "rating_recomputed_total",
			Help:      "Count of car rating recomputations.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingRejected, bookingStatusChanged, moderationDecision, ratingRecomputed)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncBookingStatusChanged(status string) {
	bookingStatusChanged.WithLabelValues(status).Inc()
}

func IncModerationDecision(decision string) {
	moderationDecision.WithLabelValues(decision).Inc()
}

func IncRatingRecomputed() {
	ratingRecomputed.Inc()
}
