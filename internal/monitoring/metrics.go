package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	AppointmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_created_total",
			Help: "Appointments successfully created",
		},
	)

	SlotConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appointment_slot_conflicts_total",
			Help: "Creations rejected because the slot was taken or outside availability",
		},
	)

	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_status_transitions_total",
			Help: "Applied appointment status transitions",
		},
		[]string{"to"},
	)

	ReviewsSubmitted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "appointment_review_rating",
			Help:    "Ratings submitted with reviews",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	PaymentsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_payments_total",
			Help: "Appointments marked paid, by payment method",
		},
		[]string{"method"},
	)

	NotificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notifications persisted, by type",
		},
		[]string{"type"},
	)
)

var once sync.Once

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDuration,
			AppointmentsCreated,
			SlotConflicts,
			StatusTransitions,
			ReviewsSubmitted,
			PaymentsProcessed,
			NotificationsCreated,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
