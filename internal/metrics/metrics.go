package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "physiocare",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	availabilityQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "physiocare",
			Name:      "availability_queries_total",
			Help:      "Count of availability queries by outcome.",
		},
		[]string{"outcome"},
	)

	calendarLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "physiocare",
			Name:      "calendar_request_seconds",
			Help:      "Latency of calendar collaborator calls.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	appointmentsBooked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "physiocare",
			Name:      "appointments_total",
			Help:      "Count of appointment operations by action.",
		},
		[]string{"action"},
	)

	donationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "physiocare",
			Name:      "donations_total",
			Help:      "Count of donation payments created by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			availabilityQueries,
			calendarLatency,
			appointmentsBooked,
			donationsCreated,
		)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncAvailabilityQuery(outcome string) {
	availabilityQueries.WithLabelValues(outcome).Inc()
}

func ObserveCalendarLatency(seconds float64) {
	calendarLatency.Observe(seconds)
}

func IncAppointment(action string) {
	appointmentsBooked.WithLabelValues(action).Inc()
}

func IncDonation(kind string) {
	donationsCreated.WithLabelValues(kind).Inc()
}
