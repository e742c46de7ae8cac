package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		},
	)

	// Account metrics
	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of account registrations",
		},
		[]string{"user_type"},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"result"},
	)

	tokenEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_events_total",
			Help: "Token refreshes and invalidations",
		},
		[]string{"event"},
	)

	passwordEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_password_events_total",
			Help: "Password changes and reset requests",
		},
		[]string{"event"},
	)
)

// Login outcomes
const (
	LoginSuccess   = "success"
	LoginInvalid   = "invalid_credentials"
	LoginDisabled  = "disabled"
	LoginThrottled = "throttled"
)

func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func IncInFlight() { httpRequestsInFlight.Inc() }
func DecInFlight() { httpRequestsInFlight.Dec() }

func RecordRegistration(kind string) {
	registrationsTotal.WithLabelValues(kind).Inc()
}

func RecordLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

func RecordTokenRefresh() { tokenEventsTotal.WithLabelValues("refresh").Inc() }
func RecordLogout()       { tokenEventsTotal.WithLabelValues("logout").Inc() }

func RecordPasswordChange()       { passwordEventsTotal.WithLabelValues("change").Inc() }
func RecordPasswordResetRequest() { passwordEventsTotal.WithLabelValues("reset_request").Inc() }
func RecordPasswordResetConfirm() { passwordEventsTotal.WithLabelValues("reset_confirm").Inc() }

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
