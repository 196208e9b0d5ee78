package wave

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects request counts and latencies for a Client. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Passing nil
// creates unregistered collectors, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wave",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests made to the Wave API by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wave",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of Wave API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// Outcome labels.
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeStatus    = "status_error"
	outcomeDecode    = "decode_error"
	outcomeMissingID = "missing_id"
)

func outcomeOf(err error) string {
	var (
		te *TransportError
		se *HTTPStatusError
		de *DecodeError
		me *MissingIDError
	)
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &te):
		return outcomeTransport
	case errors.As(err, &se):
		return outcomeStatus
	case errors.As(err, &de):
		return outcomeDecode
	case errors.As(err, &me):
		return outcomeMissingID
	}
	return "other"
}

func (m *Metrics) observe(endpoint string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcomeOf(err)).Inc()
	if _, missing := err.(*MissingIDError); !missing {
		m.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}
