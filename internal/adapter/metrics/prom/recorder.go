package prom

import (
	"strconv"
	"time"

	"petworld/internal/app/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "petworld"

type Recorder struct {
	pollAttempts    *prometheus.CounterVec
	pollOutcomes    *prometheus.CounterVec
	unparseable     *prometheus.CounterVec
	proxyRequests   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder registers the service metrics on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		pollAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobpoll",
			Name:      "attempts_total",
			Help:      "Status fetches made while waiting for generation jobs",
		}, []string{"result"}),
		pollOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobpoll",
			Name:      "outcomes_total",
			Help:      "Finished job polls by outcome",
		}, []string{"outcome"}),
		unparseable: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "unparseable_fields_total",
			Help:      "Contract reply fields that could not be decoded",
		}, []string{"kind"}),
		proxyRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Proxied requests by route and upstream status",
		}, []string{"route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
	}
}

func (r *Recorder) RecordPollAttempt(transient bool) {
	result := "ok"
	if transient {
		result = "error"
	}
	r.pollAttempts.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordPollOutcome(outcome ports.PollOutcome) {
	r.pollOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) RecordUnparseable(kind string) {
	r.unparseable.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordProxyRequest(route string, status int) {
	r.proxyRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
