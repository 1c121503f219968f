// Package metrics exposes dispatch counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dispatch"

// Recorder implements ports.DispatchMetrics.
type Recorder struct {
	sweepsTotal          *prometheus.CounterVec
	sweepDuration        prometheus.Histogram
	ordersSeenTotal      prometheus.Counter
	orderFailuresTotal   *prometheus.CounterVec
	candidateDecisions   *prometheus.CounterVec
	notificationsTotal   *prometheus.CounterVec
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDurations *prometheus.HistogramVec
}

// NewRecorder registers every collector on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		sweepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "Dispatch sweeps by result (completed or the skip reason).",
		}, []string{"result"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of completed dispatch sweeps.",
			Buckets:   prometheus.DefBuckets,
		}),
		ordersSeenTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_seen_total",
			Help:      "Orders selected as eligible across all sweeps.",
		}),
		orderFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_failures_total",
			Help:      "Orders abandoned within a sweep, by failing stage.",
		}, []string{"stage"}),
		candidateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_decisions_total",
			Help:      "Final decision for each screened candidate driver.",
		}, []string{"decision"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Offer notifications by outcome.",
		}, []string{"outcome"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpRequestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	collectors := []prometheus.Collector{
		r.sweepsTotal, r.sweepDuration, r.ordersSeenTotal, r.orderFailuresTotal,
		r.candidateDecisions, r.notificationsTotal, r.httpRequestsTotal, r.httpRequestDurations,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) SweepCompleted(duration time.Duration, ordersSeen int) {
	r.sweepsTotal.WithLabelValues("completed").Inc()
	r.sweepDuration.Observe(duration.Seconds())
	r.ordersSeenTotal.Add(float64(ordersSeen))
}

func (r *Recorder) SweepSkipped(reason string) {
	r.sweepsTotal.WithLabelValues(reason).Inc()
}

func (r *Recorder) OrderFailed(stage string) {
	r.orderFailuresTotal.WithLabelValues(stage).Inc()
}

func (r *Recorder) CandidateDecided(decision string) {
	r.candidateDecisions.WithLabelValues(decision).Inc()
}

func (r *Recorder) NotificationSent() {
	r.notificationsTotal.WithLabelValues("sent").Inc()
}

func (r *Recorder) NotificationFailed() {
	r.notificationsTotal.WithLabelValues("failed").Inc()
}

// ObserveHTTP records one served request. route is the registered pattern,
// never the raw path.
func (r *Recorder) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.httpRequestDurations.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
