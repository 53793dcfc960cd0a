package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the risk
// engine and the HTTP surface.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	checkinsTotal     *prometheus.CounterVec
	assessmentsTotal  *prometheus.CounterVec
	escalationsTotal  *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	checkinsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wellbeing_checkins_total",
		Help: "Total daily check-ins recorded, by mood",
	}, []string{"mood"})

	assessmentsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wellbeing_assessments_total",
		Help: "Total questionnaire submissions scored, by instrument and alert outcome",
	}, []string{"instrument", "alert"})

	escalationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wellbeing_escalations_total",
		Help: "Total risk status escalations applied, by trigger",
	}, []string{"trigger"})

	recomputeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wellbeing_recompute_duration_seconds",
		Help:    "Duration of rolling-window recompute passes, by outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, checkinsTotal, assessmentsTotal, escalationsTotal, recomputeDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		checkinsTotal:     checkinsTotal,
		assessmentsTotal:  assessmentsTotal,
		escalationsTotal:  escalationsTotal,
		recomputeDuration: recomputeDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// CheckinRecorded counts a completed daily check-in.
func (m *MetricsService) CheckinRecorded(mood string) {
	if m == nil {
		return
	}
	m.checkinsTotal.WithLabelValues(mood).Inc()
}

// AssessmentScored counts a scored questionnaire submission.
func (m *MetricsService) AssessmentScored(instrument string, alert bool) {
	if m == nil {
		return
	}
	m.assessmentsTotal.WithLabelValues(instrument, fmt.Sprintf("%t", alert)).Inc()
}

// EscalationApplied counts an applied risk status escalation.
func (m *MetricsService) EscalationApplied(trigger string) {
	if m == nil {
		return
	}
	m.escalationsTotal.WithLabelValues(trigger).Inc()
}

// RecomputeObserved records the duration and outcome of one recompute pass.
func (m *MetricsService) RecomputeObserved(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.recomputeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
