package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	budgetEvaluations         *prometheus.CounterVec
	budgetEvaluationDuration  prometheus.Histogram
	budgetAlerts              *prometheus.CounterVec
	transactionsRecorded      *prometheus.CounterVec
	budgetsManaged            *prometheus.CounterVec
	circuitBreakerState       *prometheus.GaugeVec
	authenticationEventsTotal *prometheus.CounterVec
	emailsSentTotal           *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		budgetEvaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_evaluations_total",
				Help: "Total number of budget limit evaluations by result",
			},
			[]string{"result"},
		),
		budgetEvaluationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "budget_evaluation_duration_milliseconds",
				Help:    "Budget evaluation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		budgetAlerts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_alerts_total",
				Help: "Total number of budget overshoot alerts by delivery status",
			},
			[]string{"status"},
		),
		transactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_recorded_total",
				Help: "Total number of transactions recorded by type",
			},
			[]string{"type"},
		),
		budgetsManaged: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_operations_total",
				Help: "Total number of budget create/update/delete operations",
			},
			[]string{"operation"},
		),
		circuitBreakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		emailsSentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emails_sent_total",
				Help: "Total number of outbound emails by status",
			},
			[]string{"status"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "budget_evaluation":
		if result := tags["result"]; result != "" {
			m.budgetEvaluations.WithLabelValues(result).Inc()
		}
	case "budget_alert":
		if status := tags["status"]; status != "" {
			m.budgetAlerts.WithLabelValues(status).Inc()
		}
	case "transaction_recorded":
		if txType := tags["type"]; txType != "" {
			m.transactionsRecorded.WithLabelValues(txType).Inc()
		}
	case "budget_operation":
		if op := tags["operation"]; op != "" {
			m.budgetsManaged.WithLabelValues(op).Inc()
		}
	case "circuit_breaker.open":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(1)
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	case "email_sent":
		if status := tags["status"]; status != "" {
			m.emailsSentTotal.WithLabelValues(status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if name == "budget_evaluation" {
		m.budgetEvaluationDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	if name == "circuit_breaker_state" {
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	}
}
