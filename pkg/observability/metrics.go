package observability

import (
	"context"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	StepVisits     *prometheus.CounterVec
	StepAdvances   *prometheus.CounterVec
	EntriesSaved   *prometheus.CounterVec
	LedgerResets   prometheus.Counter
	Compilations   prometheus.Counter
	RequestLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journey_step_visits_total",
				Help: "Total number of step visits",
			},
			[]string{"step_id"},
		),
		StepAdvances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journey_step_advances_total",
				Help: "Total number of forward transitions",
			},
			[]string{"step_id"},
		),
		EntriesSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journey_entries_saved_total",
				Help: "Total number of persisted entries by reason",
			},
			[]string{"reason"},
		),
		LedgerResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journey_ledger_resets_total",
			Help: "Total number of ledger restarts",
		}),
		Compilations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journey_artifacts_compiled_total",
			Help: "Total number of compiled artifacts",
		}),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "journey_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "code"},
		),
	}
	reg.MustRegister(m.StepVisits, m.StepAdvances, m.EntriesSaved, m.LedgerResets, m.Compilations, m.RequestLatency)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepVisit: func(ctx context.Context, e *domain.StepEvent) {
			m.StepVisits.WithLabelValues(e.StepID).Inc()
		},
		OnStepAdvance: func(ctx context.Context, e *domain.StepEvent) {
			m.StepAdvances.WithLabelValues(e.StepID).Inc()
		},
		OnEntrySaved: func(ctx context.Context, e *domain.EntryEvent) {
			m.EntriesSaved.WithLabelValues(string(e.Reason)).Inc()
		},
		OnReset: func(ctx context.Context, e *domain.EventBase) {
			m.LedgerResets.Inc()
		},
		OnCompile: func(ctx context.Context, e *domain.EventBase) {
			m.Compilations.Inc()
		},
	}
}
