package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the planner collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	StepTransitions    *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	PlansSubmitted     prometheus.Counter
	PlanValue          prometheus.Histogram
}

// NewMetrics creates and registers the planner collectors, plus the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		StepTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hornbill_step_transitions_total",
				Help: "Wizard step changes by origin and destination step.",
			},
			[]string{"from", "to"},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hornbill_validation_failures_total",
				Help: "Rejected operations by the step they were rejected at.",
			},
			[]string{"step"},
		),
		PlansSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hornbill_plans_submitted_total",
			Help: "Trip plans submitted.",
		}),
		PlanValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hornbill_plan_value_inr",
			Help:    "Experience cost of submitted plans in the base currency.",
			Buckets: []float64{0, 1000, 2500, 5000, 7500, 10000, 15000},
		}),
	}
	m.Registry.MustRegister(
		m.StepTransitions,
		m.ValidationFailures,
		m.PlansSubmitted,
		m.PlanValue,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepLeave: func(_ context.Context, e *domain.StepEvent) {
			m.StepTransitions.WithLabelValues(e.Step.String(), e.Peer.String()).Inc()
		},
		OnValidationFailed: func(_ context.Context, e *domain.ValidationEvent) {
			m.ValidationFailures.WithLabelValues(strconv.Itoa(int(e.Error.Step))).Inc()
		},
		OnPlanSubmitted: func(_ context.Context, e *domain.PlanEvent) {
			m.PlansSubmitted.Inc()
			m.PlanValue.Observe(float64(e.Plan.Experiences.TotalCost))
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
