// Package metrics exposes assessment lifecycle counters to Prometheus.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by domain.LifecycleHooks.
type Metrics struct {
	registry *prometheus.Registry

	GateDecisions        *prometheus.CounterVec
	BatchesSubmitted     prometheus.Counter
	QuestionnairesDone   prometheus.Counter
	WalkSteps            *prometheus.CounterVec
	DomainOutcomes       *prometheus.CounterVec
	AssessmentsCompleted prometheus.Counter
}

// New registers the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerflow_gate_decisions_total",
				Help: "Routing decisions taken by the stage gate",
			},
			[]string{"decision"},
		),
		BatchesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerflow_batches_submitted_total",
			Help: "Questionnaire batches accepted by the scorer",
		}),
		QuestionnairesDone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerflow_questionnaires_completed_total",
			Help: "Soft-skills questionnaires completed",
		}),
		WalkSteps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerflow_walk_steps_total",
				Help: "Decision tree transitions",
			},
			[]string{"domain", "direction"},
		),
		DomainOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerflow_domain_outcomes_total",
				Help: "Outcomes recorded per domain",
			},
			[]string{"domain", "determined"},
		),
		AssessmentsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerflow_assessments_completed_total",
			Help: "Technical assessments completed",
		}),
	}
	m.registry.MustRegister(
		m.GateDecisions,
		m.BatchesSubmitted,
		m.QuestionnairesDone,
		m.WalkSteps,
		m.DomainOutcomes,
		m.AssessmentsCompleted,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGate: func(_ context.Context, e *domain.GateEvent) {
			decision := "allow"
			if e.Redirect != "" {
				decision = "redirect"
			}
			m.GateDecisions.WithLabelValues(decision).Inc()
		},
		OnBatchSubmitted: func(context.Context, *domain.BatchEvent) {
			m.BatchesSubmitted.Inc()
		},
		OnQuestionnaireComplete: func(context.Context, *domain.CompletionEvent) {
			m.QuestionnairesDone.Inc()
		},
		OnWalkStep: func(_ context.Context, e *domain.WalkEvent) {
			direction := "forward"
			if e.Back {
				direction = "back"
			}
			m.WalkSteps.WithLabelValues(e.Domain, direction).Inc()
		},
		OnDomainComplete: func(_ context.Context, e *domain.DomainEvent) {
			determined := "false"
			if e.Result.Outcome.Determined() {
				determined = "true"
			}
			m.DomainOutcomes.WithLabelValues(e.Result.Domain, determined).Inc()
		},
		OnAssessmentComplete: func(context.Context, *domain.CompletionEvent) {
			m.AssessmentsCompleted.Inc()
		},
	}
}
