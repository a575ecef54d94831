// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"task_type"},
	)

	StepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journey_step_transitions_total",
			Help: "Loan journey step changes",
		},
		[]string{"from", "to"},
	)

	FieldValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journey_field_validation_failures_total",
			Help: "Rejected applicant inputs per field",
		},
		[]string{"field"},
	)

	KYCDocumentEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journey_kyc_document_events_total",
			Help: "KYC sequencer actions per stage",
		},
		[]string{"stage", "action"},
	)

	LenderDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journey_lender_decisions_total",
			Help: "Lender decisions by outcome",
		},
		[]string{"outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "journey_active_sessions",
			Help: "Journey sessions currently held in the session store",
		},
	)
)
