package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deliverability"

var (
	// CheckCycles counts cycle runner invocations by outcome.
	CheckCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checker",
		Name:      "cycles_total",
		Help:      "Check cycles run, labelled by outcome.",
	}, []string{"status"})

	// TestsProcessed counts tests a cycle attempted to progress.
	TestsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checker",
		Name:      "tests_processed_total",
		Help:      "Tests picked up by check cycles.",
	})

	// TestsCompleted counts finalized tests.
	TestsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checker",
		Name:      "tests_completed_total",
		Help:      "Tests finalized with a deliverability score.",
	})

	// ResultsRecorded counts placement rows written, by classification.
	ResultsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checker",
		Name:      "results_recorded_total",
		Help:      "Placement rows written, labelled by result type.",
	}, []string{"result_type"})

	// ReportEmails counts report email deliveries by outcome.
	ReportEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "report",
		Name:      "emails_total",
		Help:      "Report emails sent, labelled by outcome.",
	}, []string{"status"})
)
