// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_moves_total",
			Help: "Total number of application stage transitions",
		},
		[]string{"target_stage"},
	)

	AutosaveWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_scorecard_autosaves_total",
			Help: "Total number of scorecard field autosave attempts",
		},
		[]string{"result"},
	)

	ScreeningsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_screenings_submitted_total",
			Help: "Total number of scorecards submitted and locked",
		},
	)

	InterviewsScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_interviews_scheduled_total",
			Help: "Total number of interviews scheduled",
		},
		[]string{"round"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_operation_duration_seconds",
			Help: "Duration of pipeline operations in seconds",
		},
		[]string{"operation"},
	)

	BoardRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_board_requests_total",
			Help: "Total number of board listing requests",
		},
	)
)
