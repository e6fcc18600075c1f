package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	gtfsImporter = "gtfs_importer"

	agenciesTotal         = "agencies_total"
	rowsImportedTotal     = "rows_imported_total"
	coercionWarningsTotal = "coercion_warnings_total"
	shapeStatsTotal       = "shape_stats_total"
	stageDurationSeconds  = "stage_duration_seconds"

	// Labels
	outcomeLabel = "outcome"
	fileLabel    = "file"
	stageLabel   = "stage"
)

// Agency outcomes
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

/**
* Metrics definition
**/
var agenciesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: gtfsImporter,
		Name:      agenciesTotal,
		Help:      "number of agency imports partitioned by outcome",
	},
	[]string{outcomeLabel},
)

var rowsImportedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: gtfsImporter,
		Name:      rowsImportedTotal,
		Help:      "number of rows written partitioned by gtfs file",
	},
	[]string{fileLabel},
)

var coercionWarningsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: gtfsImporter,
		Name:      coercionWarningsTotal,
		Help:      "number of field values that could not be coerced",
	},
	[]string{fileLabel},
)

var shapeStatsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: gtfsImporter,
		Name:      shapeStatsTotal,
		Help:      "number of shape statistics records written",
	},
)

var stageDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: gtfsImporter,
		Name:      stageDurationSeconds,
		Help:      "time spent in each pipeline stage",
		Buckets:   []float64{0.1, 1, 5, 30, 120, 600},
	},
	[]string{stageLabel},
)

func IncreaseAgenciesTotalMetric(outcome string) {
	agenciesTotalMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func AddRowsImportedMetric(file string, n int) {
	rowsImportedTotalMetric.With(prometheus.Labels{fileLabel: file}).Add(float64(n))
}

func AddCoercionWarningsMetric(file string, n int) {
	if n == 0 {
		return
	}
	coercionWarningsTotalMetric.With(prometheus.Labels{fileLabel: file}).Add(float64(n))
}

func IncreaseShapeStatsMetric() {
	shapeStatsTotalMetric.Inc()
}

func ObserveStageDurationMetric(stage string, d time.Duration) {
	stageDurationMetric.With(prometheus.Labels{stageLabel: stage}).Observe(d.Seconds())
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(agenciesTotalMetric)
	prometheus.MustRegister(rowsImportedTotalMetric)
	prometheus.MustRegister(coercionWarningsTotalMetric)
	prometheus.MustRegister(shapeStatsTotalMetric)
	prometheus.MustRegister(stageDurationMetric)
}
