// Package metrics exposes Prometheus instruments for analyses.
package metrics

import (
	"net/http"

	"github.com/JonMunkholm/numanalyzer/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis results.
const (
	ResultOK         = "ok"
	ResultStructural = "structural"
	ResultError      = "error"
)

var (
	// analysesTotal counts finished analyses by result
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numanalyzer_analyses_total",
		Help: "Total analyses by result",
	}, []string{"result"})

	// rowsTotal counts data rows by outcome ("valid" or "rejected")
	rowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numanalyzer_rows_total",
		Help: "Total data rows by outcome",
	}, []string{"outcome"})

	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numanalyzer_rejections_total",
		Help: "Total rejected rows by reason code",
	}, []string{"reason"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "numanalyzer_analysis_duration_seconds",
		Help:    "Analysis duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
	})
)

// ObserveAnalysis records a finished analysis.
func ObserveAnalysis(a *core.Analysis) {
	result := ResultOK
	if a.Structural {
		result = ResultStructural
	}
	analysesTotal.WithLabelValues(result).Inc()
	analysisDuration.Observe(a.Duration.Seconds())

	rowsTotal.WithLabelValues("valid").Add(float64(len(a.Valid)))
	rowsTotal.WithLabelValues("rejected").Add(float64(len(a.Rejections)))
	for _, r := range a.Rejections {
		rejectionsTotal.WithLabelValues(string(r.Code)).Inc()
	}
}

// ObserveFailure records an analysis that returned an error.
func ObserveFailure() {
	analysesTotal.WithLabelValues(ResultError).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// WriteTextfile writes all registered metrics to path in the text
// exposition format, for collection by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
