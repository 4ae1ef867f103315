package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elektrina_runs_total",
		Help: "Pipeline runs by final status and failing stage",
	}, []string{"status", "stage"})

	belowHours = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "elektrina_below_limit_hours",
		Help: "Hours priced below the limit in the last evaluated day",
	})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "elektrina_last_success_timestamp_seconds",
		Help: "Unix time of the last run that finished without error",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "elektrina_run_duration_seconds",
		Help:    "Wall time of a pipeline run",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. 32s
	})
)

// ObserveRun records the outcome of a finished run.
func ObserveRun(rec *model.RunRecord) {
	runsTotal.WithLabelValues(string(rec.Status), rec.Stage).Inc()
	if !rec.FinishedAt.IsZero() && !rec.StartedAt.IsZero() {
		runDuration.Observe(rec.FinishedAt.Sub(rec.StartedAt).Seconds())
	}
	if rec.Status == model.RunFailed {
		return
	}
	belowHours.Set(float64(rec.BelowHours))
	lastSuccess.Set(float64(rec.FinishedAt.Unix()))
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
