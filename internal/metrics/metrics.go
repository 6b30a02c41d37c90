package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the prediction pipeline and store.
type Metrics struct {
	registry *prometheus.Registry

	UploadsTotal     *prometheus.CounterVec // labels: outcome=ok|parse_error|window_error|error
	PredictionsTotal *prometheus.CounterVec // labels: result=predicted|insufficient_history
	PipelineDur      prometheus.Histogram
	SeriesRows       prometheus.Histogram
	StoreOpsTotal    *prometheus.CounterVec // labels: op, outcome=ok|error
	ChartRenderDur   prometheus.Histogram
}

// New registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goldcast_uploads_total",
			Help: "Uploaded tables processed, by outcome",
		}, []string{"outcome"}),
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goldcast_predictions_total",
			Help: "Pipeline runs by prediction result",
		}, []string{"result"}),
		PipelineDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "goldcast_pipeline_duration_seconds",
			Help:    "Load, average and predict latency",
			Buckets: prometheus.DefBuckets,
		}),
		SeriesRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "goldcast_series_rows",
			Help:    "Observations per uploaded series",
			Buckets: prometheus.ExponentialBuckets(2, 2, 10),
		}),
		StoreOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goldcast_store_ops_total",
			Help: "Prediction store operations, by op and outcome",
		}, []string{"op", "outcome"}),
		ChartRenderDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "goldcast_chart_render_duration_seconds",
			Help:    "PNG chart render latency",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.UploadsTotal,
		m.PredictionsTotal,
		m.PipelineDur,
		m.SeriesRows,
		m.StoreOpsTotal,
		m.ChartRenderDur,
		collectors.NewGoCollector(),
	)

	return m
}

// StoreOp counts one store operation.
func (m *Metrics) StoreOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StoreOpsTotal.WithLabelValues(op, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
