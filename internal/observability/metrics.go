// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	SimulationsTotal   *prometheus.CounterVec
	PathsSimulated     prometheus.Counter
	SimulationDuration *prometheus.HistogramVec
	SimulationErrors   *prometheus.CounterVec

	// Optimizer metrics
	OptimizationsTotal   *prometheus.CounterVec
	CandidatesScored     prometheus.Counter
	OptimizationDuration prometheus.Histogram

	// Market data metrics
	QuotesReceived   prometheus.Counter
	StreamReconnects prometheus.Counter
	SnapshotsServed  *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	// Health metrics
	LastSuccessfulSimulation prometheus.Gauge
	LastSuccessfulSweep      prometheus.Gauge
	UptimeSeconds            prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trade_sim_lab"
	}

	return &Metrics{
		// Simulation metrics
		SimulationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by strategy and optimized flag",
		}, []string{"strategy", "optimized"}),
		PathsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "paths_simulated_total",
			Help:      "Total number of price paths simulated",
		}),
		SimulationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "duration_seconds",
			Help:      "Simulation run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		SimulationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "errors_total",
			Help:      "Total number of simulation errors by operation and type",
		}, []string{"operation", "error_type"}),

		// Optimizer metrics
		OptimizationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "runs_total",
			Help:      "Total number of optimization runs by status",
		}, []string{"status"}),
		CandidatesScored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "candidates_scored_total",
			Help:      "Total number of grid candidates scored",
		}),
		OptimizationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "duration_seconds",
			Help:      "Optimization run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		// Market data metrics
		QuotesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "quotes_received_total",
			Help:      "Total number of quotes received from the stream",
		}),
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "stream_reconnects_total",
			Help:      "Total number of quote stream reconnects",
		}),
		SnapshotsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "snapshots_served_total",
			Help:      "Total number of market snapshots served by source",
		}, []string{"source"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
		DBConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "connections",
			Help:      "Number of database connections by state",
		}, []string{"database", "state"}),

		// Health metrics
		LastSuccessfulSimulation: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_simulation_timestamp",
			Help:      "Unix timestamp of last successful simulation",
		}),
		LastSuccessfulSweep: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_sweep_timestamp",
			Help:      "Unix timestamp of last successful optimization sweep",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSimulationRun records one completed simulation run.
func RecordSimulationRun(strategy string, optimized bool, paths int, seconds float64) {
	DefaultMetrics.SimulationsTotal.WithLabelValues(strategy, strconv.FormatBool(optimized)).Inc()
	DefaultMetrics.PathsSimulated.Add(float64(paths))
	DefaultMetrics.SimulationDuration.WithLabelValues("simulate").Observe(seconds)
	DefaultMetrics.LastSuccessfulSimulation.Set(float64(time.Now().Unix()))
}

// RecordSimulationError records a simulation error.
func RecordSimulationError(operation, errorType string) {
	DefaultMetrics.SimulationErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordOptimizationRun records one optimization run.
func RecordOptimizationRun(status string, candidates int, seconds float64) {
	DefaultMetrics.OptimizationsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.CandidatesScored.Add(float64(candidates))
	DefaultMetrics.OptimizationDuration.Observe(seconds)
}

// RecordQuoteReceived increments the quotes received counter.
func RecordQuoteReceived() {
	DefaultMetrics.QuotesReceived.Inc()
}

// RecordStreamReconnect increments the stream reconnects counter.
func RecordStreamReconnect() {
	DefaultMetrics.StreamReconnects.Inc()
}

// RecordSnapshotServed records a market snapshot served from a source.
func RecordSnapshotServed(source string) {
	DefaultMetrics.SnapshotsServed.WithLabelValues(source).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// MarkSweepSuccess updates the last successful sweep timestamp.
func MarkSweepSuccess() {
	DefaultMetrics.LastSuccessfulSweep.Set(float64(time.Now().Unix()))
}
