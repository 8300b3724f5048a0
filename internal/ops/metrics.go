package ops

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters of a single run on a private registry
type Metrics struct {
	registry *prometheus.Registry

	received       prometheus.Counter
	accepted       prometheus.Counter
	rejected       *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	presented      prometheus.Gauge
	runDuration    prometheus.Gauge
	lastRun        prometheus.Gauge
}

// NewMetrics creates and registers the run metrics
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.received = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zaptop_receipts_received_total",
		Help: "Zap receipts delivered by the relay",
	})
	m.accepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zaptop_receipts_accepted_total",
		Help: "Zap receipts that passed ingestion checks",
	})
	m.rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zaptop_receipts_rejected_total",
		Help: "Zap receipts dropped at ingestion, by reason",
	}, []string{"reason"})
	m.decodeFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zaptop_decode_failures_total",
		Help: "Receipt fields that could not be decoded, by stage",
	}, []string{"stage"})
	m.presented = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "zaptop_zaps_presented",
		Help: "Zaps printed by the last run",
	})
	m.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "zaptop_run_duration_seconds",
		Help: "Wall time of the last run",
	})
	m.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "zaptop_last_run_timestamp_seconds",
		Help: "Unix time the last run finished",
	})

	m.registry.MustRegister(
		m.received,
		m.accepted,
		m.rejected,
		m.decodeFailures,
		m.presented,
		m.runDuration,
		m.lastRun,
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Received counts a receipt delivered by the relay
func (m *Metrics) Received() {
	if m == nil {
		return
	}
	m.received.Inc()
}

// Accepted counts a receipt kept for the batch
func (m *Metrics) Accepted() {
	if m == nil {
		return
	}
	m.accepted.Inc()
}

// Rejected counts a receipt dropped at ingestion
func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// DecodeFailure counts a field that fell back to its sentinel
func (m *Metrics) DecodeFailure(stage string) {
	if m == nil {
		return
	}
	m.decodeFailures.WithLabelValues(stage).Inc()
}

// Finish records the outcome of a run
func (m *Metrics) Finish(presented int, duration time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.presented.Set(float64(presented))
	m.runDuration.Set(duration.Seconds())
	m.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry in Prometheus text format, atomically
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
