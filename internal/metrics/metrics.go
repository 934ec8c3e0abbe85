// Package metrics records per-run counters in a private Prometheus
// registry. A batch run has no scrape endpoint, so the registry is dumped
// in the node-exporter textfile format at exit.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hansel"

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	reg         *prometheus.Registry
	samples     *prometheus.CounterVec
	inputErrors prometheus.Counter
	sampleTime  *prometheus.HistogramVec
	tilesFound  prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Samples subtyped, by input kind and QC status",
		}, []string{"kind", "qc_status"}),
		inputErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_input_errors_total",
			Help:      "Samples rejected because their input could not be read",
		}),
		sampleTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sample_duration_seconds",
			Help:      "Wall time to scan, resolve and grade one sample",
			Buckets:   []float64{0.01, 0.05, 0.25, 1, 5, 15, 60, 300},
		}, []string{"kind"}),
		tilesFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tiles_matched",
			Help:      "Tiles counted as present per sample",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	m.reg.MustRegister(m.samples, m.inputErrors, m.sampleTime, m.tilesFound)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveSample records one finished sample.
func (m *Metrics) ObserveSample(kind, status string, tiles int, d time.Duration) {
	if m == nil {
		return
	}
	m.samples.WithLabelValues(kind, status).Inc()
	m.sampleTime.WithLabelValues(kind).Observe(d.Seconds())
	m.tilesFound.Observe(float64(tiles))
}

// InputError records a sample that produced no record.
func (m *Metrics) InputError() {
	if m == nil {
		return
	}
	m.inputErrors.Inc()
}

// WriteTextfile dumps the registry to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.reg)
}
