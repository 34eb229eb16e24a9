package prometheus

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() goSession.MetricsSnapshot
	AuditDropped() uint64
}

// PrometheusExporter exposes goSession metrics as a [prom.Collector].
//
// Every collection cycle reads one engine snapshot and emits const metrics,
// so the exporter holds no mutable state of its own.
type PrometheusExporter struct {
	source       metricsSource
	counterDescs map[goSession.MetricID]*prom.Desc
	histDescs    map[goSession.MetricID]*prom.Desc
	droppedDesc  *prom.Desc
}

var _ prom.Collector = (*PrometheusExporter)(nil)

// NewPrometheusExporter creates a Prometheus exporter that reads from the given [goSession.Engine].
func NewPrometheusExporter(engine *goSession.Engine) *PrometheusExporter {
	return NewPrometheusExporterFromSource(engine)
}

// NewPrometheusExporterFromSource creates a Prometheus exporter from a
// custom metrics source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	exporter := &PrometheusExporter{
		source:       source,
		counterDescs: make(map[goSession.MetricID]*prom.Desc, len(internaldefs.CounterDefs)),
		histDescs:    make(map[goSession.MetricID]*prom.Desc, len(internaldefs.HistogramDefs)),
		droppedDesc: prom.NewDesc(
			"gosession_audit_dropped_total",
			"Dropped audit events due to dispatcher backpressure.",
			nil, nil,
		),
	}

	for _, def := range internaldefs.CounterDefs {
		exporter.counterDescs[def.ID] = prom.NewDesc(def.Name, def.Help, nil, nil)
	}
	for _, def := range internaldefs.HistogramDefs {
		exporter.histDescs[def.ID] = prom.NewDesc(def.Name, def.Help, nil, nil)
	}

	return exporter
}

// Describe implements [prom.Collector].
func (p *PrometheusExporter) Describe(ch chan<- *prom.Desc) {
	for _, def := range internaldefs.CounterDefs {
		ch <- p.counterDescs[def.ID]
	}
	for _, def := range internaldefs.HistogramDefs {
		ch <- p.histDescs[def.ID]
	}
	ch <- p.droppedDesc
}

// Collect implements [prom.Collector]. It reads one snapshot from the source
// and emits every defined counter and histogram, zero-valued when absent.
func (p *PrometheusExporter) Collect(ch chan<- prom.Metric) {
	if p == nil || p.source == nil {
		return
	}

	snapshot := p.source.MetricsSnapshot()

	for _, def := range internaldefs.CounterDefs {
		ch <- prom.MustNewConstMetric(
			p.counterDescs[def.ID],
			prom.CounterValue,
			float64(snapshot.Counters[def.ID]),
		)
	}

	for _, def := range internaldefs.HistogramDefs {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[def.ID]))

		buckets := make(map[float64]uint64, len(internaldefs.HistogramBounds))
		for i, bound := range internaldefs.HistogramBounds {
			buckets[bound] = cumulative[i]
		}
		count := cumulative[len(cumulative)-1]

		// Sum is not tracked in core snapshots; exposed as 0 for a stable shape.
		ch <- prom.MustNewConstHistogram(p.histDescs[def.ID], count, 0, buckets)
	}

	ch <- prom.MustNewConstMetric(p.droppedDesc, prom.CounterValue, float64(p.source.AuditDropped()))
}

// Handler returns an http.Handler that serves Prometheus metrics from a
// private registry containing only this exporter.
func (p *PrometheusExporter) Handler() http.Handler {
	registry := prom.NewRegistry()
	registry.MustRegister(p)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
