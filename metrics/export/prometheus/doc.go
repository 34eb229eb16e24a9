// Package prometheus provides a Prometheus collector for goSession metrics.
//
// [NewPrometheusExporter] accepts a [goSession.Engine] and implements
// prometheus.Collector over engine snapshots. Counter names are prefixed
// gosession_*_total; the single histogram is gosession_validate_latency_seconds.
// [PrometheusExporter.Handler] serves the collector from a private registry for
// callers that do not run one of their own.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry — callers register the
//     Collector or mount the Handler.
//   - Mutate engine state.
package prometheus
