package goSession

import internalmetrics "github.com/MrEthical07/goSession/internal/metrics"

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricLoginSuccess is an exported constant or variable used by the session engine.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the session engine.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricRegisterSuccess is an exported constant or variable used by the session engine.
	MetricRegisterSuccess = internalmetrics.MetricRegisterSuccess
	// MetricRegisterDuplicate is an exported constant or variable used by the session engine.
	MetricRegisterDuplicate = internalmetrics.MetricRegisterDuplicate
	// MetricRegisterFailure is an exported constant or variable used by the session engine.
	MetricRegisterFailure = internalmetrics.MetricRegisterFailure
	// MetricLogout is an exported constant or variable used by the session engine.
	MetricLogout = internalmetrics.MetricLogout
	// MetricRefreshSuccess is an exported constant or variable used by the session engine.
	MetricRefreshSuccess = internalmetrics.MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the session engine.
	MetricRefreshFailure = internalmetrics.MetricRefreshFailure
	// MetricRefreshDenied is an exported constant or variable used by the session engine.
	MetricRefreshDenied = internalmetrics.MetricRefreshDenied
	// MetricRefreshRevoked is an exported constant or variable used by the session engine.
	MetricRefreshRevoked = internalmetrics.MetricRefreshRevoked
	// MetricAccessTokenRotated is an exported constant or variable used by the session engine.
	MetricAccessTokenRotated = internalmetrics.MetricAccessTokenRotated
	// MetricRefreshTokenRotated is an exported constant or variable used by the session engine.
	MetricRefreshTokenRotated = internalmetrics.MetricRefreshTokenRotated
	// MetricSessionCreated is an exported constant or variable used by the session engine.
	MetricSessionCreated = internalmetrics.MetricSessionCreated
	// MetricSessionConflict is an exported constant or variable used by the session engine.
	MetricSessionConflict = internalmetrics.MetricSessionConflict
	// MetricSessionInvalidated is an exported constant or variable used by the session engine.
	MetricSessionInvalidated = internalmetrics.MetricSessionInvalidated
	// MetricValidateSuccess is an exported constant or variable used by the session engine.
	MetricValidateSuccess = internalmetrics.MetricValidateSuccess
	// MetricValidateFailure is an exported constant or variable used by the session engine.
	MetricValidateFailure = internalmetrics.MetricValidateFailure
	// MetricValidateLatency is an exported constant or variable used by the session engine.
	MetricValidateLatency = internalmetrics.MetricValidateLatency

	metricIDCount = internalmetrics.MetricIDCount
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	})
}
