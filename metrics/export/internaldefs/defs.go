package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef defines a public type used by goSession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSession APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session engine.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Successful login attempts."},
	{ID: goSession.MetricLoginFailure, Name: "gosession_login_failure_total", Help: "Failed login attempts."},
	{ID: goSession.MetricRegisterSuccess, Name: "gosession_register_success_total", Help: "Successful registrations."},
	{ID: goSession.MetricRegisterDuplicate, Name: "gosession_register_duplicate_total", Help: "Registration attempts rejected as duplicate."},
	{ID: goSession.MetricRegisterFailure, Name: "gosession_register_failure_total", Help: "Failed registrations."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Logout operations."},
	{ID: goSession.MetricRefreshSuccess, Name: "gosession_refresh_success_total", Help: "Successful refresh operations."},
	{ID: goSession.MetricRefreshFailure, Name: "gosession_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: goSession.MetricRefreshDenied, Name: "gosession_refresh_denied_total", Help: "Refresh attempts with a deny-listed refresh token."},
	{ID: goSession.MetricRefreshRevoked, Name: "gosession_refresh_revoked_total", Help: "Refresh attempts that revoked the presented refresh token."},
	{ID: goSession.MetricAccessTokenRotated, Name: "gosession_access_token_rotated_total", Help: "Access tokens reissued during refresh."},
	{ID: goSession.MetricRefreshTokenRotated, Name: "gosession_refresh_token_rotated_total", Help: "Refresh tokens reissued during refresh."},
	{ID: goSession.MetricSessionCreated, Name: "gosession_session_created_total", Help: "Created sessions."},
	{ID: goSession.MetricSessionConflict, Name: "gosession_session_conflict_total", Help: "Session creations rejected because an active session exists."},
	{ID: goSession.MetricSessionInvalidated, Name: "gosession_session_invalidated_total", Help: "Invalidated sessions."},
	{ID: goSession.MetricValidateSuccess, Name: "gosession_validate_success_total", Help: "Successful access-token validations."},
	{ID: goSession.MetricValidateFailure, Name: "gosession_validate_failure_total", Help: "Failed access-token validations."},
}

// HistogramDefs is an exported constant or variable used by the session engine.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricValidateLatency, Name: "gosession_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session engine.
//
// The final +Inf bucket is implicit; snapshot bucket 8 holds its count.
var HistogramBounds = []float64{
	0.005,
	0.01,
	0.025,
	0.05,
	0.1,
	0.25,
	0.5,
}

// HistogramBoundSuffix is an exported constant or variable used by the session engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
