// Package goSession provides a session-lifecycle engine with JWT access and
// refresh tokens, Redis-backed session records, and deny-list-based refresh
// token revocation.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (TokenPair, AuthResult, MetricsSnapshot, etc.). All internal
// coordination — flow orchestration, audit dispatch, metric storage — lives
// under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//   - Import any sub-package that re-imports goSession (no import cycles).
//
// # Performance contract
//
// Validate is the hot path. It performs one token verification plus at most
// one Redis GET (strict mode). Login, Refresh, and Logout are allowed one
// Redis script evaluation per store mutation.
package goSession
