// Package middleware exposes an HTTP middleware adapter for access-token
// enforcement built on top of goSession.Engine validation.
//
// [Guard] reads the bearer token from the Authorization header, falling back
// to the access_token cookie, calls Engine.Validate, and injects the
// validated result into the request context for handlers to read via
// [AuthResultFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// authentication logic itself — all decisions are delegated to Engine.Validate.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Validate.
package middleware
