// Package audit defines the audit event model, sink interfaces, and the
// asynchronous dispatcher used by the goSession engine.
//
// # Delivery model
//
// Events are emitted into a buffered channel and forwarded to the configured
// sink by a single background goroutine. Delivery is best-effort: with
// DropIfFull set, a full buffer increments a drop counter instead of
// blocking the request path.
//
// # Architecture boundaries
//
// This package owns event transport only. Event names and error codes are
// chosen by the engine; sinks are supplied by integrators.
//
// # What this package must NOT do
//
//   - Import goSession or any sibling package.
//   - Perform blocking I/O on the emit path.
//   - Interpret event contents.
package audit
