// Package flows contains pure-function orchestrators for every Engine operation.
//
// Each flow function (RunLogin, RunRefresh, RunValidate, etc.) accepts a typed
// dependency struct and returns a classified result without side-effects beyond
// those dependencies. This design enables exhaustive unit testing with mock
// dependencies and keeps the Engine type thin.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the account provider, password verifier,
// session store, and token manager. They do NOT own any of these resources —
// ownership stays with the Engine, which also maps failure kinds to sentinel
// errors and emits audit events and metrics.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goSession (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependency functions.
package flows
