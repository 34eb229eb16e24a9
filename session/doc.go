// Package session provides Redis-backed persistence for auth-session
// records: the server-side anchor that a login creates and that every token
// references.
//
// # Record layout
//
// Sessions are stored as JSON objects
// {id, user_id, refresh_tokens_deny_list, created_at, updated_at} under a
// 24-hour TTL, with a per-user secondary index key enforcing the
// one-active-session-per-account policy at create time.
//
// # Atomicity
//
// Deny-list appends and deletes run as Lua scripts: the append is a
// single-key read-modify-write executed atomically inside Redis (preserving
// the record's remaining TTL), and the delete removes both the record and
// its user index in one step. Concurrent refresh calls against the same
// session therefore cannot lose deny-list entries.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Record] model.
// It does NOT interpret tokens or decide revocation policy — those
// responsibilities belong to the Engine.
//
// # What this package must NOT do
//
//   - Import goSession or token (no upward imports).
//   - Verify token signatures or inspect claims.
//   - Retry failed Redis operations.
package session
