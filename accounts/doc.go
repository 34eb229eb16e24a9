// Package accounts provides a Redis-backed reference implementation of
// [goSession.AccountProvider].
//
// Records are stored as JSON under a primary key per account id with a
// secondary index key per email, so email uniqueness is enforced at create
// time with one atomic script. Password hashing happens inside the provider;
// the engine only ever sees the stored hash.
//
// # What this package must NOT do
//
//   - Expose plaintext passwords after CreateAccount returns.
//   - Apply a TTL to account records.
package accounts
