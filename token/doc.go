// Package token signs and verifies the two bearer-token kinds used by
// goSession: short-lived access tokens and long-lived refresh tokens.
//
// # Claims
//
// Both kinds carry the owning user ID (`uid`), the anchoring session ID
// (`sid`), and the standard temporal claims (exp, nbf, iat). Tokens are
// HS256-signed with a kind-specific secret; access and refresh secrets are
// independent and must both be configured.
//
// # Verification errors
//
// Verify failures map onto a closed sentinel set ([ErrTokenExpired],
// [ErrTokenSignatureInvalid], ...). Callers single out [ErrTokenExpired]
// with errors.Is: expiry drives token rotation, every other failure drives
// session revocation.
//
// # Architecture boundaries
//
// This package owns token encoding only. It does NOT consult the session
// store or decide revocation policy — those responsibilities belong to the
// Engine and its flows.
//
// # What this package must NOT do
//
//   - Import goSession or session (no upward imports).
//   - Persist tokens or secrets.
//   - Fall back to a default secret when configuration is missing.
package token
