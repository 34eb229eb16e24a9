// Package password wraps bcrypt credential hashing and verification for
// goSession.
//
// # Verification contract
//
// [Verifier.Verify] is a pure comparison over the stored hash. A wrong
// password is (false, nil); a malformed hash or library failure is
// (false, err) so callers never conflate an internal fault with a failed
// credential check. The secret comparison itself is constant-time inside
// bcrypt.
//
// # What this package must NOT do
//
//   - Import goSession (no upward imports).
//   - Store or log plaintext passwords.
//   - Decide authentication outcomes (Engine policy).
package password
