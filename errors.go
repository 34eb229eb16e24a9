package goSession

import "errors"

var (
	// ErrUnauthorized is an exported constant or variable used by the session engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is an exported constant or variable used by the session engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is an exported constant or variable used by the session engine.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is an exported constant or variable used by the session engine.
	ErrAccountExists = errors.New("account already exists")
	// ErrSessionExists is an exported constant or variable used by the session engine.
	ErrSessionExists = errors.New("active session already exists")
	// ErrSessionNotFound is an exported constant or variable used by the session engine.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTokenRevoked is an exported constant or variable used by the session engine.
	ErrTokenRevoked = errors.New("refresh token revoked")
	// ErrRefreshTokenInvalid is an exported constant or variable used by the session engine.
	ErrRefreshTokenInvalid = errors.New("invalid refresh token")
	// ErrAccessTokenInvalid is an exported constant or variable used by the session engine.
	ErrAccessTokenInvalid = errors.New("invalid access token")
	// ErrSigningSecretMissing is an exported constant or variable used by the session engine.
	ErrSigningSecretMissing = errors.New("signing secret not configured")
	// ErrStoreUnavailable is an exported constant or variable used by the session engine.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the session engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInternal is an exported constant or variable used by the session engine.
	ErrInternal = errors.New("internal error")

	// ErrLogoutRequired marks terminal refresh failures. It is always joined
	// with the sentinel describing the failure, never returned alone.
	ErrLogoutRequired = errors.New("client credentials must be cleared")
)

// ShouldForceLogout reports whether the boundary layer must clear client-held
// token cookies for err. It is the explicit forced-logout signal required by
// refresh failure semantics; boundaries must not infer it from status codes.
func ShouldForceLogout(err error) bool {
	return errors.Is(err, ErrLogoutRequired)
}
