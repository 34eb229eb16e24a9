package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/token"
)

// ValidateFailureKind classifies validation failures for root-level mapping.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureUnauthorized
	ValidateFailureSessionNotFound
	ValidateFailureStore
)

// ValidateResult returns either the decoded claims (plus the session record
// in strict mode) or a classified failure.
type ValidateResult struct {
	Failure ValidateFailureKind
	Err     error
	Claims  *token.Claims
	Session *session.Record
}

// ValidateDeps captures access-token validation dependencies.
type ValidateDeps struct {
	ParseAccess     func(tokenStr string) (*token.Claims, error)
	StrictSession   bool
	GetSession      func(ctx context.Context, sessionID string) (*session.Record, error)
	SessionNotFound error
}

// RunValidate verifies an access token. With StrictSession set, the session
// record must also still exist; a deleted session makes the token revoked
// even though it verifies cryptographically.
func RunValidate(ctx context.Context, tokenStr string, deps ValidateDeps) ValidateResult {
	claims, err := deps.ParseAccess(tokenStr)
	if err != nil {
		return ValidateResult{Failure: ValidateFailureUnauthorized, Err: err}
	}

	if !deps.StrictSession {
		return ValidateResult{Claims: claims}
	}

	sess, err := deps.GetSession(ctx, claims.SessionID)
	if err != nil {
		if deps.SessionNotFound != nil && errors.Is(err, deps.SessionNotFound) {
			return ValidateResult{Failure: ValidateFailureSessionNotFound, Err: err, Claims: claims}
		}
		return ValidateResult{Failure: ValidateFailureStore, Err: err, Claims: claims}
	}

	return ValidateResult{Claims: claims, Session: sess}
}
