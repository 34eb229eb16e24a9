package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/token"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureSessionNotFound
	RefreshFailureDenied
	RefreshFailureRefreshInvalid
	RefreshFailureAccessInvalid
	RefreshFailureIssue
	RefreshFailureStore
)

// RefreshRequest carries the credentials presented for token refresh.
type RefreshRequest struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	UserID       string
}

// RefreshResult carries either the (possibly rotated) token pair or failure
// metadata. ForceLogout instructs the boundary to clear client credentials.
type RefreshResult struct {
	Failure        RefreshFailureKind
	Err            error
	UserID         string
	SessionID      string
	ForceLogout    bool
	Revoked        bool
	RotatedAccess  bool
	RotatedRefresh bool
	AccessToken    string
	RefreshToken   string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	GetSession      func(ctx context.Context, sessionID string) (*session.Record, error)
	AppendDenyToken func(ctx context.Context, sessionID, refreshToken string) (*session.Record, error)
	VerifyToken     func(tokenStr string, kind token.Kind) error
	IssueToken      func(kind token.Kind, userID, sessionID string) (string, error)
	SessionNotFound error
	TokenExpired    error
	Warn            func(string, ...any)
}

// verifyOutcome classifies a single token verification for the refresh policy.
type verifyOutcome int

const (
	outcomeValid verifyOutcome = iota
	outcomeExpired
	outcomeInvalid
)

// tokenAction is what the refresh policy does with a presented token.
type tokenAction int

const (
	actionKeep tokenAction = iota
	actionRotate
	actionRevoke
)

// refreshPolicy is the decision table applied to each presented token. It is
// identical for both kinds: expiry alone rotates, any other verification
// failure revokes the presented refresh token and terminates the session's
// trust in it.
var refreshPolicy = [3]tokenAction{
	outcomeValid:   actionKeep,
	outcomeExpired: actionRotate,
	outcomeInvalid: actionRevoke,
}

func classify(err error, expired error) verifyOutcome {
	switch {
	case err == nil:
		return outcomeValid
	case expired != nil && errors.Is(err, expired):
		return outcomeExpired
	default:
		return outcomeInvalid
	}
}

// RunRefresh executes the rotate-vs-revoke refresh policy.
//
// The presented refresh token is checked against the session deny-list
// first; membership is terminal. Each token is then verified and acted on
// per refreshPolicy. A revocation appends the presented refresh token to the
// deny-list regardless of which token kind failed, because the refresh token
// is the credential that must stop working on resubmission.
func RunRefresh(ctx context.Context, req RefreshRequest, deps RefreshDeps) RefreshResult {
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}

	sess, err := deps.GetSession(ctx, req.SessionID)
	if err != nil {
		if deps.SessionNotFound != nil && errors.Is(err, deps.SessionNotFound) {
			return RefreshResult{
				Failure:     RefreshFailureSessionNotFound,
				Err:         err,
				SessionID:   req.SessionID,
				ForceLogout: true,
			}
		}
		return RefreshResult{
			Failure:   RefreshFailureStore,
			Err:       err,
			SessionID: req.SessionID,
		}
	}

	if sess.Denied(req.RefreshToken) {
		return RefreshResult{
			Failure:     RefreshFailureDenied,
			UserID:      sess.UserID,
			SessionID:   sess.ID,
			ForceLogout: true,
		}
	}

	result := RefreshResult{
		UserID:       sess.UserID,
		SessionID:    sess.ID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}

	refreshErr := deps.VerifyToken(req.RefreshToken, token.KindRefresh)
	switch refreshPolicy[classify(refreshErr, deps.TokenExpired)] {
	case actionRevoke:
		return runRevoke(ctx, req, sess, RefreshFailureRefreshInvalid, refreshErr, deps)
	case actionRotate:
		rotated, err := deps.IssueToken(token.KindRefresh, sess.UserID, sess.ID)
		if err != nil {
			result.Failure = RefreshFailureIssue
			result.Err = err
			return result
		}
		result.RefreshToken = rotated
		result.RotatedRefresh = true
	case actionKeep:
	}

	accessErr := deps.VerifyToken(req.AccessToken, token.KindAccess)
	switch refreshPolicy[classify(accessErr, deps.TokenExpired)] {
	case actionRevoke:
		return runRevoke(ctx, req, sess, RefreshFailureAccessInvalid, accessErr, deps)
	case actionRotate:
		rotated, err := deps.IssueToken(token.KindAccess, sess.UserID, sess.ID)
		if err != nil {
			result.Failure = RefreshFailureIssue
			result.Err = err
			return result
		}
		result.AccessToken = rotated
		result.RotatedAccess = true
	case actionKeep:
	}

	return result
}

func runRevoke(
	ctx context.Context,
	req RefreshRequest,
	sess *session.Record,
	failure RefreshFailureKind,
	cause error,
	deps RefreshDeps,
) RefreshResult {
	if _, err := deps.AppendDenyToken(ctx, sess.ID, req.RefreshToken); err != nil {
		deps.Warn("goSession: deny-list append failed during revocation")
	}
	return RefreshResult{
		Failure:     failure,
		Err:         cause,
		UserID:      sess.UserID,
		SessionID:   sess.ID,
		ForceLogout: true,
		Revoked:     true,
	}
}
