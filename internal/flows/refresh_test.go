package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/token"
)

var (
	errSessionMissing = errors.New("session missing")
	errExpired        = errors.New("expired")
	errBadSignature   = errors.New("bad signature")
	errStoreDown      = errors.New("store down")
)

type refreshHarness struct {
	record     *session.Record
	appended   []string
	verifyErrs map[token.Kind]error
	issued     map[token.Kind]int
}

func newRefreshHarness() *refreshHarness {
	return &refreshHarness{
		record: &session.Record{
			ID:                    "s-1",
			UserID:                "u-1",
			RefreshTokensDenyList: []string{},
		},
		verifyErrs: map[token.Kind]error{},
		issued:     map[token.Kind]int{},
	}
}

func (h *refreshHarness) deps() RefreshDeps {
	return RefreshDeps{
		GetSession: func(_ context.Context, sessionID string) (*session.Record, error) {
			if h.record == nil || h.record.ID != sessionID {
				return nil, errSessionMissing
			}
			return h.record, nil
		},
		AppendDenyToken: func(_ context.Context, _, refreshToken string) (*session.Record, error) {
			h.appended = append(h.appended, refreshToken)
			h.record.RefreshTokensDenyList = append(h.record.RefreshTokensDenyList, refreshToken)
			return h.record, nil
		},
		VerifyToken: func(_ string, kind token.Kind) error {
			return h.verifyErrs[kind]
		},
		IssueToken: func(kind token.Kind, userID, sessionID string) (string, error) {
			h.issued[kind]++
			return "new-" + kind.String() + "-" + userID + "-" + sessionID, nil
		},
		SessionNotFound: errSessionMissing,
		TokenExpired:    errExpired,
	}
}

func refreshRequest() RefreshRequest {
	return RefreshRequest{
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		SessionID:    "s-1",
		UserID:       "u-1",
	}
}

func TestRefreshBothTokensValidKeepsBoth(t *testing.T) {
	h := newRefreshHarness()

	res := RunRefresh(context.Background(), refreshRequest(), h.deps())
	if res.Failure != RefreshFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if res.AccessToken != "old-access" || res.RefreshToken != "old-refresh" {
		t.Fatalf("valid tokens must be kept, got %q / %q", res.AccessToken, res.RefreshToken)
	}
	if res.RotatedAccess || res.RotatedRefresh {
		t.Fatal("no rotation expected for valid tokens")
	}
	if len(h.appended) != 0 {
		t.Fatalf("no deny-list append expected, got %v", h.appended)
	}
}

func TestRefreshExpiredAccessRotatesAccessOnly(t *testing.T) {
	h := newRefreshHarness()
	h.verifyErrs[token.KindAccess] = errExpired

	res := RunRefresh(context.Background(), refreshRequest(), h.deps())
	if res.Failure != RefreshFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if !res.RotatedAccess || res.RotatedRefresh {
		t.Fatalf("expected access rotation only, got access=%v refresh=%v", res.RotatedAccess, res.RotatedRefresh)
	}
	if res.AccessToken == "old-access" {
		t.Fatal("expected a fresh access token")
	}
	if res.RefreshToken != "old-refresh" {
		t.Fatal("refresh token must be kept")
	}
	if h.issued[token.KindAccess] != 1 || h.issued[token.KindRefresh] != 0 {
		t.Fatalf("unexpected issue counts: %v", h.issued)
	}
}

func TestRefreshExpiredRefreshRotatesRefreshOnly(t *testing.T) {
	h := newRefreshHarness()
	h.verifyErrs[token.KindRefresh] = errExpired

	res := RunRefresh(context.Background(), refreshRequest(), h.deps())
	if res.Failure != RefreshFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if res.RotatedAccess || !res.RotatedRefresh {
		t.Fatalf("expected refresh rotation only, got access=%v refresh=%v", res.RotatedAccess, res.RotatedRefresh)
	}
	if res.RefreshToken == "old-refresh" {
		t.Fatal("expected a fresh refresh token")
	}
	if len(h.appended) != 0 {
		t.Fatalf("expiry must not touch the deny-list, got %v", h.appended)
	}
}

func TestRefreshBothExpiredRotatesBoth(t *testing.T) {
	h := newRefreshHarness()
	h.verifyErrs[token.KindAccess] = errExpired
	h.verifyErrs[token.KindRefresh] = errExpired

	res := RunRefresh(context.Background(), refreshRequest(), h.deps())
	if res.Failure != RefreshFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if !res.RotatedAccess || !res.RotatedRefresh {
		t.Fatalf("expected both tokens rotated, got access=%v refresh=%v", res.RotatedAccess, res.RotatedRefresh)
	}
}

func TestRefreshInvalidRefreshRevokesPresentedToken(t *testing.T) {
	h := newRefreshHarness()
	h.verifyErrs[token.KindRefresh] = errBadSignature

	res := RunRefresh(context.Background(), refreshRequest(), h.deps())
	if res.Failure != RefreshFailureRefreshInvalid {
		t.Fatalf("expected refresh-invalid failure, got %d", res.Failure)
	}
	if !res.ForceLogout || !res.Revoked {
		t.Fatalf("expected force-logout revocation, got %+v", res)
	}
	if len(h.appended) != 1 || h.appended[0] != "old-refresh" {
		t.Fatalf("expected presented refresh token on the deny-list, got %v", h.appended)
	}
	if h.issued[token.KindAccess] != 0 || h.issued[token.KindRefresh] != 0 {
		t.Fatalf("no token may be issued on revocation, got %v", h.issued)
	}
}

func TestRefreshInvalidAccessRevokesRefreshToken(t *testing.T) {
	h := newRefreshHarness()
	h.verifyErrs[token.KindAccess] = errBadSignature

	res := RunRefresh(context.Background(), refreshRequest(), h.deps())
	if res.Failure != RefreshFailureAccessInvalid {
		t.Fatalf("expected access-invalid failure, got %d", res.Failure)
	}
	if !res.ForceLogout || !res.Revoked {
		t.Fatalf("expected force-logout revocation, got %+v", res)
	}
	// The refresh token is the credential that must stop working, even when
	// the access token is the one that failed.
	if len(h.appended) != 1 || h.appended[0] != "old-refresh" {
		t.Fatalf("expected presented refresh token on the deny-list, got %v", h.appended)
	}
}

func TestRefreshDeniedTokenIsTerminal(t *testing.T) {
	h := newRefreshHarness()
	h.record.RefreshTokensDenyList = []string{"old-refresh"}

	res := RunRefresh(context.Background(), refreshRequest(), h.deps())
	if res.Failure != RefreshFailureDenied {
		t.Fatalf("expected denied failure, got %d", res.Failure)
	}
	if !res.ForceLogout {
		t.Fatal("deny-list hit must force logout")
	}
	if len(h.appended) != 0 {
		t.Fatalf("denied token must not be re-appended, got %v", h.appended)
	}
}

func TestRefreshSessionNotFoundForcesLogout(t *testing.T) {
	h := newRefreshHarness()
	h.record = nil

	res := RunRefresh(context.Background(), refreshRequest(), h.deps())
	if res.Failure != RefreshFailureSessionNotFound {
		t.Fatalf("expected session-not-found failure, got %d", res.Failure)
	}
	if !res.ForceLogout {
		t.Fatal("missing session must force logout")
	}
}

func TestRefreshStoreErrorIsNotForcedLogout(t *testing.T) {
	h := newRefreshHarness()
	deps := h.deps()
	deps.GetSession = func(_ context.Context, _ string) (*session.Record, error) {
		return nil, errStoreDown
	}

	res := RunRefresh(context.Background(), refreshRequest(), deps)
	if res.Failure != RefreshFailureStore {
		t.Fatalf("expected store failure, got %d", res.Failure)
	}
	if res.ForceLogout {
		t.Fatal("store outage must not clear client credentials")
	}
}

func TestRefreshRevocationSurvivesDenyAppendFailure(t *testing.T) {
	h := newRefreshHarness()
	h.verifyErrs[token.KindRefresh] = errBadSignature

	var warned bool
	deps := h.deps()
	deps.AppendDenyToken = func(_ context.Context, _, _ string) (*session.Record, error) {
		return nil, errStoreDown
	}
	deps.Warn = func(string, ...any) { warned = true }

	res := RunRefresh(context.Background(), refreshRequest(), deps)
	if res.Failure != RefreshFailureRefreshInvalid {
		t.Fatalf("expected refresh-invalid failure, got %d", res.Failure)
	}
	if !res.ForceLogout {
		t.Fatal("revocation must still force logout when the append fails")
	}
	if !warned {
		t.Fatal("expected a warning for the failed deny-list append")
	}
}
