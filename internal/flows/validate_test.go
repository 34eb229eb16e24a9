package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/token"
)

var errBadToken = errors.New("bad token")

func validateDeps(strict bool, rec *session.Record) ValidateDeps {
	return ValidateDeps{
		ParseAccess: func(tokenStr string) (*token.Claims, error) {
			if tokenStr != "good-access" {
				return nil, errBadToken
			}
			return &token.Claims{UserID: "u-1", SessionID: "s-1"}, nil
		},
		StrictSession: strict,
		GetSession: func(_ context.Context, sessionID string) (*session.Record, error) {
			if rec == nil || rec.ID != sessionID {
				return nil, errSessionMissing
			}
			return rec, nil
		},
		SessionNotFound: errSessionMissing,
	}
}

func TestValidateStrictRequiresLiveSession(t *testing.T) {
	rec := &session.Record{ID: "s-1", UserID: "u-1"}

	res := RunValidate(context.Background(), "good-access", validateDeps(true, rec))
	if res.Failure != ValidateFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if res.Claims == nil || res.Claims.SessionID != "s-1" {
		t.Fatalf("unexpected claims: %+v", res.Claims)
	}
	if res.Session == nil || res.Session.ID != "s-1" {
		t.Fatalf("strict validation must return the session record, got %+v", res.Session)
	}

	// A cryptographically valid token dies with its session.
	res = RunValidate(context.Background(), "good-access", validateDeps(true, nil))
	if res.Failure != ValidateFailureSessionNotFound {
		t.Fatalf("expected session-not-found, got %d", res.Failure)
	}
}

func TestValidateNonStrictSkipsStore(t *testing.T) {
	deps := validateDeps(false, nil)
	deps.GetSession = func(_ context.Context, _ string) (*session.Record, error) {
		t.Fatal("non-strict validation must not touch the store")
		return nil, nil
	}

	res := RunValidate(context.Background(), "good-access", deps)
	if res.Failure != ValidateFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if res.Session != nil {
		t.Fatal("non-strict validation must not return a session record")
	}
}

func TestValidateRejectsBadToken(t *testing.T) {
	res := RunValidate(context.Background(), "forged", validateDeps(true, nil))
	if res.Failure != ValidateFailureUnauthorized {
		t.Fatalf("expected unauthorized, got %d", res.Failure)
	}
	if !errors.Is(res.Err, errBadToken) {
		t.Fatalf("expected parse error to surface, got %v", res.Err)
	}
}

func TestValidateStoreError(t *testing.T) {
	deps := validateDeps(true, nil)
	deps.GetSession = func(_ context.Context, _ string) (*session.Record, error) {
		return nil, errStoreDown
	}

	res := RunValidate(context.Background(), "good-access", deps)
	if res.Failure != ValidateFailureStore {
		t.Fatalf("expected store failure, got %d", res.Failure)
	}
}
