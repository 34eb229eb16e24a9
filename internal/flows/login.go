package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/token"
)

// LoginFailureKind classifies login flow failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailureAccountNotFound
	LoginFailureProvider
	LoginFailureVerifier
	LoginFailureInvalidCredentials
	LoginFailureSessionConflict
	LoginFailureSessionStore
	LoginFailureIssue
)

// LoginUserRecord is the flow-local account model used by login and register.
type LoginUserRecord struct {
	UserID       string
	Username     string
	Email        string
	PasswordHash string
}

// LoginResult carries either the issued token pair or failure metadata.
type LoginResult struct {
	Failure      LoginFailureKind
	Err          error
	UserID       string
	SessionID    string
	AccessToken  string
	RefreshToken string
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	FindByEmail     func(ctx context.Context, email string) (LoginUserRecord, error)
	VerifyPassword  func(plaintext, storedHash string) (bool, error)
	CreateSession   func(ctx context.Context, userID string) (string, error)
	IssueToken      func(kind token.Kind, userID, sessionID string) (string, error)
	AccountNotFound error
	SessionConflict error
}

// RunLogin executes credential verification, session creation, and token
// issuance. A session created here is not rolled back when a later step
// fails; the store TTL reclaims it.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) LoginResult {
	user, err := deps.FindByEmail(ctx, email)
	if err != nil {
		if deps.AccountNotFound != nil && errors.Is(err, deps.AccountNotFound) {
			return LoginResult{Failure: LoginFailureAccountNotFound, Err: err}
		}
		return LoginResult{Failure: LoginFailureProvider, Err: err}
	}

	ok, err := deps.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return LoginResult{Failure: LoginFailureVerifier, Err: err, UserID: user.UserID}
	}
	if !ok {
		return LoginResult{Failure: LoginFailureInvalidCredentials, UserID: user.UserID}
	}

	sessionID, err := deps.CreateSession(ctx, user.UserID)
	if err != nil {
		if deps.SessionConflict != nil && errors.Is(err, deps.SessionConflict) {
			return LoginResult{Failure: LoginFailureSessionConflict, Err: err, UserID: user.UserID}
		}
		return LoginResult{Failure: LoginFailureSessionStore, Err: err, UserID: user.UserID}
	}

	refresh, err := deps.IssueToken(token.KindRefresh, user.UserID, sessionID)
	if err != nil {
		return LoginResult{
			Failure:   LoginFailureIssue,
			Err:       err,
			UserID:    user.UserID,
			SessionID: sessionID,
		}
	}
	access, err := deps.IssueToken(token.KindAccess, user.UserID, sessionID)
	if err != nil {
		return LoginResult{
			Failure:   LoginFailureIssue,
			Err:       err,
			UserID:    user.UserID,
			SessionID: sessionID,
		}
	}

	return LoginResult{
		UserID:       user.UserID,
		SessionID:    sessionID,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}
