package flows

import (
	"context"
	"errors"
)

// RegisterFailureKind classifies register flow failures for root-level mapping.
type RegisterFailureKind int

const (
	RegisterFailureNone RegisterFailureKind = iota
	RegisterFailureDuplicate
	RegisterFailureProvider
	RegisterFailureLogin
)

// RegisterInput is the flow-local account creation payload. Password is
// plaintext; the account provider hashes it before storage.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegisterResult carries the created account plus the login outcome.
type RegisterResult struct {
	Failure RegisterFailureKind
	Err     error
	UserID  string
	Login   LoginResult
}

// RegisterDeps captures register flow dependencies.
type RegisterDeps struct {
	CreateAccount    func(ctx context.Context, in RegisterInput) (LoginUserRecord, error)
	DuplicateAccount error
	Login            LoginDeps
}

// RunRegister creates the account and then runs the login flow with the
// submitted credentials. Register is login's caller, not a separate token
// path; a created account is kept even when the login step fails.
func RunRegister(ctx context.Context, in RegisterInput, deps RegisterDeps) RegisterResult {
	user, err := deps.CreateAccount(ctx, in)
	if err != nil {
		if deps.DuplicateAccount != nil && errors.Is(err, deps.DuplicateAccount) {
			return RegisterResult{Failure: RegisterFailureDuplicate, Err: err}
		}
		return RegisterResult{Failure: RegisterFailureProvider, Err: err}
	}

	login := RunLogin(ctx, in.Email, in.Password, deps.Login)
	if login.Failure != LoginFailureNone {
		return RegisterResult{
			Failure: RegisterFailureLogin,
			Err:     login.Err,
			UserID:  user.UserID,
			Login:   login,
		}
	}

	return RegisterResult{
		UserID: user.UserID,
		Login:  login,
	}
}
