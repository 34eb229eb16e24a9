package goSession

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/token"
)

// TokenPair is returned by [Engine.Login], [Engine.Register], and
// [Engine.Refresh]. It carries the bearer credentials the boundary layer
// writes into the access_token and refresh_token cookies, plus the session
// and user identifiers the client must present on [Engine.Refresh].
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	UserID       string
}

// RegisterRequest is the input for [Engine.Register].
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// RefreshRequest is the input for [Engine.Refresh]. All four fields are
// extracted from client-held state by the boundary layer.
type RefreshRequest struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	UserID       string
}

// AuthResult is returned by [Engine.Validate]. Session is populated only
// when strict validation is enabled.
type AuthResult struct {
	UserID    string
	SessionID string
	Claims    *token.Claims
	Session   *session.Record
}

// AccountRecord is the account view consumed by the engine: identity plus
// the stored password hash. Profile fields beyond these stay with the
// account provider.
type AccountRecord struct {
	UserID       string
	Username     string
	Email        string
	PasswordHash string
}

// CreateAccountInput is the input for [AccountProvider.CreateAccount].
// Password is plaintext; the provider hashes it before storage.
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
}

// AccountProvider is the interface callers must implement to integrate
// goSession with their user database. A Redis-backed reference
// implementation lives in the accounts package.
//
// FindByEmail returns [ErrAccountNotFound] when no account matches.
// CreateAccount returns [ErrAccountExists] when the email is already taken.
type AccountProvider interface {
	FindByEmail(ctx context.Context, email string) (AccountRecord, error)
	CreateAccount(ctx context.Context, input CreateAccountInput) (AccountRecord, error)
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine’s audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
