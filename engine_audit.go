package goSession

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess      = "login_success"
	auditEventLoginFailure      = "login_failure"
	auditEventRegisterSuccess   = "register_success"
	auditEventRegisterFailure   = "register_failure"
	auditEventRegisterDuplicate = "register_duplicate"
	auditEventLogoutSession     = "logout_session"
	auditEventRefreshSuccess    = "refresh_success"
	auditEventRefreshFailure    = "refresh_failure"
	auditEventRefreshDenied     = "refresh_denied"
	auditEventRefreshRevoked    = "refresh_revoked"
)

// AuditErrorCode defines a public type used by goSession APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrUnauthorized       AuditErrorCode = "unauthorized"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrAccountNotFound    AuditErrorCode = "account_not_found"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrSessionConflict    AuditErrorCode = "session_conflict"
	auditErrSessionNotFound    AuditErrorCode = "session_not_found"
	auditErrTokenRevoked       AuditErrorCode = "token_revoked"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrConfiguration      AuditErrorCode = "configuration"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		UserID:      userID,
		SessionID:   sessionID,
		IP:          clientIPFromContext(ctx),
		Success:     success,
		ForceLogout: ShouldForceLogout(err),
		Metadata:    metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrAccountNotFound):
		return auditErrAccountNotFound
	case errors.Is(err, ErrAccountExists):
		return auditErrDuplicate
	case errors.Is(err, ErrSessionExists):
		return auditErrSessionConflict
	case errors.Is(err, ErrSessionNotFound):
		return auditErrSessionNotFound
	case errors.Is(err, ErrTokenRevoked):
		return auditErrTokenRevoked
	case errors.Is(err, ErrRefreshTokenInvalid),
		errors.Is(err, ErrAccessTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrSigningSecretMissing):
		return auditErrConfiguration
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	default:
		return auditErrInternal
	}
}
