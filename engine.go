package goSession

import (
	"context"
	"errors"
	"strconv"
	"time"

	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/flows"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/token"
)

// Engine defines a public type used by goSession APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	sessionStore *session.Store
	verifier     *password.Verifier
	tokenManager *token.Manager
	accounts     AccountProvider
	flows        flows.Service
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Config returns a defensive copy of the engine configuration. Boundary
// layers read cookie policy and token lifetimes from it.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return cloneConfig(e.config)
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Ping reports session-store availability and round-trip latency.
func (e *Engine) Ping(ctx context.Context) (time.Duration, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}
	d, err := e.sessionStore.Ping(ctx)
	if err != nil {
		return d, e.mapStoreError(err)
	}
	return d, nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if e == nil || !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	result := e.flows.Login(ctx, email, password)
	if result.Failure != flows.LoginFailureNone {
		err := e.loginFailureError(result)
		e.metricInc(MetricLoginFailure)
		if result.Failure == flows.LoginFailureSessionConflict {
			e.metricInc(MetricSessionConflict)
		}
		e.emitAudit(ctx, auditEventLoginFailure, false, result.UserID, result.SessionID, err, func() map[string]string {
			return map[string]string{
				"reason": loginFailureReason(result.Failure),
			}
		})
		return nil, err
	}

	e.metricInc(MetricSessionCreated)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, result.UserID, result.SessionID, nil, nil)

	return &TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		SessionID:    result.SessionID,
		UserID:       result.UserID,
	}, nil
}

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*TokenPair, error) {
	if e == nil || !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	result := e.flows.Register(ctx, flows.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})

	switch result.Failure {
	case flows.RegisterFailureNone:
		e.metricInc(MetricRegisterSuccess)
		e.metricInc(MetricSessionCreated)
		e.emitAudit(ctx, auditEventRegisterSuccess, true, result.UserID, result.Login.SessionID, nil, nil)
		return &TokenPair{
			AccessToken:  result.Login.AccessToken,
			RefreshToken: result.Login.RefreshToken,
			SessionID:    result.Login.SessionID,
			UserID:       result.UserID,
		}, nil

	case flows.RegisterFailureDuplicate:
		e.metricInc(MetricRegisterFailure)
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", "", ErrAccountExists, func() map[string]string {
			return map[string]string{
				"email": req.Email,
			}
		})
		return nil, ErrAccountExists

	case flows.RegisterFailureLogin:
		// Account creation succeeded; the account is kept even though the
		// login step failed.
		err := e.loginFailureError(result.Login)
		e.metricInc(MetricRegisterFailure)
		if result.Login.Failure == flows.LoginFailureSessionConflict {
			e.metricInc(MetricSessionConflict)
		}
		e.emitAudit(ctx, auditEventRegisterFailure, false, result.UserID, result.Login.SessionID, err, func() map[string]string {
			return map[string]string{
				"reason": loginFailureReason(result.Login.Failure),
			}
		})
		return nil, err

	default:
		err := errors.Join(ErrInternal, result.Err)
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", "", err, func() map[string]string {
			return map[string]string{
				"reason": "provider",
			}
		})
		return nil, err
	}
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, sessionID string) error {
	if e == nil || !e.flows.Initialized() {
		return ErrEngineNotReady
	}

	if err := e.flows.Logout(ctx, sessionID); err != nil {
		mapped := e.mapStoreError(err)
		e.emitAudit(ctx, auditEventLogoutSession, false, "", sessionID, mapped, nil)
		return mapped
	}

	e.metricInc(MetricLogout)
	e.metricInc(MetricSessionInvalidated)
	e.emitAudit(ctx, auditEventLogoutSession, true, "", sessionID, nil, nil)
	return nil
}

// Refresh describes the refresh operation and its observable behavior.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	if e == nil || !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	result := e.flows.Refresh(ctx, flows.RefreshRequest{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		SessionID:    req.SessionID,
		UserID:       req.UserID,
	})

	switch result.Failure {
	case flows.RefreshFailureNone:
		e.metricInc(MetricRefreshSuccess)
		if result.RotatedAccess {
			e.metricInc(MetricAccessTokenRotated)
		}
		if result.RotatedRefresh {
			e.metricInc(MetricRefreshTokenRotated)
		}
		e.emitAudit(ctx, auditEventRefreshSuccess, true, result.UserID, result.SessionID, nil, func() map[string]string {
			return map[string]string{
				"rotated_access":  strconv.FormatBool(result.RotatedAccess),
				"rotated_refresh": strconv.FormatBool(result.RotatedRefresh),
			}
		})
		return &TokenPair{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			SessionID:    result.SessionID,
			UserID:       result.UserID,
		}, nil

	case flows.RefreshFailureSessionNotFound:
		err := errors.Join(ErrLogoutRequired, ErrSessionNotFound)
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, result.UserID, result.SessionID, err, nil)
		return nil, err

	case flows.RefreshFailureDenied:
		err := errors.Join(ErrLogoutRequired, ErrTokenRevoked)
		e.metricInc(MetricRefreshFailure)
		e.metricInc(MetricRefreshDenied)
		e.emitAudit(ctx, auditEventRefreshDenied, false, result.UserID, result.SessionID, err, nil)
		return nil, err

	case flows.RefreshFailureRefreshInvalid:
		err := errors.Join(ErrLogoutRequired, ErrRefreshTokenInvalid)
		e.metricInc(MetricRefreshFailure)
		e.metricInc(MetricRefreshRevoked)
		e.emitAudit(ctx, auditEventRefreshRevoked, false, result.UserID, result.SessionID, err, func() map[string]string {
			return map[string]string{
				"kind": token.KindRefresh.String(),
			}
		})
		return nil, err

	case flows.RefreshFailureAccessInvalid:
		err := errors.Join(ErrLogoutRequired, ErrAccessTokenInvalid)
		e.metricInc(MetricRefreshFailure)
		e.metricInc(MetricRefreshRevoked)
		e.emitAudit(ctx, auditEventRefreshRevoked, false, result.UserID, result.SessionID, err, func() map[string]string {
			return map[string]string{
				"kind": token.KindAccess.String(),
			}
		})
		return nil, err

	case flows.RefreshFailureIssue:
		err := e.mapIssueError(result.Err)
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, result.UserID, result.SessionID, err, nil)
		return nil, err

	default:
		err := e.mapStoreError(result.Err)
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, result.UserID, result.SessionID, err, nil)
		return nil, err
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Validate(ctx context.Context, tokenStr string) (*AuthResult, error) {
	if e == nil || !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	result := e.flows.Validate(ctx, tokenStr)
	e.metricObserve(MetricValidateLatency, time.Since(start))

	switch result.Failure {
	case flows.ValidateFailureNone:
		e.metricInc(MetricValidateSuccess)
		return &AuthResult{
			UserID:    result.Claims.UserID,
			SessionID: result.Claims.SessionID,
			Claims:    result.Claims,
			Session:   result.Session,
		}, nil
	case flows.ValidateFailureUnauthorized:
		e.metricInc(MetricValidateFailure)
		return nil, errors.Join(ErrUnauthorized, result.Err)
	case flows.ValidateFailureSessionNotFound:
		e.metricInc(MetricValidateFailure)
		return nil, errors.Join(ErrUnauthorized, ErrSessionNotFound)
	default:
		e.metricInc(MetricValidateFailure)
		return nil, e.mapStoreError(result.Err)
	}
}

func (e *Engine) loginFailureError(result flows.LoginResult) error {
	switch result.Failure {
	case flows.LoginFailureAccountNotFound:
		return ErrAccountNotFound
	case flows.LoginFailureInvalidCredentials:
		return ErrInvalidCredentials
	case flows.LoginFailureVerifier:
		return errors.Join(ErrInternal, result.Err)
	case flows.LoginFailureSessionConflict:
		return ErrSessionExists
	case flows.LoginFailureSessionStore, flows.LoginFailureProvider:
		return e.mapStoreError(result.Err)
	case flows.LoginFailureIssue:
		return e.mapIssueError(result.Err)
	default:
		return errors.Join(ErrInternal, result.Err)
	}
}

func loginFailureReason(failure flows.LoginFailureKind) string {
	switch failure {
	case flows.LoginFailureAccountNotFound:
		return "account_not_found"
	case flows.LoginFailureInvalidCredentials:
		return "invalid_credentials"
	case flows.LoginFailureVerifier:
		return "verifier_error"
	case flows.LoginFailureSessionConflict:
		return "session_conflict"
	case flows.LoginFailureSessionStore:
		return "session_store"
	case flows.LoginFailureProvider:
		return "account_provider"
	case flows.LoginFailureIssue:
		return "token_issue"
	default:
		return "unknown"
	}
}

func (e *Engine) mapStoreError(err error) error {
	if errors.Is(err, session.ErrRedisUnavailable) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return errors.Join(ErrInternal, err)
}

func (e *Engine) mapIssueError(err error) error {
	if errors.Is(err, token.ErrSecretMissing) {
		return errors.Join(ErrSigningSecretMissing, err)
	}
	return errors.Join(ErrInternal, err)
}
