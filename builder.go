package goSession

import (
	"context"
	"errors"
	"log"

	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/flows"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/token"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goSession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	accounts  AccountProvider
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAccountProvider describes the withaccountprovider operation and its observable behavior.
//
// WithAccountProvider may return an error when input validation, dependency calls, or security checks fail.
// WithAccountProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAccountProvider(p AccountProvider) *Builder {
	b.accounts = p
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithSecrets sets the per-kind signing secrets on the pending config.
func (b *Builder) WithSecrets(accessSecret, refreshSecret []byte) *Builder {
	b.config.Token.AccessSecret = cloneBytes(accessSecret)
	b.config.Token.RefreshSecret = cloneBytes(refreshSecret)
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.accounts == nil {
		return nil, errors.New("account provider required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- SESSION STORE --------
	store := session.NewStore(b.redis, cfg.Session.RedisPrefix, cfg.Session.TTL)

	// -------- CREDENTIAL VERIFIER --------
	verifier, err := password.NewVerifier(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, err
	}

	// -------- TOKEN MANAGER --------
	tokenManager, err := token.NewManager(token.Config{
		AccessSecret:  cloneBytes(cfg.Token.AccessSecret),
		RefreshSecret: cloneBytes(cfg.Token.RefreshSecret),
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		Leeway:        cfg.Token.Leeway,
		MaxFutureIAT:  cfg.Token.MaxFutureIAT,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cloneConfig(cfg),
		sessionStore: store,
		verifier:     verifier,
		tokenManager: tokenManager,
		accounts:     b.accounts,
	}

	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.flows = flows.New(buildFlowDeps(engine, cfg))

	b.built = true

	return engine, nil
}

func buildFlowDeps(e *Engine, cfg Config) flows.Deps {
	loginDeps := flows.LoginDeps{
		FindByEmail: func(ctx context.Context, email string) (flows.LoginUserRecord, error) {
			rec, err := e.accounts.FindByEmail(ctx, email)
			if err != nil {
				return flows.LoginUserRecord{}, err
			}
			return flows.LoginUserRecord{
				UserID:       rec.UserID,
				Username:     rec.Username,
				Email:        rec.Email,
				PasswordHash: rec.PasswordHash,
			}, nil
		},
		VerifyPassword:  e.verifier.Verify,
		CreateSession:   e.sessionStore.Create,
		IssueToken:      e.tokenManager.Issue,
		AccountNotFound: ErrAccountNotFound,
		SessionConflict: session.ErrConflict,
	}

	return flows.Deps{
		Login: loginDeps,
		Register: flows.RegisterDeps{
			CreateAccount: func(ctx context.Context, in flows.RegisterInput) (flows.LoginUserRecord, error) {
				rec, err := e.accounts.CreateAccount(ctx, CreateAccountInput{
					Username: in.Username,
					Email:    in.Email,
					Password: in.Password,
				})
				if err != nil {
					return flows.LoginUserRecord{}, err
				}
				return flows.LoginUserRecord{
					UserID:       rec.UserID,
					Username:     rec.Username,
					Email:        rec.Email,
					PasswordHash: rec.PasswordHash,
				}, nil
			},
			DuplicateAccount: ErrAccountExists,
			Login:            loginDeps,
		},
		Logout: flows.LogoutDeps{
			DeleteSession: e.sessionStore.Delete,
		},
		Refresh: flows.RefreshDeps{
			GetSession:      e.sessionStore.Get,
			AppendDenyToken: e.sessionStore.AppendDenyListToken,
			VerifyToken: func(tokenStr string, kind token.Kind) error {
				_, err := e.tokenManager.Verify(tokenStr, kind)
				return err
			},
			IssueToken:      e.tokenManager.Issue,
			SessionNotFound: session.ErrNotFound,
			TokenExpired:    token.ErrTokenExpired,
			Warn:            log.Printf,
		},
		Validate: flows.ValidateDeps{
			ParseAccess: func(tokenStr string) (*token.Claims, error) {
				return e.tokenManager.Verify(tokenStr, token.KindAccess)
			},
			StrictSession:   cfg.Security.StrictValidate,
			GetSession:      e.sessionStore.Get,
			SessionNotFound: session.ErrNotFound,
		},
	}
}
