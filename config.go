package goSession

import (
	"errors"
	"net/http"
	"time"
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token    TokenConfig
	Session  SessionConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Security SecurityConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by goSession APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Leeway        time.Duration
	MaxFutureIAT  time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goSession APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	TTL         time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by goSession APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Cost int
}

// AuditConfig defines a public type used by goSession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig defines a public type used by goSession APIs.
//
// SecurityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SecurityConfig struct {
	StrictValidate       bool
	RequireSecureCookies bool
	SameSitePolicy       http.SameSite
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration: 15m access tokens, 24h
// refresh tokens, strict validation, audit and metrics disabled. Secrets are
// left empty and must be set before Build.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:    15 * time.Minute,
			RefreshTTL:   24 * time.Hour,
			Leeway:       0,
			MaxFutureIAT: 10 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix: "gs",
			TTL:         24 * time.Hour,
		},
		Password: PasswordConfig{
			Cost: 10,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Security: SecurityConfig{
			StrictValidate:       true,
			RequireSecureCookies: true,
			SameSitePolicy:       http.SameSiteStrictMode,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.AccessSecret = cloneBytes(cfg.Token.AccessSecret)
	out.Token.RefreshSecret = cloneBytes(cfg.Token.RefreshSecret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Token
	if len(c.Token.AccessSecret) == 0 {
		return errors.Join(ErrSigningSecretMissing, errors.New("Token AccessSecret is empty"))
	}
	if len(c.Token.RefreshSecret) == 0 {
		return errors.Join(ErrSigningSecretMissing, errors.New("Token RefreshSecret is empty"))
	}
	// Token TTLs round to whole seconds on the wire (JWT exp/iat precision).
	if c.Token.AccessTTL < time.Second {
		return errors.New("Token AccessTTL must be at least 1s")
	}
	if c.Token.RefreshTTL < time.Second {
		return errors.New("Token RefreshTTL must be at least 1s")
	}
	if c.Token.AccessTTL >= c.Token.RefreshTTL {
		return errors.New("Token AccessTTL must be shorter than RefreshTTL")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2m")
	}

	// Session
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}
	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}
	if c.Session.TTL < c.Token.RefreshTTL {
		return errors.New("Session TTL must cover the refresh token lifetime")
	}

	// Password
	if c.Password.Cost < 4 || c.Password.Cost > 31 {
		return errors.New("Password Cost must be a valid bcrypt cost (4..31)")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	// Security
	switch c.Security.SameSitePolicy {
	case http.SameSiteDefaultMode, http.SameSiteLaxMode, http.SameSiteStrictMode, http.SameSiteNoneMode:
	default:
		return errors.New("Security SameSitePolicy is invalid")
	}
	if c.Security.SameSitePolicy == http.SameSiteNoneMode && !c.Security.RequireSecureCookies {
		return errors.New("Security SameSitePolicy None requires RequireSecureCookies")
	}

	return nil
}
