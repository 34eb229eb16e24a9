package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind selects which bearer-token class a Manager operation applies to.
//
// Kind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Kind uint8

const (
	// KindAccess is an exported constant or variable used by the session engine.
	KindAccess Kind = iota
	// KindRefresh is an exported constant or variable used by the session engine.
	KindRefresh
)

// String returns the lowercase kind name used in audit metadata.
func (k Kind) String() string {
	if k == KindRefresh {
		return "refresh"
	}
	return "access"
}

var (
	// ErrSecretMissing is returned by NewManager when a kind-specific signing secret is absent.
	ErrSecretMissing = errors.New("signing secret not configured")
	// ErrAlgorithmUnsupported is an exported constant or variable used by the session engine.
	ErrAlgorithmUnsupported = errors.New("token algorithm unsupported")
	// ErrTokenMalformed is an exported constant or variable used by the session engine.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenHeaderInvalid is an exported constant or variable used by the session engine.
	ErrTokenHeaderInvalid = errors.New("token header invalid")
	// ErrTokenNotYetValid is an exported constant or variable used by the session engine.
	ErrTokenNotYetValid = errors.New("token not yet valid")
	// ErrTokenExpired is an exported constant or variable used by the session engine.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenIssuedInFuture is an exported constant or variable used by the session engine.
	ErrTokenIssuedInFuture = errors.New("token issued in the future")
	// ErrTokenSignatureInvalid is an exported constant or variable used by the session engine.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	// ErrTokenVerification is the catch-all for verification failures outside the closed reason set.
	ErrTokenVerification = errors.New("token verification failed")
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Leeway        time.Duration
	MaxFutureIAT  time.Duration
}

// Claims defines a public type used by goSession APIs.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager defines a public type used by goSession APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config Config
}

// NewManager validates the per-kind secret configuration and returns a
// Manager. A missing secret is a fatal configuration error, never a silent
// fallback.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.Join(ErrSecretMissing, errors.New("access secret empty"))
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.Join(ErrSecretMissing, errors.New("refresh secret empty"))
	}
	// JWT exp/iat carry whole-second precision, so a sub-second TTL would
	// truncate into a token that is expired at issue time.
	if cfg.AccessTTL < time.Second || cfg.RefreshTTL < time.Second {
		return nil, errors.New("token TTLs must be at least 1s")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = 10 * time.Minute
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}

	return &Manager{config: cfg}, nil
}

// TTL returns the configured lifetime for a token kind.
func (m *Manager) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return m.config.RefreshTTL
	}
	return m.config.AccessTTL
}

// Issue signs a new token of the given kind bound to userID and sessionID,
// with exp = now+TTL(kind) and nbf = iat = now.
//
// Issue may return an error when input validation, dependency calls, or security checks fail.
// Issue does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Issue(kind Kind, userID, sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL(kind))),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret(kind))
}

// Verify parses and validates a token of the given kind and returns its
// claims. Failures are mapped onto the package's closed sentinel set so the
// caller can distinguish expiry (rotation) from every other reason
// (revocation).
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Verify(tokenStr string, kind Kind) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		alg, ok := t.Header["alg"].(string)
		if !ok || alg == "" {
			return nil, ErrTokenHeaderInvalid
		}
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC || alg != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgorithmUnsupported
		}
		return m.secret(kind), nil
	})
	if err != nil {
		return nil, mapVerifyError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenVerification
	}
	if claims.IssuedAt != nil && m.config.MaxFutureIAT > 0 {
		if claims.IssuedAt.Time.After(time.Now().Add(m.config.MaxFutureIAT)) {
			return nil, ErrTokenIssuedInFuture
		}
	}

	return claims, nil
}

func (m *Manager) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return m.config.RefreshSecret
	}
	return m.config.AccessSecret
}

// mapVerifyError collapses golang-jwt's error tree onto the closed reason
// set. Sentinels from the keyfunc survive the library's errors.Join, so
// errors.Is finds them here.
func mapVerifyError(err error) error {
	switch {
	case errors.Is(err, ErrAlgorithmUnsupported):
		return ErrAlgorithmUnsupported
	case errors.Is(err, ErrTokenHeaderInvalid):
		return ErrTokenHeaderInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrTokenIssuedInFuture
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		return errors.Join(ErrTokenVerification, err)
	}
}
