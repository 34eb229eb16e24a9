package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPassBytes = 8
	// maxPassBytes is bcrypt's input ceiling; longer inputs are silently
	// truncated by the algorithm, so they are rejected instead.
	maxPassBytes = 72
)

// ErrPasswordLength is an exported constant or variable used by the session engine.
var ErrPasswordLength = errors.New("password must be between 8 and 72 bytes")

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Cost int
}

// Verifier defines a public type used by goSession APIs.
//
// Verifier instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Verifier struct {
	config Config
}

// NewVerifier describes the newverifier operation and its observable behavior.
//
// NewVerifier may return an error when input validation, dependency calls, or security checks fail.
// NewVerifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Cost == 0 {
		cfg.Cost = bcrypt.DefaultCost
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		return nil, errors.New("invalid bcrypt cost configuration")
	}
	return &Verifier{config: cfg}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (v *Verifier) Hash(plaintext string) (string, error) {
	// Password processing uses raw string bytes exactly as provided (no Unicode normalization).
	if len(plaintext) < minPassBytes || len(plaintext) > maxPassBytes {
		return "", ErrPasswordLength
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.config.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares plaintext against storedHash. A mismatch is (false, nil);
// any other bcrypt failure (malformed hash, unsupported version) is
// (false, err) and must be treated as an internal error, not a failed
// credential check.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (v *Verifier) Verify(plaintext, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
