package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/password"
)

// ErrInvalidInput is returned by CreateAccount when a required field is
// missing or malformed.
var ErrInvalidInput = errors.New("invalid account input")

// ErrRedisUnavailable is an exported constant or variable used by the session engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

const createAccountScript = `
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("SET", KEYS[2], ARGV[2])
return 1
`

var createAccountLua = redis.NewScript(createAccountScript)

type record struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    string `json:"created_at"`
}

// RedisProvider is a Redis-backed [goSession.AccountProvider]. Accounts are
// kept without TTL under a primary id key plus an email index key.
type RedisProvider struct {
	redis  redis.UniversalClient
	prefix string
	hasher *password.Verifier
}

var _ goSession.AccountProvider = (*RedisProvider)(nil)

// NewRedisProvider creates a provider on the given client. prefix sets the
// key namespace (default "gs"); cost selects the bcrypt cost, 0 for the
// library default.
func NewRedisProvider(client redis.UniversalClient, prefix string, cost int) (*RedisProvider, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = "gs"
	}

	hasher, err := password.NewVerifier(password.Config{Cost: cost})
	if err != nil {
		return nil, err
	}

	return &RedisProvider{
		redis:  client,
		prefix: prefix,
		hasher: hasher,
	}, nil
}

func (p *RedisProvider) accountKey(id string) string {
	return p.prefix + ":a:" + id
}

func (p *RedisProvider) emailKey(email string) string {
	return p.prefix + ":e:" + strings.ToLower(email)
}

// FindByEmail looks an account up through the email index. Returns
// [goSession.ErrAccountNotFound] when either the index entry or the record
// is absent.
func (p *RedisProvider) FindByEmail(ctx context.Context, email string) (goSession.AccountRecord, error) {
	id, err := p.redis.Get(ctx, p.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return goSession.AccountRecord{}, goSession.ErrAccountNotFound
		}
		return goSession.AccountRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	data, err := p.redis.Get(ctx, p.accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return goSession.AccountRecord{}, goSession.ErrAccountNotFound
		}
		return goSession.AccountRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return goSession.AccountRecord{}, err
	}

	return goSession.AccountRecord{
		UserID:       rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
	}, nil
}

// CreateAccount hashes the password and writes the record plus its email
// index in one atomic script. Returns [goSession.ErrAccountExists] when the
// email is already indexed.
func (p *RedisProvider) CreateAccount(ctx context.Context, input goSession.CreateAccountInput) (goSession.AccountRecord, error) {
	if input.Username == "" || input.Email == "" || !strings.Contains(input.Email, "@") {
		return goSession.AccountRecord{}, ErrInvalidInput
	}

	hash, err := p.hasher.Hash(input.Password)
	if err != nil {
		return goSession.AccountRecord{}, err
	}

	rec := record{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(&rec)
	if err != nil {
		return goSession.AccountRecord{}, err
	}

	created, err := createAccountLua.Run(
		ctx,
		p.redis,
		[]string{p.accountKey(rec.ID), p.emailKey(rec.Email)},
		data,
		rec.ID,
	).Int64()
	if err != nil {
		return goSession.AccountRecord{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if created == 0 {
		return goSession.AccountRecord{}, goSession.ErrAccountExists
	}

	return goSession.AccountRecord{
		UserID:       rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
	}, nil
}
