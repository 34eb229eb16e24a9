package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when the target session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// ErrConflict is returned by Create when the user already owns an active session.
var ErrConflict = errors.New("session already exists")

// ErrRedisUnavailable is an exported constant or variable used by the session engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrRecordCorrupt is returned when a stored session blob fails to decode.
var ErrRecordCorrupt = errors.New("session record corrupt")

const (
	createStatusConflict int64 = 0
	createStatusCreated  int64 = 1

	appendStatusNotFound int64 = 0
	appendStatusUpdated  int64 = 1
	appendStatusCorrupt  int64 = 2
)

const createSessionScript = `
if redis.call("EXISTS", KEYS[2]) == 1 then
  return {0}
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
redis.call("SET", KEYS[2], ARGV[3], "PX", ARGV[2])
return {1}
`

var createSessionLua = redis.NewScript(createSessionScript)

const appendDenyScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return {0}
end
local ok, rec = pcall(cjson.decode, data)
if not ok or type(rec) ~= "table" then
  return {2}
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl <= 0 then
  return {0}
end
local list = rec["refresh_tokens_deny_list"]
if type(list) ~= "table" then
  list = {}
end
list[#list + 1] = ARGV[1]
rec["refresh_tokens_deny_list"] = list
rec["updated_at"] = ARGV[2]
local out = cjson.encode(rec)
redis.call("SET", KEYS[1], out, "PX", ttl)
return {1, out}
`

var appendDenyLua = redis.NewScript(appendDenyScript)

const deleteSessionScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return 0
end
local ok, rec = pcall(cjson.decode, data)
if ok and type(rec) == "table" and rec["user_id"] then
  redis.call("DEL", ARGV[1] .. rec["user_id"])
end
redis.call("DEL", KEYS[1])
return 1
`

var deleteSessionLua = redis.NewScript(deleteSessionScript)

// Store is a Redis-backed auth-session store that handles creation with the
// single-session-per-user guard, expiration, atomic deny-list appends, and
// idempotent deletion.
//
//	Docs: docs/session.md
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the Redis key namespace; ttl <= 0 selects [DefaultTTL].
//
//	Docs: docs/session.md
func NewStore(redis redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "gs"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		redis:  redis,
		prefix: prefix,
		ttl:    ttl,
	}
}

// TTL returns the fixed record lifetime the store applies at create time.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":s:" + sessionID
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":u:" + userID
}

func (s *Store) userKeyPrefix() string {
	return s.prefix + ":u:"
}

// Create allocates a new session for userID and returns its ID. The session
// ID is a ULID, so IDs sort lexicographically by creation time. Fails with
// [ErrConflict] while a non-expired session for userID exists; both the
// record and the per-user index are written in one atomic script under the
// store TTL.
//
//	Performance: 1 Lua EVALSHA (existence check + 2 SETs).
//	Docs: docs/session.md
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	now := time.Now()
	rec := Record{
		ID:                    ulid.Make().String(),
		UserID:                userID,
		RefreshTokensDenyList: []string{},
		CreatedAt:             nowStamp(now),
		UpdatedAt:             nowStamp(now),
	}

	data, err := json.Marshal(&rec)
	if err != nil {
		return "", err
	}

	result, err := createSessionLua.Run(
		ctx,
		s.redis,
		[]string{s.key(rec.ID), s.userKey(userID)},
		data,
		s.ttl.Milliseconds(),
		rec.ID,
	).Result()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	code, err := scriptStatus(result)
	if err != nil {
		return "", err
	}
	if code == createStatusConflict {
		return "", ErrConflict
	}

	return rec.ID, nil
}

// Get retrieves a session by ID. Returns [ErrNotFound] when the record is
// absent or has expired out of Redis.
//
//	Performance: 1 Redis GET.
//	Docs: docs/session.md
func (s *Store) Get(ctx context.Context, sessionID string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return decodeRecord(data)
}

// AppendDenyListToken atomically appends refreshToken to the session's
// deny-list and bumps updated_at, preserving the record's remaining TTL.
// Returns the updated record, or [ErrNotFound] when the session no longer
// exists. The append runs as a Lua script so concurrent refresh calls for
// the same session cannot lose entries.
//
//	Performance: 1 Lua EVALSHA (GET + PTTL + SET).
//	Docs: docs/session.md
func (s *Store) AppendDenyListToken(ctx context.Context, sessionID, refreshToken string) (*Record, error) {
	result, err := appendDenyLua.Run(
		ctx,
		s.redis,
		[]string{s.key(sessionID)},
		refreshToken,
		nowStamp(time.Now()),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	parts, ok := result.([]interface{})
	if !ok || len(parts) == 0 {
		return nil, fmt.Errorf("%w: invalid deny-list script response", ErrRedisUnavailable)
	}

	code, ok := parts[0].(int64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid deny-list script status", ErrRedisUnavailable)
	}

	switch code {
	case appendStatusNotFound:
		return nil, ErrNotFound
	case appendStatusCorrupt:
		return nil, ErrRecordCorrupt
	case appendStatusUpdated:
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: missing updated record payload", ErrRedisUnavailable)
		}

		var blob []byte
		switch v := parts[1].(type) {
		case string:
			blob = []byte(v)
		case []byte:
			blob = v
		default:
			return nil, fmt.Errorf("%w: invalid updated record payload", ErrRedisUnavailable)
		}

		return decodeRecord(blob)
	default:
		return nil, fmt.Errorf("%w: unknown deny-list script status", ErrRedisUnavailable)
	}
}

// IsTokenDenied reports deny-list membership for refreshToken. Fails with
// [ErrNotFound] when the session is absent.
func (s *Store) IsTokenDenied(ctx context.Context, sessionID, refreshToken string) (bool, error) {
	rec, err := s.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return rec.Denied(refreshToken), nil
}

// Delete removes a session and its per-user index. Absence of the record is
// not an error: logout must succeed whether or not the session still exists.
//
//	Performance: 1 Lua EVALSHA (GET + 2 DELs).
//	Docs: docs/session.md
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	err := deleteSessionLua.Run(
		ctx,
		s.redis,
		[]string{s.key(sessionID)},
		s.userKeyPrefix(),
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// ActiveSessionID returns the session ID currently indexed for userID, or
// [ErrNotFound] when the user has no active session.
func (s *Store) ActiveSessionID(ctx context.Context, userID string) (string, error) {
	id, err := s.redis.Get(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return id, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

func decodeRecord(data []byte) (*Record, error) {
	rec := &Record{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, errors.Join(ErrRecordCorrupt, err)
	}
	if rec.RefreshTokensDenyList == nil {
		rec.RefreshTokensDenyList = []string{}
	}
	return rec, nil
}

func scriptStatus(result interface{}) (int64, error) {
	parts, ok := result.([]interface{})
	if !ok || len(parts) == 0 {
		return 0, fmt.Errorf("%w: invalid script response", ErrRedisUnavailable)
	}
	code, ok := parts[0].(int64)
	if !ok {
		return 0, fmt.Errorf("%w: invalid script status", ErrRedisUnavailable)
	}
	return code, nil
}
