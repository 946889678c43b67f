package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// idempEntry is what a key holds: a reservation while the handler runs, then
// the recorded response.
type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func buildKey(method, path, caller, requestID string) string {
	return keyPrefix + strings.ToLower(method) + ":" + path + ":" + caller + ":" + requestID
}

type entryStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// reserve claims key for an in-flight request. false means someone holds it.
func (s entryStore) reserve(ctx context.Context, key string, e idempEntry) (bool, error) {
	e.InProgress = true
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

// load returns the entry under key; a vanished key yields ok=false.
func (s entryStore) load(ctx context.Context, key string) (idempEntry, bool, error) {
	var e idempEntry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	if err := json.Unmarshal(v, &e); err != nil {
		return e, false, err
	}
	return e, true, nil
}

func (s entryStore) complete(ctx context.Context, key string, e idempEntry) error {
	e.InProgress = false
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s entryStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
