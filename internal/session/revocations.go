package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyRevokedPrefix = "revoked:"

// Revocations remembers tokens revoked by logout until they would have
// expired anyway.
type Revocations interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// MemoryRevocations keeps revoked tokens in process.
type MemoryRevocations struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{tokens: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, token string, until time.Time) error {
	m.mu.Lock()
	m.tokens[token] = until
	m.mu.Unlock()
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	until, ok := m.tokens[token]
	return ok && m.now().Before(until), nil
}

// Prune forgets tokens past their expiry and returns how many it dropped.
func (m *MemoryRevocations) Prune() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for token, until := range m.tokens {
		if !now.Before(until) {
			delete(m.tokens, token)
			pruned++
		}
	}
	return pruned
}

// RedisRevocations shares revoked tokens between instances. Each entry
// expires with its token, so nothing needs pruning.
type RedisRevocations struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb, now: time.Now}
}

// revokedKey stores a digest so bearer tokens never sit in Redis as is.
func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyRevokedPrefix + hex.EncodeToString(sum[:])
}

func (r *RedisRevocations) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKey(token), 1, ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
