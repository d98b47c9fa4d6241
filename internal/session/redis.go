package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keySessionFmt = "session:%s"

// RedisStore keeps states as JSON values that expire after ttl of inactivity.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStore) key(userID string) string { return fmt.Sprintf(keySessionFmt, userID) }

func (r *RedisStore) Get(ctx context.Context, userID string) (*State, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	st, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func (r *RedisStore) Put(ctx context.Context, st *State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(st.UserID), raw, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, r.key(userID)).Err()
}
