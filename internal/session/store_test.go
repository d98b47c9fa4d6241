package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, NewState("u1")))
	now = now.Add(30 * time.Minute)
	require.NoError(t, s.Put(ctx, NewState("u2")))

	now = now.Add(45 * time.Minute)
	_, ok, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "u1 was last written 75 minutes ago")

	_, ok, err = s.Get(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 1, s.Prune())
	assert.Len(t, s.states, 1)
}

func TestMemoryStoreWriteRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, NewState("u1")))
	now = now.Add(50 * time.Minute)
	require.NoError(t, s.Put(ctx, NewState("u1")))
	now = now.Add(50 * time.Minute)

	_, ok, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, s.Prune())
}

func TestMemoryStoreZeroTTLKeepsEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, NewState("u1")))
	now = now.Add(365 * 24 * time.Hour)

	_, ok, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, s.Prune())
}

func TestMemoryRevocations(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewMemoryRevocations()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "t1", now.Add(time.Hour)))
	require.NoError(t, r.Revoke(ctx, "t2", now.Add(3*time.Hour)))

	revoked, err := r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, revoked, "an expired token needs no revocation")

	assert.Equal(t, 1, r.Prune())
	revoked, err = r.IsRevoked(ctx, "t2")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokedKeyHidesToken(t *testing.T) {
	key := revokedKey("header.payload.signature")
	assert.Contains(t, key, keyRevokedPrefix)
	assert.NotContains(t, key, "payload")
	assert.Len(t, key, len(keyRevokedPrefix)+64)
	assert.Equal(t, key, revokedKey("header.payload.signature"))
}
