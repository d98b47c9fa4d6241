package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Store persists session states by user ID.
type Store interface {
	// Get returns the stored state, or ok=false when there is none.
	Get(ctx context.Context, userID string) (st *State, ok bool, err error)
	Put(ctx context.Context, st *State) error
	Delete(ctx context.Context, userID string) error
}

// MemoryStore keeps states in process. It stores and hands out deep copies so
// callers never share a State. Like RedisStore, an entry expires ttl after its
// last write; a zero ttl keeps entries until deleted.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]memoryEntry
	ttl    time.Duration
	now    func() time.Time
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{states: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*State, bool, error) {
	m.mu.RLock()
	entry, ok := m.states[userID]
	m.mu.RUnlock()
	if !ok || entry.expired(m.now()) {
		return nil, false, nil
	}
	st, err := decode(entry.raw)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func (m *MemoryStore) Put(_ context.Context, st *State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	entry := memoryEntry{raw: raw}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.states[st.UserID] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.states, userID)
	m.mu.Unlock()
	return nil
}

// Prune drops expired entries and returns how many it removed.
func (m *MemoryStore) Prune() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for userID, entry := range m.states {
		if entry.expired(now) {
			delete(m.states, userID)
			pruned++
		}
	}
	return pruned
}

func decode(raw []byte) (*State, error) {
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	if st.Progress == nil {
		st.Progress = map[Flag]bool{}
	}
	return &st, nil
}
