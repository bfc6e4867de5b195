package revocation

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a MemoryStore created by NewMemoryStore.
const DefaultMaxEntries = 100000

type memEntry struct {
	until time.Time // zero value: never expires
	seq   uint64
}

// MemoryStore is the process-local fallback used when Redis is not
// configured. Revocations are lost on restart.
//
// Entries without an expiry are only removed by eviction: once MaxEntries
// is reached the oldest revocation is dropped, and that session becomes
// usable again. Use Redis when that matters.
type MemoryStore struct {
	MaxEntries int

	mu      sync.Mutex
	revoked map[string]memEntry
	seq     uint64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{MaxEntries: DefaultMaxEntries, revoked: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, sessionID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if !until.IsZero() && !until.After(now) {
		return nil
	}
	for id, e := range s.revoked {
		if !e.until.IsZero() && !e.until.After(now) {
			delete(s.revoked, id)
		}
	}
	if _, ok := s.revoked[sessionID]; !ok && s.MaxEntries > 0 {
		for len(s.revoked) >= s.MaxEntries {
			s.evictOldest()
		}
	}
	s.seq++
	s.revoked[sessionID] = memEntry{until: until, seq: s.seq}
	return nil
}

func (s *MemoryStore) evictOldest() {
	var (
		oldest string
		low    uint64
	)
	for id, e := range s.revoked {
		if low == 0 || e.seq < low {
			oldest, low = id, e.seq
		}
	}
	delete(s.revoked, oldest)
}

func (s *MemoryStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.revoked[sessionID]
	if !ok {
		return false, nil
	}
	return e.until.IsZero() || e.until.After(s.now()), nil
}

// Len reports how many revocations are currently held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revoked)
}
