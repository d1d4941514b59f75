package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory builds a fresh session for a new visitor.
type Factory func(ctx context.Context, id string) *Session

// Store keeps sessions in memory keyed by an opaque id. Idle sessions expire after
// ttl; expiry is checked lazily whenever the store is accessed. At most limit sessions
// are kept; the least recently seen one is evicted to make room.
type Store struct {
	factory Factory
	ttl     time.Duration
	limit   int
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// NewStore builds a store. A zero ttl keeps sessions until evicted, a zero limit
// keeps any number of them.
func NewStore(factory Factory, ttl time.Duration, limit int) *Store {
	return &Store{
		factory: factory,
		ttl:     ttl,
		limit:   limit,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the session for id, creating one under a new id when id is unknown or
// expired. created tells the caller to hand the new id to the client.
func (s *Store) Get(ctx context.Context, id string) (sess *Session, created bool) {
	s.mu.Lock()
	now := s.now()
	s.sweep(now)
	if e, ok := s.entries[id]; ok && id != "" {
		e.lastSeen = now
		s.mu.Unlock()
		return e.session, false
	}
	s.mu.Unlock()

	// The factory may fetch the model list, so it runs unlocked.
	newID := uuid.NewString()
	sess = s.factory(ctx, newID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 {
		for len(s.entries) >= s.limit {
			s.evictOldest()
		}
	}
	s.entries[newID] = &entry{session: sess, lastSeen: s.now()}
	return sess, true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
	return len(s.entries)
}

func (s *Store) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, id)
		}
	}
}

func (s *Store) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range s.entries {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	delete(s.entries, oldestID)
}
