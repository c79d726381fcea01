// Package memory holds process-local stores for single-instance and test setups.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/session"
	"github.com/google/uuid"
)

var _ session.RefreshStore = (*RefreshStore)(nil)

type entry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// RefreshStore is a mutex-guarded map. Expired entries read as absent and
// are dropped when touched.
type RefreshStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewRefreshStore(now func() time.Time) *RefreshStore {
	if now == nil {
		now = time.Now
	}
	return &RefreshStore{entries: make(map[string]entry), now: now}
}

func (s *RefreshStore) Put(_ context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return session.ErrInvalidTTL
	}
	s.mu.Lock()
	s.entries[token] = entry{userID: userID, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *RefreshStore) Get(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.RLock()
	e, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return uuid.Nil, session.ErrTokenNotFound
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.entries[token]; still && cur == e {
			delete(s.entries, token)
		}
		s.mu.Unlock()
		return uuid.Nil, session.ErrTokenNotFound
	}
	return e.userID, nil
}

func (s *RefreshStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

func (s *RefreshStore) Ping(context.Context) error { return nil }

func (s *RefreshStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
