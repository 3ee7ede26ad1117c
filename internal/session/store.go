package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"invogen/internal/domain"
)

// Store is an in-memory session store. Nothing is persisted: sessions live for
// a fixed TTL and die with the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a Store with the given session TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session around the given company profile.
func (s *Store) Create(profile domain.CompanyProfile) *domain.Session {
	now := s.now()
	sess := &domain.Session{
		ID:        uuid.New(),
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session for id, or ErrSessionNotFound / ErrSessionExpired.
func (s *Store) Get(id uuid.UUID) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.now().After(sess.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}
	return sess, nil
}

// SetLogoKey records the storage key of the session's uploaded logo and
// returns the key it replaces, if any.
func (s *Store) SetLogoKey(id uuid.UUID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	old := sess.LogoKey
	sess.LogoKey = key
	return old, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper launches a goroutine that sweeps expired sessions at the given
// interval until stop is closed.
func (s *Store) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
