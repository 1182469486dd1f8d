package journal

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// It backs local single-user runs and tests; data is lost on restart.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string]Session)}
}

// Add implements [Store.Add].
func (s *MemStore) Add(ctx context.Context, session Session) (Session, error) {
	now := time.Now().UTC()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.SessionType == "" {
		session.SessionType = SessionFreeForm
	}
	if session.NPCsMentioned == nil {
		session.NPCsMentioned = []string{}
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}
	session.StructuredData.EnsureIDs()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return session, nil
}

// Get implements [Store.Get].
func (s *MemStore) Get(ctx context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

// List implements [Store.List].
func (s *MemStore) List(ctx context.Context) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		result = append(result, session)
	}
	slices.SortFunc(result, func(a, b Session) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

// Update implements [Store.Update].
func (s *MemStore) Update(ctx context.Context, id string, update SessionUpdate) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}

	updated := update.apply(session)
	updated.StructuredData.EnsureIDs()
	updated.UpdatedAt = time.Now().UTC()

	s.sessions[id] = updated
	return updated, nil
}

// Remove implements [Store.Remove].
func (s *MemStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}
