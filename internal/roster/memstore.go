package roster

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// It backs local single-user runs and tests; data is lost on restart.
type MemStore struct {
	mu     sync.RWMutex
	npcs   map[string]NPC    // keyed by ID
	byName map[string]string // exact name -> ID
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		npcs:   make(map[string]NPC),
		byName: make(map[string]string),
	}
}

// Add implements [Store.Add]. Name uniqueness is enforced under the store
// lock, so two concurrent Adds for the same name cannot both succeed.
func (s *MemStore) Add(ctx context.Context, npc NPC) (NPC, error) {
	now := time.Now().UTC()
	if npc.ID == "" {
		npc.ID = uuid.NewString()
	}
	if npc.Status == "" {
		npc.Status = DefaultStatus
	}
	if npc.CreatedAt.IsZero() {
		npc.CreatedAt = now
	}
	if npc.UpdatedAt.IsZero() {
		npc.UpdatedAt = now
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[npc.Name]; exists {
		return NPC{}, ErrDuplicateName
	}

	s.npcs[npc.ID] = cloneNPC(npc)
	s.byName[npc.Name] = npc.ID
	return npc, nil
}

// Get implements [Store.Get].
func (s *MemStore) Get(ctx context.Context, id string) (NPC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	npc, ok := s.npcs[id]
	if !ok {
		return NPC{}, ErrNotFound
	}
	return cloneNPC(npc), nil
}

// GetByName implements [Store.GetByName]. Matching is exact and case-sensitive.
func (s *MemStore) GetByName(ctx context.Context, name string) (NPC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return NPC{}, ErrNotFound
	}
	return cloneNPC(s.npcs[id]), nil
}

// List implements [Store.List].
func (s *MemStore) List(ctx context.Context) ([]NPC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]NPC, 0, len(s.npcs))
	for _, npc := range s.npcs {
		result = append(result, cloneNPC(npc))
	}
	slices.SortFunc(result, func(a, b NPC) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result, nil
}

// Update implements [Store.Update].
func (s *MemStore) Update(ctx context.Context, id string, update NPCUpdate) (NPC, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	npc, ok := s.npcs[id]
	if !ok {
		return NPC{}, ErrNotFound
	}

	updated := update.apply(npc)
	if updated.Name != npc.Name {
		if _, taken := s.byName[updated.Name]; taken {
			return NPC{}, ErrDuplicateName
		}
		delete(s.byName, npc.Name)
		s.byName[updated.Name] = id
	}
	updated.UpdatedAt = time.Now().UTC()

	s.npcs[id] = cloneNPC(updated)
	return updated, nil
}

// AppendHistory implements [Store.AppendHistory].
func (s *MemStore) AppendHistory(ctx context.Context, name string, entry HistoryEntry) (NPC, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[name]
	if !ok {
		return NPC{}, ErrNotFound
	}

	npc := s.npcs[id]
	npc.History = append(npc.History, entry)
	npc.UpdatedAt = time.Now().UTC()

	s.npcs[id] = npc
	return cloneNPC(npc), nil
}

// Remove implements [Store.Remove].
func (s *MemStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	npc, ok := s.npcs[id]
	if !ok {
		return ErrNotFound
	}

	delete(s.npcs, id)
	delete(s.byName, npc.Name)
	return nil
}

// cloneNPC deep-copies the history slice so callers cannot mutate stored state.
func cloneNPC(npc NPC) NPC {
	npc.History = slices.Clone(npc.History)
	return npc
}
