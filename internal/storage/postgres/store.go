package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questward/lorekeeper/internal/journal"
	"github.com/questward/lorekeeper/internal/roster"
)

// Compile-time interface checks.
var (
	_ roster.Store  = (*NPCStore)(nil)
	_ journal.Store = (*SessionStore)(nil)
)

// Store is the PostgreSQL-backed persistence layer for Lorekeeper. It holds a
// single [pgxpool.Pool] and exposes the two domain stores:
//
//   - [Store.NPCs] returns an [NPCStore] implementing [roster.Store]
//   - [Store.Sessions] returns a [SessionStore] implementing [journal.Store]
//
// All operations are safe for concurrent use.
type Store struct {
	pool     *pgxpool.Pool
	npcs     *NPCStore
	sessions *SessionStore
}

// NewStore establishes a connection pool to the PostgreSQL database at dsn
// and runs [Migrate] to ensure all required tables and indexes exist.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: migrate: %w", err)
	}

	return &Store{
		pool:     pool,
		npcs:     &NPCStore{pool: pool},
		sessions: &SessionStore{pool: pool},
	}, nil
}

// NPCs returns the NPC roster store backed by this pool.
func (s *Store) NPCs() *NPCStore { return s.npcs }

// Sessions returns the session journal store backed by this pool.
func (s *Store) Sessions() *SessionStore { return s.sessions }

// Ping verifies database connectivity. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases all connections held by the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
