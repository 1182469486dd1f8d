// Package postgres provides the PostgreSQL-backed implementations of the
// Lorekeeper domain stores (NPC roster and session journal).
//
// Both stores share a single [pgxpool.Pool]. NPC history and structured
// session data are stored as JSONB documents: history is append-only and
// appended atomically with the JSONB concatenation operator, and the UNIQUE
// index on npcs.name is what guarantees at most one roster record per
// distinct name under concurrent mention commits.
//
// Usage:
//
//	store, err := postgres.NewStore(ctx, dsn)
//	if err != nil { … }
//
//	npc, err := store.NPCs().GetByName(ctx, "Thorin the Blacksmith")
//	sessions, err := store.Sessions().List(ctx)
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ddlNPCs = `
CREATE TABLE IF NOT EXISTS npcs (
    id                TEXT         PRIMARY KEY,
    name              TEXT         NOT NULL,
    status            TEXT         NOT NULL DEFAULT 'Unknown',
    race              TEXT         NOT NULL DEFAULT '',
    class_role        TEXT         NOT NULL DEFAULT '',
    appearance        TEXT         NOT NULL DEFAULT '',
    quirks_mannerisms TEXT         NOT NULL DEFAULT '',
    background        TEXT         NOT NULL DEFAULT '',
    notes             TEXT         NOT NULL DEFAULT '',
    history           JSONB        NOT NULL DEFAULT '[]',
    created_at        TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at        TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_npcs_name
    ON npcs (name);
`

const ddlSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id              TEXT         PRIMARY KEY,
    title           TEXT         NOT NULL,
    content         TEXT         NOT NULL DEFAULT '',
    session_type    TEXT         NOT NULL DEFAULT 'free_form',
    structured_data JSONB,
    npcs_mentioned  JSONB        NOT NULL DEFAULT '[]',
    created_at      TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sessions_created_at
    ON sessions (created_at DESC);
`

// Migrate creates or ensures all required database tables and indexes exist.
// It is idempotent and safe to call on every application start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		ddlNPCs,
		ddlSessions,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
	}
	return nil
}
