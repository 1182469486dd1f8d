package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questward/lorekeeper/internal/journal"
)

const sessionColumns = `id, title, content, session_type, structured_data,
	npcs_mentioned, created_at, updated_at`

// SessionStore implements [journal.Store] on top of the sessions table.
// Structured session data is stored as a JSONB document, which preserves
// sub-record order exactly as submitted.
//
// Obtain one via [Store.Sessions] rather than constructing directly.
// All methods are safe for concurrent use.
type SessionStore struct {
	pool *pgxpool.Pool
}

// Add implements [journal.Store.Add].
func (s *SessionStore) Add(ctx context.Context, session journal.Session) (journal.Session, error) {
	now := time.Now().UTC()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.SessionType == "" {
		session.SessionType = journal.SessionFreeForm
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

	structured, mentioned, err := marshalSessionDocs(session)
	if err != nil {
		return journal.Session{}, fmt.Errorf("session store: %w", err)
	}

	const q = `
		INSERT INTO sessions
		    (id, title, content, session_type, structured_data,
		     npcs_mentioned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.pool.Exec(ctx, q,
		session.ID, session.Title, session.Content, string(session.SessionType),
		structured, mentioned, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return journal.Session{}, fmt.Errorf("session store: insert: %w", err)
	}
	return session, nil
}

// Get implements [journal.Store.Get].
func (s *SessionStore) Get(ctx context.Context, id string) (journal.Session, error) {
	q := "SELECT " + sessionColumns + " FROM sessions WHERE id = $1"

	rows, err := s.pool.Query(ctx, q, id)
	if err != nil {
		return journal.Session{}, fmt.Errorf("session store: query: %w", err)
	}

	session, err := pgx.CollectOneRow(rows, scanSession)
	if errors.Is(err, pgx.ErrNoRows) {
		return journal.Session{}, journal.ErrNotFound
	}
	if err != nil {
		return journal.Session{}, fmt.Errorf("session store: scan row: %w", err)
	}
	return session, nil
}

// List implements [journal.Store.List].
func (s *SessionStore) List(ctx context.Context) ([]journal.Session, error) {
	q := "SELECT " + sessionColumns + " FROM sessions ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("session store: list: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, scanSession)
	if err != nil {
		return nil, fmt.Errorf("session store: scan rows: %w", err)
	}
	if sessions == nil {
		sessions = []journal.Session{}
	}
	return sessions, nil
}

// Update implements [journal.Store.Update].
func (s *SessionStore) Update(ctx context.Context, id string, update journal.SessionUpdate) (journal.Session, error) {
	args := []any{id} // $1 = id
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sets := []string{"updated_at = now()"}
	if update.Title != nil {
		sets = append(sets, "title = "+next(*update.Title))
	}
	if update.Content != nil {
		sets = append(sets, "content = "+next(*update.Content))
	}
	if update.SessionType != nil {
		sets = append(sets, "session_type = "+next(string(*update.SessionType)))
	}
	if update.StructuredData != nil {
		update.StructuredData.EnsureIDs()
		payload, err := json.Marshal(update.StructuredData)
		if err != nil {
			return journal.Session{}, fmt.Errorf("session store: marshal structured data: %w", err)
		}
		sets = append(sets, "structured_data = "+next(payload))
	}

	q := "UPDATE sessions SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 RETURNING " + sessionColumns

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return journal.Session{}, fmt.Errorf("session store: update: %w", err)
	}

	session, err := pgx.CollectOneRow(rows, scanSession)
	if errors.Is(err, pgx.ErrNoRows) {
		return journal.Session{}, journal.ErrNotFound
	}
	if err != nil {
		return journal.Session{}, fmt.Errorf("session store: update: %w", err)
	}
	return session, nil
}

// Remove implements [journal.Store.Remove].
func (s *SessionStore) Remove(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("session store: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return journal.ErrNotFound
	}
	return nil
}

// marshalSessionDocs encodes the JSONB columns of a session. A nil
// StructuredData marshals to SQL NULL.
func marshalSessionDocs(session journal.Session) (structured, mentioned []byte, err error) {
	if session.StructuredData != nil {
		structured, err = json.Marshal(session.StructuredData)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal structured data: %w", err)
		}
	}
	mentioned, err = json.Marshal(session.NPCsMentioned)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal npcs_mentioned: %w", err)
	}
	return structured, mentioned, nil
}

// scanSession scans one sessions row, unmarshalling the JSONB columns.
func scanSession(row pgx.CollectableRow) (journal.Session, error) {
	var (
		session     journal.Session
		sessionType string
		structured  []byte
		mentioned   []byte
	)
	if err := row.Scan(
		&session.ID,
		&session.Title,
		&session.Content,
		&sessionType,
		&structured,
		&mentioned,
		&session.CreatedAt,
		&session.UpdatedAt,
	); err != nil {
		return journal.Session{}, err
	}
	session.SessionType = journal.SessionType(sessionType)

	if len(structured) > 0 {
		session.StructuredData = &journal.StructuredSessionData{}
		if err := json.Unmarshal(structured, session.StructuredData); err != nil {
			return journal.Session{}, fmt.Errorf("unmarshal structured data: %w", err)
		}
	}
	if err := json.Unmarshal(mentioned, &session.NPCsMentioned); err != nil {
		return journal.Session{}, fmt.Errorf("unmarshal npcs_mentioned: %w", err)
	}
	return session, nil
}
