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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questward/lorekeeper/internal/roster"
)

// pgUniqueViolation is the PostgreSQL error code for unique-constraint
// violations.
const pgUniqueViolation = "23505"

const npcColumns = `id, name, status, race, class_role, appearance,
	quirks_mannerisms, background, notes, history, created_at, updated_at`

// NPCStore implements [roster.Store] on top of the npcs table.
//
// Obtain one via [Store.NPCs] rather than constructing directly.
// All methods are safe for concurrent use.
type NPCStore struct {
	pool *pgxpool.Pool
}

// Add implements [roster.Store.Add]. The UNIQUE index on name makes the
// insert atomic with respect to concurrent Adds for the same name.
func (s *NPCStore) Add(ctx context.Context, npc roster.NPC) (roster.NPC, error) {
	now := time.Now().UTC()
	if npc.ID == "" {
		npc.ID = uuid.NewString()
	}
	if npc.Status == "" {
		npc.Status = roster.DefaultStatus
	}
	if npc.CreatedAt.IsZero() {
		npc.CreatedAt = now
	}
	if npc.UpdatedAt.IsZero() {
		npc.UpdatedAt = now
	}
	if npc.History == nil {
		npc.History = []roster.HistoryEntry{}
	}

	history, err := json.Marshal(npc.History)
	if err != nil {
		return roster.NPC{}, fmt.Errorf("npc store: marshal history: %w", err)
	}

	const q = `
		INSERT INTO npcs
		    (id, name, status, race, class_role, appearance,
		     quirks_mannerisms, background, notes, history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = s.pool.Exec(ctx, q,
		npc.ID, npc.Name, npc.Status, npc.Race, npc.ClassRole, npc.Appearance,
		npc.QuirksMannerisms, npc.Background, npc.Notes, history,
		npc.CreatedAt, npc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return roster.NPC{}, roster.ErrDuplicateName
		}
		return roster.NPC{}, fmt.Errorf("npc store: insert: %w", err)
	}
	return npc, nil
}

// Get implements [roster.Store.Get].
func (s *NPCStore) Get(ctx context.Context, id string) (roster.NPC, error) {
	q := "SELECT " + npcColumns + " FROM npcs WHERE id = $1"
	return s.queryOne(ctx, q, id)
}

// GetByName implements [roster.Store.GetByName].
func (s *NPCStore) GetByName(ctx context.Context, name string) (roster.NPC, error) {
	q := "SELECT " + npcColumns + " FROM npcs WHERE name = $1"
	return s.queryOne(ctx, q, name)
}

// List implements [roster.Store.List].
func (s *NPCStore) List(ctx context.Context) ([]roster.NPC, error) {
	q := "SELECT " + npcColumns + " FROM npcs ORDER BY name"

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("npc store: list: %w", err)
	}

	npcs, err := pgx.CollectRows(rows, scanNPC)
	if err != nil {
		return nil, fmt.Errorf("npc store: scan rows: %w", err)
	}
	if npcs == nil {
		npcs = []roster.NPC{}
	}
	return npcs, nil
}

// Update implements [roster.Store.Update]. Only the set fields of update are
// written; the statement is built dynamically from them.
func (s *NPCStore) Update(ctx context.Context, id string, update roster.NPCUpdate) (roster.NPC, error) {
	args := []any{id} // $1 = id
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sets := []string{"updated_at = now()"}
	if update.Name != nil {
		sets = append(sets, "name = "+next(*update.Name))
	}
	if update.Status != nil {
		sets = append(sets, "status = "+next(*update.Status))
	}
	if update.Race != nil {
		sets = append(sets, "race = "+next(*update.Race))
	}
	if update.ClassRole != nil {
		sets = append(sets, "class_role = "+next(*update.ClassRole))
	}
	if update.Appearance != nil {
		sets = append(sets, "appearance = "+next(*update.Appearance))
	}
	if update.QuirksMannerisms != nil {
		sets = append(sets, "quirks_mannerisms = "+next(*update.QuirksMannerisms))
	}
	if update.Background != nil {
		sets = append(sets, "background = "+next(*update.Background))
	}
	if update.Notes != nil {
		sets = append(sets, "notes = "+next(*update.Notes))
	}

	q := "UPDATE npcs SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 RETURNING " + npcColumns

	rows, err := s.pool.Query(ctx, q, args...)
	if err == nil {
		var npc roster.NPC
		npc, err = pgx.CollectOneRow(rows, scanNPC)
		if err == nil {
			return npc, nil
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return roster.NPC{}, roster.ErrNotFound
	}
	if isUniqueViolation(err) {
		return roster.NPC{}, roster.ErrDuplicateName
	}
	return roster.NPC{}, fmt.Errorf("npc store: update: %w", err)
}

// AppendHistory implements [roster.Store.AppendHistory]. The entry is
// appended atomically with the JSONB concatenation operator, so concurrent
// appends to the same NPC never lose entries.
func (s *NPCStore) AppendHistory(ctx context.Context, name string, entry roster.HistoryEntry) (roster.NPC, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return roster.NPC{}, fmt.Errorf("npc store: marshal history entry: %w", err)
	}

	q := `
		UPDATE npcs
		SET    history    = history || $2::jsonb,
		       updated_at = $3
		WHERE  name = $1
		RETURNING ` + npcColumns

	rows, err := s.pool.Query(ctx, q, name, payload, entry.Timestamp)
	if err != nil {
		return roster.NPC{}, fmt.Errorf("npc store: append history: %w", err)
	}

	npc, err := pgx.CollectOneRow(rows, scanNPC)
	if errors.Is(err, pgx.ErrNoRows) {
		return roster.NPC{}, roster.ErrNotFound
	}
	if err != nil {
		return roster.NPC{}, fmt.Errorf("npc store: append history: %w", err)
	}
	return npc, nil
}

// Remove implements [roster.Store.Remove].
func (s *NPCStore) Remove(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM npcs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("npc store: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roster.ErrNotFound
	}
	return nil
}

// queryOne runs a single-row NPC query, mapping pgx.ErrNoRows to
// roster.ErrNotFound.
func (s *NPCStore) queryOne(ctx context.Context, q string, arg any) (roster.NPC, error) {
	rows, err := s.pool.Query(ctx, q, arg)
	if err != nil {
		return roster.NPC{}, fmt.Errorf("npc store: query: %w", err)
	}

	npc, err := pgx.CollectOneRow(rows, scanNPC)
	if errors.Is(err, pgx.ErrNoRows) {
		return roster.NPC{}, roster.ErrNotFound
	}
	if err != nil {
		return roster.NPC{}, fmt.Errorf("npc store: scan row: %w", err)
	}
	return npc, nil
}

// scanNPC scans one npcs row, unmarshalling the JSONB history column.
func scanNPC(row pgx.CollectableRow) (roster.NPC, error) {
	var (
		npc     roster.NPC
		history []byte
	)
	if err := row.Scan(
		&npc.ID,
		&npc.Name,
		&npc.Status,
		&npc.Race,
		&npc.ClassRole,
		&npc.Appearance,
		&npc.QuirksMannerisms,
		&npc.Background,
		&npc.Notes,
		&history,
		&npc.CreatedAt,
		&npc.UpdatedAt,
	); err != nil {
		return roster.NPC{}, err
	}
	if err := json.Unmarshal(history, &npc.History); err != nil {
		return roster.NPC{}, fmt.Errorf("unmarshal history: %w", err)
	}
	return npc, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
