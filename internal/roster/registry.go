package roster

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Action reports whether a mention commit created a new NPC or updated an
// existing one.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Registry owns the mention-commit logic on top of a [Store].
//
// Commits are NOT idempotent: repeated commits with identical arguments each
// append a fresh history entry. What the registry does guarantee is at most
// one NPC record per distinct name, even under concurrent commits — the
// store's atomic name-uniqueness constraint turns the losing side of a
// create race into an ordinary append.
type Registry struct {
	store Store
}

// NewRegistry returns a [Registry] backed by store.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// CommitMention records one mention of npcName from the given session.
//
// When an NPC with that exact name exists, the mention is appended to its
// history and [ActionUpdated] is returned with the post-append record.
// Otherwise a new NPC is created with the mention as its first history entry,
// its notes prefixed with the extracted text, and [ActionCreated] is returned.
//
// sessionID is stored as-is; it is not validated against the session journal.
func (r *Registry) CommitMention(ctx context.Context, sessionID, extractedText, npcName string) (Action, NPC, error) {
	now := time.Now().UTC()
	entry := HistoryEntry{
		SessionID:   sessionID,
		Interaction: extractedText,
		Timestamp:   now,
	}

	_, err := r.store.GetByName(ctx, npcName)
	switch {
	case err == nil:
		npc, err := r.store.AppendHistory(ctx, npcName, entry)
		if err != nil {
			return "", NPC{}, fmt.Errorf("roster: append mention for %q: %w", npcName, err)
		}
		return ActionUpdated, npc, nil

	case errors.Is(err, ErrNotFound):
		created, err := r.store.Add(ctx, NPC{
			Name:      npcName,
			Status:    DefaultStatus,
			Notes:     "First mentioned: " + extractedText,
			History:   []HistoryEntry{entry},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if errors.Is(err, ErrDuplicateName) {
			// A concurrent commit created the NPC between our lookup and
			// insert. Take the update path instead.
			npc, err := r.store.AppendHistory(ctx, npcName, entry)
			if err != nil {
				return "", NPC{}, fmt.Errorf("roster: append mention after create race for %q: %w", npcName, err)
			}
			return ActionUpdated, npc, nil
		}
		if err != nil {
			return "", NPC{}, fmt.Errorf("roster: create %q from mention: %w", npcName, err)
		}
		return ActionCreated, created, nil

	default:
		return "", NPC{}, fmt.Errorf("roster: look up %q: %w", npcName, err)
	}
}
