package roster

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested NPC does not exist.
var ErrNotFound = errors.New("npc not found")

// ErrDuplicateName is returned by Add when an NPC with the same name already
// exists. The store-level uniqueness guarantee is what keeps concurrent
// mention commits from creating two records for one character.
var ErrDuplicateName = errors.New("npc with that name already exists")

// Store persists NPC records.
//
// All implementations must enforce name uniqueness atomically and be safe for
// concurrent use.
type Store interface {
	// Add creates a new NPC. A missing ID is generated; zero timestamps are
	// set to the current UTC time; an empty status becomes [DefaultStatus].
	// Returns [ErrDuplicateName] if an NPC with the same name exists.
	Add(ctx context.Context, npc NPC) (NPC, error)

	// Get retrieves an NPC by ID. Returns [ErrNotFound] when absent.
	Get(ctx context.Context, id string) (NPC, error)

	// GetByName retrieves an NPC by exact name. Returns [ErrNotFound] when absent.
	GetByName(ctx context.Context, name string) (NPC, error)

	// List returns all NPCs sorted by name ascending.
	List(ctx context.Context) ([]NPC, error)

	// Update applies the set fields of update to the NPC with the given ID,
	// refreshes UpdatedAt, and returns the post-update record.
	// Returns [ErrNotFound] when absent and [ErrDuplicateName] when a name
	// change collides with another record.
	Update(ctx context.Context, id string, update NPCUpdate) (NPC, error)

	// AppendHistory appends entry to the history of the NPC with the given
	// exact name, refreshes UpdatedAt, and returns the post-append record.
	// Returns [ErrNotFound] when absent.
	AppendHistory(ctx context.Context, name string, entry HistoryEntry) (NPC, error)

	// Remove deletes an NPC by ID. Returns [ErrNotFound] when absent.
	Remove(ctx context.Context, id string) error
}
