package journal

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested session does not exist.
var ErrNotFound = errors.New("session not found")

// Store persists session records.
//
// All implementations must be safe for concurrent use.
type Store interface {
	// Add creates a new session. A missing ID is generated, zero timestamps
	// are set to the current UTC time, an empty session type defaults to
	// [SessionFreeForm], and structured sub-records receive generated IDs.
	Add(ctx context.Context, session Session) (Session, error)

	// Get retrieves a session by ID. Returns [ErrNotFound] when absent.
	Get(ctx context.Context, id string) (Session, error)

	// List returns all sessions sorted by creation time, newest first.
	List(ctx context.Context) ([]Session, error)

	// Update applies the set fields of update to the session with the given
	// ID, refreshes UpdatedAt, and returns the post-update record.
	// Returns [ErrNotFound] when absent.
	Update(ctx context.Context, id string, update SessionUpdate) (Session, error)

	// Remove deletes a session by ID. Returns [ErrNotFound] when absent.
	Remove(ctx context.Context, id string) error
}
