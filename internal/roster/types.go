// Package roster manages the persistent NPC roster: the records themselves,
// the store abstraction they live behind, and the mention-commit logic that
// grows an NPC's interaction history as sessions reference it.
package roster

import "time"

// DefaultStatus is the status assigned to an NPC when none is provided.
const DefaultStatus = "Unknown"

// HistoryEntry records one mention of an NPC in a session. Entries are
// append-only: they are never removed or reordered once written.
type HistoryEntry struct {
	// SessionID identifies the session the mention came from. It is not
	// validated against the session journal.
	SessionID string `json:"session_id"`

	// Interaction is the text of the mention as extracted or confirmed.
	Interaction string `json:"interaction"`

	// Timestamp is when the mention was committed (UTC).
	Timestamp time.Time `json:"timestamp"`
}

// NPC is a persistent non-player character with accumulated interaction
// history across sessions.
//
// Name is the natural match key for mention commits and must be unique per
// logical character. Matching is exact: differently-capitalised or
// whitespace-variant mentions of the same character produce distinct records.
type NPC struct {
	// ID is an opaque unique identifier, generated at creation, immutable.
	ID string `json:"id"`

	// Name is the character's display name, unique across the roster.
	Name string `json:"name"`

	// Status is free text (e.g. "Alive", "Missing"). Defaults to "Unknown".
	Status string `json:"status"`

	Race             string `json:"race"`
	ClassRole        string `json:"class_role"`
	Appearance       string `json:"appearance"`
	QuirksMannerisms string `json:"quirks_mannerisms"`
	Background       string `json:"background"`
	Notes            string `json:"notes"`

	// History is the ordered, append-only list of recorded mentions.
	History []HistoryEntry `json:"history"`

	// CreatedAt is when the record was created (UTC).
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every field mutation or history append (UTC).
	UpdatedAt time.Time `json:"updated_at"`
}

// NPCUpdate describes a partial update to an NPC. Nil fields are left
// unchanged; set fields replace the stored value (field-set semantics).
// History cannot be modified through an update.
type NPCUpdate struct {
	Name             *string `json:"name,omitempty"`
	Status           *string `json:"status,omitempty"`
	Race             *string `json:"race,omitempty"`
	ClassRole        *string `json:"class_role,omitempty"`
	Appearance       *string `json:"appearance,omitempty"`
	QuirksMannerisms *string `json:"quirks_mannerisms,omitempty"`
	Background       *string `json:"background,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// apply copies the set fields of u onto npc and returns the result.
func (u NPCUpdate) apply(npc NPC) NPC {
	if u.Name != nil {
		npc.Name = *u.Name
	}
	if u.Status != nil {
		npc.Status = *u.Status
	}
	if u.Race != nil {
		npc.Race = *u.Race
	}
	if u.ClassRole != nil {
		npc.ClassRole = *u.ClassRole
	}
	if u.Appearance != nil {
		npc.Appearance = *u.Appearance
	}
	if u.QuirksMannerisms != nil {
		npc.QuirksMannerisms = *u.QuirksMannerisms
	}
	if u.Background != nil {
		npc.Background = *u.Background
	}
	if u.Notes != nil {
		npc.Notes = *u.Notes
	}
	return npc
}
