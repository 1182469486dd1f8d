// Package journal manages persisted session notes: free-form write-ups and
// structured session records with fixed-schema sub-documents.
package journal

import (
	"time"

	"github.com/google/uuid"
)

// SessionType distinguishes free-form notes from structured session records.
type SessionType string

const (
	// SessionFreeForm is a plain text write-up in the Content field.
	SessionFreeForm SessionType = "free_form"

	// SessionStructured carries a populated [StructuredSessionData] block.
	SessionStructured SessionType = "structured"
)

// IsValid reports whether t is a recognised session type.
func (t SessionType) IsValid() bool {
	return t == SessionFreeForm || t == SessionStructured
}

// Session is one persisted record of a game session's notes.
type Session struct {
	// ID is an opaque unique identifier, generated at creation.
	ID string `json:"id"`

	Title string `json:"title"`

	// Content is the free-form session text. Kept populated alongside
	// structured data for backwards compatibility with free-form clients.
	Content string `json:"content"`

	SessionType SessionType `json:"session_type"`

	// StructuredData is nil unless SessionType is [SessionStructured].
	StructuredData *StructuredSessionData `json:"structured_data,omitempty"`

	// NPCsMentioned is reserved for a future sync with the NPC roster.
	// No operation currently populates it.
	NPCsMentioned []string `json:"npcs_mentioned"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StructuredSessionData is the fixed-schema sub-document of a structured
// session. The sub-record lists are inert data containers: they carry no
// derived logic, and their order is preserved exactly as submitted.
type StructuredSessionData struct {
	SessionNumber *int       `json:"session_number,omitempty"`
	SessionDate   *time.Time `json:"session_date,omitempty"`

	PlayersPresent []string `json:"players_present"`
	SessionGoal    string   `json:"session_goal"`

	CombatEncounters    []CombatEncounter   `json:"combat_encounters"`
	RoleplayEncounters  []RoleplayEncounter `json:"roleplay_encounters"`
	NPCsEncountered     []NPCEncounter      `json:"npcs_encountered"`
	Loot                []LootItem          `json:"loot"`
	OverarchingMissions []Mission           `json:"overarching_missions"`

	Notes                  string   `json:"notes"`
	NotableRoleplayMoments []string `json:"notable_roleplay_moments"`
	NextSessionGoals       string   `json:"next_session_goals"`
}

// CombatEncounter records one fight during a session.
type CombatEncounter struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Enemies     string `json:"enemies"`
	Outcome     string `json:"outcome"`
}

// RoleplayEncounter records one social or narrative scene.
type RoleplayEncounter struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	NPCsInvolved string `json:"npcs_involved"`
}

// NPCEncounter records one NPC the party ran into, as noted in the session
// itself. It is independent of the roster — no foreign key is enforced.
type NPCEncounter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LootItem records one piece of treasure gained during a session.
type LootItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ClaimedBy   string `json:"claimed_by"`
}

// Mission records one overarching mission or story thread touched on in a
// session.
type Mission struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// EnsureIDs assigns a generated ID to every sub-record that lacks one.
// Record order is untouched.
func (d *StructuredSessionData) EnsureIDs() {
	if d == nil {
		return
	}
	for i := range d.CombatEncounters {
		if d.CombatEncounters[i].ID == "" {
			d.CombatEncounters[i].ID = uuid.NewString()
		}
	}
	for i := range d.RoleplayEncounters {
		if d.RoleplayEncounters[i].ID == "" {
			d.RoleplayEncounters[i].ID = uuid.NewString()
		}
	}
	for i := range d.NPCsEncountered {
		if d.NPCsEncountered[i].ID == "" {
			d.NPCsEncountered[i].ID = uuid.NewString()
		}
	}
	for i := range d.Loot {
		if d.Loot[i].ID == "" {
			d.Loot[i].ID = uuid.NewString()
		}
	}
	for i := range d.OverarchingMissions {
		if d.OverarchingMissions[i].ID == "" {
			d.OverarchingMissions[i].ID = uuid.NewString()
		}
	}
}

// SessionUpdate describes a partial update to a Session. Nil fields are left
// unchanged; set fields replace the stored value.
type SessionUpdate struct {
	Title          *string                `json:"title,omitempty"`
	Content        *string                `json:"content,omitempty"`
	SessionType    *SessionType           `json:"session_type,omitempty"`
	StructuredData *StructuredSessionData `json:"structured_data,omitempty"`
}

// apply copies the set fields of u onto s and returns the result.
func (u SessionUpdate) apply(s Session) Session {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Content != nil {
		s.Content = *u.Content
	}
	if u.SessionType != nil {
		s.SessionType = *u.SessionType
	}
	if u.StructuredData != nil {
		s.StructuredData = u.StructuredData
	}
	return s
}
