package models

import (
	"regexp"
	"strings"
	"time"
)

// HandleKind classifies a handle.
//
// KindUnused is a sentinel return value, not a stored state: registry
// creation returns it when the identifier is taken or invalid, so callers
// branch on the kind instead of an error path.
type HandleKind string

const (
	KindRegular HandleKind = "regular"
	KindBurner  HandleKind = "burner"
	KindNPC     HandleKind = "npc"
	KindUnused  HandleKind = "unused"
)

// Handle is a pseudonymous identifier an actor acts under.
//
// Invariants:
//   - ID is normalized (lowercase, trimmed) and globally unique across the
//     whole registry, including across kinds and across actors
//   - ActorID is empty only for the KindUnused sentinel
type Handle struct {
	ID        string     `json:"id"`
	ActorID   string     `json:"actor_id,omitempty"`
	Kind      HandleKind `json:"kind"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
}

// IsUsable reports whether the handle represents a real registry entry.
func (h Handle) IsUsable() bool {
	return h.Kind != KindUnused
}

// Unused builds the sentinel handle for a failed creation.
func Unused(id string) Handle {
	return Handle{ID: id, Kind: KindUnused}
}

var validHandle = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// Normalize lowercases and trims a raw handle identifier. Handles are
// case-insensitive in the world; the registry stores the normalized form.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidID reports whether a normalized identifier is acceptable for a
// new handle. Identifiers containing a double underscore are reserved for
// template placeholders and are never claimable, so an unedited template
// scaffold provisions nothing.
func IsValidID(id string) bool {
	return validHandle.MatchString(id) && !strings.Contains(id, "__")
}
