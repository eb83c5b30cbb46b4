// Package audit records claim lifecycle events. The human-readable report
// returned to the player is the user-facing trail; this package is the
// operator-facing one.
package audit

import (
	"context"
	"time"
)

// Category groups events for downstream consumers.
type Category string

const (
	CategoryClaim   Category = "claim"
	CategoryArbiter Category = "arbiter"
)

// Action names within the claim lifecycle.
const (
	ActionClaimSucceeded = "claim_succeeded"
	ActionClaimRejected  = "claim_rejected"
	ActionClaimBusy      = "claim_busy"
	ActionForcedUnlock   = "forced_unlock"
)

// Event is one audit record.
type Event struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
}

// Store is an append-only event sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}
