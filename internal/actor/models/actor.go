package models

import "time"

// ActorKind distinguishes the identity types that can own handles.
type ActorKind string

const (
	KindPlayer ActorKind = "player"
	KindShop   ActorKind = "shop"
)

// CanHoldBalance is the capability check gating initial funding. Every
// current kind holds balances; the seam exists so future kinds can opt out
// without touching the provisioning pipeline.
func (k ActorKind) CanHoldBalance() bool {
	switch k {
	case KindPlayer, KindShop:
		return true
	}
	return false
}

// Actor is the underlying identity behind one primary handle and any number
// of alias handles. Balances are keyed by handle, not by actor.
type Actor struct {
	ID        string    `json:"id"`
	Kind      ActorKind `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
