// Package store persists handles. Implementations return sentinel errors;
// the registry service translates them into domain results.
package store

import (
	"context"

	"github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
)

// Store is the durable handle registry backing.
type Store interface {
	// CreateIfFree persists the handle if its ID is not taken.
	// Returns sentinel.ErrAlreadyUsed when another live handle owns the ID.
	CreateIfFree(ctx context.Context, h *models.Handle) error
	// FindByID returns the handle, or sentinel.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Handle, error)
	// ListByActor returns all handles owned by an actor, creation order.
	ListByActor(ctx context.Context, actorID string) ([]*models.Handle, error)
	// DeleteByActor removes all handles owned by an actor and reports how
	// many were removed. Used by the admin clear-actor path.
	DeleteByActor(ctx context.Context, actorID string) (int, error)
}
