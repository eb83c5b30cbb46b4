// Package store provides the provisioning template lookup. The canonical
// backing is a human-editable YAML file; the in-memory store exists for
// tests and ephemeral worlds.
package store

import (
	"context"

	"github.com/Malmz/TalesFromTheSprawl/internal/template/models"
)

// Store is the read path the orchestrator uses plus the admin seed path.
type Store interface {
	// Get returns the template keyed by the primary handle id, or nil when
	// no template exists (absence is not an error).
	Get(ctx context.Context, primaryHandleID string) (*models.ProvisioningTemplate, error)
	// Add inserts a placeholder scaffold for the given primary handle id.
	// Returns sentinel.ErrAlreadyUsed when a template already exists; the
	// existing entry is never overwritten.
	Add(ctx context.Context, primaryHandleID string) error
}
