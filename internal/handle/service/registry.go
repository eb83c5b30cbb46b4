// Package service implements the handle registry: the durable mapping from
// handle identifier to owning actor and kind.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
	"github.com/Malmz/TalesFromTheSprawl/internal/handle/store"
	dErrors "github.com/Malmz/TalesFromTheSprawl/pkg/domain-errors"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

// Registry owns handle uniqueness and normalization. Creation failures for
// taken or invalid identifiers are reported through the KindUnused sentinel
// rather than an error, so provisioning can branch on a value.
type Registry struct {
	handles store.Store
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithClock overrides the creation timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(handles store.Store, opts ...Option) *Registry {
	r := &Registry{
		handles: handles,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateHandle normalizes and validates the identifier, then persists a new
// handle bound to actorID. A taken or invalid identifier yields the Unused
// sentinel with a nil error; only infrastructure failures return an error.
func (r *Registry) CreateHandle(ctx context.Context, actorID, rawID string, kind models.HandleKind) (models.Handle, error) {
	id := models.Normalize(rawID)
	if !models.IsValidID(id) {
		return models.Unused(id), nil
	}

	h := models.Handle{
		ID:        id,
		ActorID:   actorID,
		Kind:      kind,
		CreatedAt: r.now(),
	}
	err := r.handles.CreateIfFree(ctx, &h)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return models.Unused(id), nil
		}
		return models.Unused(id), dErrors.Wrap(err, dErrors.CodeUnavailable, "handle registry unavailable")
	}
	return h, nil
}

// Lookup returns the handle for a (raw) identifier.
func (r *Registry) Lookup(ctx context.Context, rawID string) (*models.Handle, error) {
	id := models.Normalize(rawID)
	h, err := r.handles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "handle not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "handle registry unavailable")
	}
	return h, nil
}

// Exists reports whether a (raw) identifier is already claimed.
func (r *Registry) Exists(ctx context.Context, rawID string) (bool, error) {
	_, err := r.Lookup(ctx, rawID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByActor returns all handles owned by an actor in creation order.
func (r *Registry) ListByActor(ctx context.Context, actorID string) ([]*models.Handle, error) {
	hs, err := r.handles.ListByActor(ctx, actorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "handle registry unavailable")
	}
	return hs, nil
}

// ClearActor removes every handle owned by an actor. Admin-only path used
// when de-initialising an actor; freed identifiers become claimable again.
func (r *Registry) ClearActor(ctx context.Context, actorID string) (int, error) {
	n, err := r.handles.DeleteByActor(ctx, actorID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "handle registry unavailable")
	}
	if n > 0 {
		r.logger.InfoContext(ctx, "cleared actor handles", "actor_id", actorID, "count", n)
	}
	return n, nil
}
