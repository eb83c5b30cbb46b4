// Package store persists actor records.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/Malmz/TalesFromTheSprawl/internal/actor/models"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

// Store is the durable actor registry backing.
type Store interface {
	// Ensure returns the existing actor or creates it. The second return
	// reports whether a new record was created.
	Ensure(ctx context.Context, id string, kind models.ActorKind) (*models.Actor, bool, error)
	// FindByID returns the actor, or sentinel.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Actor, error)
	// Delete removes the actor record. Missing actors are a no-op.
	Delete(ctx context.Context, id string) error
}

// InMemoryStore implements Store with a mutex-guarded map.
type InMemoryStore struct {
	mu     sync.RWMutex
	actors map[string]*models.Actor
	now    func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{actors: make(map[string]*models.Actor), now: time.Now}
}

func (s *InMemoryStore) Ensure(ctx context.Context, id string, kind models.ActorKind) (*models.Actor, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.actors[id]; ok {
		cp := *a
		return &cp, false, nil
	}
	a := &models.Actor{ID: id, Kind: kind, CreatedAt: s.now()}
	s.actors[id] = a
	cp := *a
	return &cp, true, nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, id string) (*models.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.actors[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.actors, id)
	return nil
}
