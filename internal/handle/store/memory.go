package store

import (
	"context"
	"sync"

	"github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

// InMemoryStore implements Store with a mutex-guarded map. It is the
// default backing for single-node deployments and for tests; multi-node
// deployments use PostgresStore instead.
type InMemoryStore struct {
	mu      sync.RWMutex
	handles map[string]*models.Handle
	order   []string
}

// NewInMemoryStore creates an empty in-memory handle store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{handles: make(map[string]*models.Handle)}
}

func (s *InMemoryStore) CreateIfFree(ctx context.Context, h *models.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.handles[h.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	cp := *h
	s.handles[h.ID] = &cp
	s.order = append(s.order, h.ID)
	return nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, id string) (*models.Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.handles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (s *InMemoryStore) ListByActor(ctx context.Context, actorID string) ([]*models.Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Handle
	for _, id := range s.order {
		h := s.handles[id]
		if h != nil && h.ActorID == actorID {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) DeleteByActor(ctx context.Context, actorID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		h := s.handles[id]
		if h != nil && h.ActorID == actorID {
			delete(s.handles, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed, nil
}
