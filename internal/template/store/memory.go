package store

import (
	"context"
	"sync"

	handlemodels "github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
	"github.com/Malmz/TalesFromTheSprawl/internal/template/models"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

// InMemoryStore implements Store with a mutex-guarded map.
type InMemoryStore struct {
	mu        sync.RWMutex
	templates map[string]*models.ProvisioningTemplate
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{templates: make(map[string]*models.ProvisioningTemplate)}
}

// Put seeds a template directly, bypassing the scaffold. Test helper and
// programmatic seeding path.
func (s *InMemoryStore) Put(primaryHandleID string, t *models.ProvisioningTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[handlemodels.Normalize(primaryHandleID)] = t
}

func (s *InMemoryStore) Get(ctx context.Context, primaryHandleID string) (*models.ProvisioningTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates[handlemodels.Normalize(primaryHandleID)], nil
}

func (s *InMemoryStore) Add(ctx context.Context, primaryHandleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := handlemodels.Normalize(primaryHandleID)
	if _, exists := s.templates[key]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.templates[key] = models.NewScaffold()
	return nil
}
