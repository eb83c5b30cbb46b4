package arbiter

import (
	"context"
	"sync"
)

// InMemorySlot implements SlotStore with a mutex-guarded string. The empty
// string means no holder.
type InMemorySlot struct {
	mu    sync.Mutex
	token string
}

func NewInMemorySlot() *InMemorySlot {
	return &InMemorySlot{}
}

func (s *InMemorySlot) SetIfEmpty(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return false, nil
	}
	s.token = token
	return true, nil
}

func (s *InMemorySlot) Current(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *InMemorySlot) ClearIfMatch(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return false, nil
	}
	s.token = ""
	return true, nil
}

func (s *InMemorySlot) ForceClear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
