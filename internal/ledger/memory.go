package ledger

import (
	"context"
	"sync"

	dErrors "github.com/Malmz/TalesFromTheSprawl/pkg/domain-errors"
)

// InMemoryLedger implements Ledger with a mutex-guarded map.
type InMemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]int
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{balances: make(map[string]int)}
}

func (l *InMemoryLedger) Credit(ctx context.Context, handleID string, amount int) error {
	if amount < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "credit amount must be non-negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[handleID] += amount
	return nil
}

func (l *InMemoryLedger) Balance(ctx context.Context, handleID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[handleID], nil
}
