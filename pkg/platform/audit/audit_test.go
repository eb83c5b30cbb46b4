package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestPublisherStampsEvents(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	err := pub.Emit(context.Background(), Event{
		Category: CategoryClaim,
		ActorID:  "u1",
		Subject:  "shadow_weaver",
		Action:   ActionClaimSucceeded,
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, ActionClaimSucceeded, events[0].Action)
}

func TestPublisherKeepsProvidedIdentity(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	stamped := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := pub.Emit(context.Background(), Event{
		ID:        "fixed-id",
		Timestamp: stamped,
		Category:  CategoryArbiter,
		Action:    ActionForcedUnlock,
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "fixed-id", events[0].ID)
	assert.Equal(t, stamped, events[0].Timestamp)
}

func TestAsyncPublisherDropsWhenFull(t *testing.T) {
	inbox := make(chan Event, 1)
	pub := NewAsyncPublisher(inbox)

	require.NoError(t, pub.Emit(context.Background(), Event{Action: ActionClaimSucceeded}))
	err := pub.Emit(context.Background(), Event{Action: ActionClaimSucceeded})
	require.Error(t, err, "a full inbox must not block the claim path")
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 8)
	worker := NewWorker(store, inbox, nil)
	pub := NewAsyncPublisher(inbox)

	ctx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(ctx) })

	for i := 0; i < 3; i++ {
		require.NoError(t, pub.Emit(context.Background(), Event{Action: ActionClaimBusy}))
	}

	require.Eventually(t, func() bool {
		return len(store.Events()) == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, g.Wait(), context.Canceled)
}
