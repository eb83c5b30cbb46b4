package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Publisher captures structured audit events. It fills in id and timestamp
// and hands the event to a Store, so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	return p.store.Append(ctx, stamp(event))
}

// AsyncPublisher queues events on a channel drained by a Worker, keeping
// slow sinks (Kafka) off the claim path.
type AsyncPublisher struct {
	inbox chan<- Event
}

func NewAsyncPublisher(inbox chan<- Event) *AsyncPublisher {
	return &AsyncPublisher{inbox: inbox}
}

// Emit enqueues without blocking; a full inbox drops the event and reports
// it, since auditing must never stall a claim.
func (p *AsyncPublisher) Emit(ctx context.Context, event Event) error {
	select {
	case p.inbox <- stamp(event):
		return nil
	default:
		return errors.New("audit inbox full, event dropped")
	}
}

func stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}
