// Package arbiter provides the single-holder mutual-exclusion gate that
// serializes handle claims.
//
// The gate is approximated by polling a shared slot plus a random nonce
// that detects whether the slot was stolen between the tentative write and
// the confirmation read. There is a deliberate, documented exclusivity gap:
// after the retry ceiling the slot is force-cleared without notifying the
// holder, so a claim that outlives the ceiling can briefly overlap with the
// next one. Callers observe that only as a logged warning and a release
// mismatch.
package arbiter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Malmz/TalesFromTheSprawl/internal/platform/metrics"
)

// ErrBusy is returned when acquisition exhausts the retry ceiling. The
// caller that hits it has already force-cleared the slot on the way out.
var ErrBusy = errors.New("arbitration gate busy")

// Token identifies the current holder of the gate. It is ephemeral: created
// at acquisition, discarded at release or forced clear.
type Token struct {
	Requester string
	Nonce     string
}

func (t Token) String() string {
	return t.Requester + "_" + t.Nonce
}

// SlotStore is the shared slot holding the current token, if any. The
// in-memory implementation serves a single node; the Redis implementation
// shares the gate across nodes.
type SlotStore interface {
	// SetIfEmpty tentatively writes the token when no holder is recorded.
	SetIfEmpty(ctx context.Context, token string) (bool, error)
	// Current returns the recorded token, or "" when the slot is empty.
	Current(ctx context.Context) (string, error)
	// ClearIfMatch clears the slot only if it still holds token.
	ClearIfMatch(ctx context.Context, token string) (bool, error)
	// ForceClear empties the slot unconditionally.
	ForceClear(ctx context.Context) error
}

const (
	// DefaultInterval is both the confirmation window after a tentative
	// write and the retry backoff. Even an uncontended acquisition pays one
	// interval: the confirmation sleep guards against concurrent writers
	// the slot store cannot otherwise detect, and stays in place until a
	// native atomic primitive replaces the whole polling scheme.
	DefaultInterval = 500 * time.Millisecond
	// DefaultMaxRetries is the ceiling after which the gate is presumed
	// stuck and force-cleared (~60s at the default interval).
	DefaultMaxRetries = 120
)

// Arbiter serializes the claim critical section.
type Arbiter struct {
	slot       SlotStore
	logger     *slog.Logger
	metrics    *metrics.Metrics
	interval   time.Duration
	maxRetries int
	nonce      func() string
}

type Option func(*Arbiter)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Arbiter) { a.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Arbiter) { a.metrics = m }
}

// WithInterval shortens the polling interval, for tests.
func WithInterval(d time.Duration) Option {
	return func(a *Arbiter) { a.interval = d }
}

// WithMaxRetries overrides the retry ceiling, for tests.
func WithMaxRetries(n int) Option {
	return func(a *Arbiter) { a.maxRetries = n }
}

func New(slot SlotStore, opts ...Option) *Arbiter {
	a := &Arbiter{
		slot:       slot,
		logger:     slog.Default(),
		interval:   DefaultInterval,
		maxRetries: DefaultMaxRetries,
		nonce:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire claims the gate for requesterID. It loops: tentative write when
// the slot looks empty, confirmation sleep, re-read; a stolen or occupied
// slot costs one more interval and a retry. Past the ceiling the slot is
// assumed stuck: it is force-cleared unconditionally, a warning is logged,
// and ErrBusy is returned to the caller that detected the stuck state. The
// actual holder, if any, is not notified and will see a mismatch when it
// eventually releases.
func (a *Arbiter) Acquire(ctx context.Context, requesterID string) (Token, error) {
	token := Token{Requester: requesterID, Nonce: a.nonce()}
	want := token.String()

	for attempts := 0; ; {
		ok, err := a.slot.SetIfEmpty(ctx, want)
		if err != nil {
			return Token{}, err
		}
		if ok {
			if err := a.pause(ctx); err != nil {
				return Token{}, err
			}
			cur, err := a.slot.Current(ctx)
			if err != nil {
				return Token{}, err
			}
			if cur == want {
				return token, nil
			}
		}

		if err := a.pause(ctx); err != nil {
			return Token{}, err
		}
		attempts++
		if attempts > a.maxRetries {
			a.logger.WarnContext(ctx, "arbitration slot presumed stuck, force-clearing",
				"requester", requesterID,
				"attempts", attempts,
			)
			if a.metrics != nil {
				a.metrics.ForcedLockClears.Inc()
			}
			if err := a.slot.ForceClear(ctx); err != nil {
				return Token{}, err
			}
			return Token{}, ErrBusy
		}
	}
}

// Release clears the slot only while it still holds token. A stale token
// (already cleared by the forced-timeout path and possibly reassigned)
// leaves the slot untouched and logs a mismatch.
func (a *Arbiter) Release(ctx context.Context, token Token) {
	cleared, err := a.slot.ClearIfMatch(ctx, token.String())
	if err != nil {
		a.logger.ErrorContext(ctx, "arbitration slot release failed",
			"requester", token.Requester,
			"error", err,
		)
		return
	}
	if !cleared {
		a.logger.WarnContext(ctx, "arbitration slot release mismatch, slot left untouched",
			"requester", token.Requester,
		)
		if a.metrics != nil {
			a.metrics.LockMismatches.Inc()
		}
	}
}

func (a *Arbiter) pause(ctx context.Context) error {
	t := time.NewTimer(a.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
