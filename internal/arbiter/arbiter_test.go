package arbiter

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type ArbiterSuite struct {
	suite.Suite
	slot *InMemorySlot
	logs *bytes.Buffer
}

func (s *ArbiterSuite) SetupTest() {
	s.slot = NewInMemorySlot()
	s.logs = &bytes.Buffer{}
}

func TestArbiterSuite(t *testing.T) {
	suite.Run(t, new(ArbiterSuite))
}

func (s *ArbiterSuite) newArbiter(maxRetries int) *Arbiter {
	return New(s.slot,
		WithLogger(slog.New(slog.NewTextHandler(s.logs, nil))),
		WithInterval(time.Millisecond),
		WithMaxRetries(maxRetries),
	)
}

func (s *ArbiterSuite) TestAcquireRelease() {
	s.Run("acquires an empty gate and records the token", func() {
		a := s.newArbiter(5)
		token, err := a.Acquire(context.Background(), "u1")
		s.Require().NoError(err)
		s.Equal("u1", token.Requester)
		s.NotEmpty(token.Nonce)

		cur, err := s.slot.Current(context.Background())
		s.Require().NoError(err)
		s.Equal(token.String(), cur)

		a.Release(context.Background(), token)
	})

	s.Run("release empties the slot", func() {
		a := s.newArbiter(5)
		token, err := a.Acquire(context.Background(), "u1")
		s.Require().NoError(err)

		a.Release(context.Background(), token)

		cur, err := s.slot.Current(context.Background())
		s.Require().NoError(err)
		s.Empty(cur)
	})

	s.Run("acquire fails when context is cancelled while waiting", func() {
		ok, err := s.slot.SetIfEmpty(context.Background(), "holder_nonce")
		s.Require().NoError(err)
		s.Require().True(ok)

		a := s.newArbiter(1000)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err = a.Acquire(ctx, "u2")
		s.Require().ErrorIs(err, context.DeadlineExceeded)
	})
}

func (s *ArbiterSuite) TestMutualExclusion() {
	a := s.newArbiter(1000)

	var mu sync.Mutex
	inSection := 0
	maxSeen := 0

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 4; i++ {
		id := string(rune('a' + i))
		g.Go(func() error {
			token, err := a.Acquire(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			inSection++
			if inSection > maxSeen {
				maxSeen = inSection
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inSection--
			mu.Unlock()
			a.Release(ctx, token)
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(1, maxSeen, "two claims overlapped inside the critical section")
}

func (s *ArbiterSuite) TestRetryCeiling() {
	s.Run("force-clears a stuck slot and reports busy", func() {
		ok, err := s.slot.SetIfEmpty(context.Background(), "stuck_holder")
		s.Require().NoError(err)
		s.Require().True(ok)

		a := s.newArbiter(3)
		_, err = a.Acquire(context.Background(), "u2")
		s.Require().ErrorIs(err, ErrBusy)

		cur, err := s.slot.Current(context.Background())
		s.Require().NoError(err)
		s.Empty(cur, "slot should be force-cleared after the ceiling")
		s.Contains(s.logs.String(), "force-clearing")
	})

	s.Run("next claim succeeds after the forced clear", func() {
		s.Require().NoError(s.slot.ForceClear(context.Background()))
		a := s.newArbiter(3)
		token, err := a.Acquire(context.Background(), "u3")
		s.Require().NoError(err)
		a.Release(context.Background(), token)
	})
}

// TestStaleRelease drives the documented exclusivity gap end to end: a
// holder that outlives the retry ceiling gets its slot force-cleared, a new
// claim takes the gate, and the original holder's release is a mismatch
// that leaves the new holder untouched.
func (s *ArbiterSuite) TestStaleRelease() {
	a := s.newArbiter(3)

	stuck, err := a.Acquire(context.Background(), "slow")
	s.Require().NoError(err)

	// A second claimant exhausts the ceiling and force-clears the slot.
	_, err = a.Acquire(context.Background(), "impatient")
	s.Require().ErrorIs(err, ErrBusy)

	// A third claimant now wins the gate.
	next, err := a.Acquire(context.Background(), "next")
	s.Require().NoError(err)

	// The original holder finally releases: mismatch, slot untouched.
	a.Release(context.Background(), stuck)
	s.Contains(s.logs.String(), "release mismatch")

	cur, err := s.slot.Current(context.Background())
	s.Require().NoError(err)
	s.Equal(next.String(), cur, "stale release must not evict the new holder")

	a.Release(context.Background(), next)
}

func (s *ArbiterSuite) TestTokenString() {
	token := Token{Requester: "u1", Nonce: "abc123"}
	s.Equal("u1_abc123", token.String())
}
