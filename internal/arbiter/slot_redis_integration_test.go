//go:build integration

package arbiter_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/Malmz/TalesFromTheSprawl/internal/arbiter"
	"github.com/Malmz/TalesFromTheSprawl/pkg/testutil/containers"
)

type RedisSlotSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	slot  *arbiter.RedisSlot
}

func TestRedisSlotSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSlotSuite))
}

func (s *RedisSlotSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.slot = arbiter.NewRedisSlot(s.redis.Client, "test:claim_gate")
}

func (s *RedisSlotSuite) TearDownSuite() {
	_ = s.redis.Client.Close()
	_ = s.redis.Container.Terminate(context.Background())
}

func (s *RedisSlotSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSlotSuite) TestSlotSemantics() {
	ctx := context.Background()

	s.Run("set-if-empty wins only once", func() {
		ok, err := s.slot.SetIfEmpty(ctx, "u1_nonce")
		s.Require().NoError(err)
		s.True(ok)

		ok, err = s.slot.SetIfEmpty(ctx, "u2_nonce")
		s.Require().NoError(err)
		s.False(ok)

		cur, err := s.slot.Current(ctx)
		s.Require().NoError(err)
		s.Equal("u1_nonce", cur)
	})

	s.Run("clear-if-match refuses a stale token", func() {
		cleared, err := s.slot.ClearIfMatch(ctx, "u2_nonce")
		s.Require().NoError(err)
		s.False(cleared)

		cur, err := s.slot.Current(ctx)
		s.Require().NoError(err)
		s.Equal("u1_nonce", cur)
	})

	s.Run("clear-if-match removes the holder's token", func() {
		cleared, err := s.slot.ClearIfMatch(ctx, "u1_nonce")
		s.Require().NoError(err)
		s.True(cleared)

		cur, err := s.slot.Current(ctx)
		s.Require().NoError(err)
		s.Empty(cur)
	})

	s.Run("force-clear empties an occupied slot", func() {
		ok, err := s.slot.SetIfEmpty(ctx, "stuck")
		s.Require().NoError(err)
		s.Require().True(ok)

		s.Require().NoError(s.slot.ForceClear(ctx))
		cur, err := s.slot.Current(ctx)
		s.Require().NoError(err)
		s.Empty(cur)
	})
}

// TestArbiterOverRedis runs the full acquisition loop against a real Redis
// slot: concurrent claimants never overlap inside the critical section.
func (s *RedisSlotSuite) TestArbiterOverRedis() {
	a := arbiter.New(s.slot,
		arbiter.WithLogger(slog.Default()),
		arbiter.WithInterval(5*time.Millisecond),
		arbiter.WithMaxRetries(500),
	)

	var mu sync.Mutex
	inSection := 0
	maxSeen := 0

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 3; i++ {
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

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inSection--
			mu.Unlock()
			a.Release(ctx, token)
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(1, maxSeen, "claims overlapped inside the critical section")
}
