package arbiter

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSlot implements SlotStore on a single Redis key so multiple nodes
// share one arbitration gate. No TTL is set: recovery from a stuck holder
// is the arbiter's retry-ceiling force-clear, same as the memory slot.
type RedisSlot struct {
	client redis.Cmdable
	key    string
}

// clearIfMatchScript deletes the key only while it still holds the caller's
// token, so clear-check-delete is atomic on the Redis side.
var clearIfMatchScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
end
return 0
`)

func NewRedisSlot(client redis.Cmdable, key string) *RedisSlot {
	if key == "" {
		key = "sprawl:claim_gate"
	}
	return &RedisSlot{client: client, key: key}
}

func (s *RedisSlot) SetIfEmpty(ctx context.Context, token string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key, token, 0).Result()
	if err != nil {
		return false, fmt.Errorf("set claim gate: %w", err)
	}
	return ok, nil
}

func (s *RedisSlot) Current(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("read claim gate: %w", err)
	}
	return val, nil
}

func (s *RedisSlot) ClearIfMatch(ctx context.Context, token string) (bool, error) {
	n, err := clearIfMatchScript.Run(ctx, s.client, []string{s.key}, token).Int()
	if err != nil {
		return false, fmt.Errorf("clear claim gate: %w", err)
	}
	return n == 1, nil
}

func (s *RedisSlot) ForceClear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("force-clear claim gate: %w", err)
	}
	return nil
}
