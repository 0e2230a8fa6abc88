package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/gurulost/FitnessForge/internal/core/domain"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

const counterKeyPrefix = "ratelimit:"

// incrementScript opens the window in the same step as the first INCR, so a
// counter key never outlives its window.
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

type CounterStore struct {
	client *redis.Client
	now    func() time.Time
}

var _ ports.CounterStorage = (*CounterStore)(nil)

func (s *CounterStore) Increment(ctx context.Context, key string, window time.Duration) (domain.Counter, error) {
	values, err := incrementScript.Run(ctx, s.client, []string{counterKeyPrefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return domain.Counter{}, err
	}
	if len(values) != 2 {
		return domain.Counter{}, fmt.Errorf("unexpected increment reply: %v", values)
	}

	return domain.Counter{
		Count:     values[0],
		ResetTime: s.now().Add(time.Duration(values[1]) * time.Millisecond),
	}, nil
}

// SweepExpired is a no-op: redis expires the windows itself.
func (s *CounterStore) SweepExpired(_ context.Context) (int, error) {
	return 0, nil
}
