package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript refills and drains a bucket stored as a hash of tokens and
// last refill time in milliseconds. It returns the remaining count and the
// next refill time.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local tokens = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last')
local current = tonumber(state[1])
local last = tonumber(state[2])
if current == nil or last == nil then
	current = capacity
	last = now
end

local max_intervals = math.floor(capacity / rate) + 1
local intervals = math.min(math.floor((now - last) / interval), max_intervals)
if intervals > 0 then
	current = math.min(math.max(current, 0) + intervals * rate, capacity)
	last = now
end

local remaining = current - tokens
if remaining >= 0 then
	current = remaining
end

redis.call('HSET', KEYS[1], 'tokens', current, 'last', last)
redis.call('PEXPIRE', KEYS[1], interval * (max_intervals + 1))
return {remaining, last + interval}
`)

// RedisStore keeps buckets in Redis so limits hold across instances.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store writing keys as prefix + key.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity, cfg.RefillRate, cfg.RefillInterval.Milliseconds(), time.Now().UnixMilli(), tokens,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStore, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script reply %v", ErrStore, res)
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}
