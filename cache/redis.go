package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	models "storefront/model"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 5 * time.Minute

// setIfNewer stores the cart unless the entry holds a higher version.
// KEYS[1] cart key; ARGV version, payload, ttl in ms.
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewRedisCache returns a cache whose entries live for ttl plus up to a
// fifth of ttl of jitter. A non-positive ttl selects DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, baseTTL: ttl}
}

func (r *RedisCache) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.HGet(ctx, cacheKey(userID), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, userID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	ttl := r.baseTTL + r.jitter()
	err = setIfNewer.Run(ctx, r.client, []string{cacheKey(userID)}, cart.Version, data, ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) jitter() time.Duration {
	window := r.baseTTL / 5
	if window <= 0 {
		return 0
	}
	return rand.N(window)
}

func cacheKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
