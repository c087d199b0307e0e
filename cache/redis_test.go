package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	models "storefront/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, ttl), mr
}

func sampleCart(userID string) *models.Cart {
	return &models.Cart{
		ID:     3,
		UserID: userID,
		Items: []models.CartItem{
			{ID: 1, CartID: 3, ProductID: 10, Quantity: 2, PriceAtAddition: decimal.RequireFromString("19.99")},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestSetThenGet(t *testing.T) {
	c, _ := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", sampleCart("u1")))

	got, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	require.Len(t, got.Items, 1)
	assert.True(t, decimal.RequireFromString("19.99").Equal(got.Items[0].PriceAtAddition))
}

func TestGet_CacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t, time.Minute)

	got, err := c.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

func TestGet_InvalidJSON(t *testing.T) {
	c, mr := setupTestRedis(t, time.Minute)
	data, err := json.Marshal(sampleCart("u1"))
	require.NoError(t, err)
	mr.HSet(cacheKey("u1"), "version", "1", "data", string(data[:10]))

	_, err = c.Get(context.Background(), "u1")
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestSet_KeepsNewerVersion(t *testing.T) {
	c, _ := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	fresh := sampleCart("u1")
	fresh.Version = 2
	fresh.Items = []models.CartItem{}
	require.NoError(t, c.Set(ctx, "u1", fresh))

	stale := sampleCart("u1")
	stale.Version = 1
	require.NoError(t, c.Set(ctx, "u1", stale))

	got, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Empty(t, got.Items)

	same := sampleCart("u1")
	same.Version = 2
	require.NoError(t, c.Set(ctx, "u1", same))
	got, err = c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1, "an equal version replaces the entry")
}

func TestSet_TTLWithinJitterWindow(t *testing.T) {
	c, mr := setupTestRedis(t, 10*time.Minute)

	require.NoError(t, c.Set(context.Background(), "u1", sampleCart("u1")))

	ttl := mr.TTL(cacheKey("u1"))
	assert.GreaterOrEqual(t, ttl, 10*time.Minute)
	assert.Less(t, ttl, 12*time.Minute)
}

func TestNewRedisCache_DefaultTTL(t *testing.T) {
	c, _ := setupTestRedis(t, 0)
	assert.Equal(t, DefaultTTL, c.baseTTL)
}

func TestDelete(t *testing.T) {
	c, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, mr.Set(cacheKey("u1"), "{}"))

	require.NoError(t, c.Delete(ctx, "u1"))
	assert.False(t, mr.Exists(cacheKey("u1")))

	assert.NoError(t, c.Delete(ctx, "missing"))
}

func TestNopCache(t *testing.T) {
	var c CartCache = NopCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", sampleCart("u1")))
	_, err := c.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "u1"))
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "cart:test123", cacheKey("test123"))
}
