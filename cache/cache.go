package cache

import (
	"context"
	"errors"

	models "storefront/model"
)

// CartCache holds copies of carts keyed by user id.
//
// Set never replaces an entry with a lower Version, so a reader that loaded
// a cart before a write committed cannot clobber the writer's copy.
type CartCache interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Set(ctx context.Context, userID string, cart *models.Cart) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")

// NopCache always misses. It is used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*models.Cart, error) { return nil, ErrCacheMiss }
func (NopCache) Set(context.Context, string, *models.Cart) error   { return nil }
func (NopCache) Delete(context.Context, string) error              { return nil }
