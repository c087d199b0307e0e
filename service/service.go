package service

import (
	"context"
	"log"
	"time"

	"storefront/auth"
	"storefront/cache"
	models "storefront/model"
	"storefront/store"

	"golang.org/x/sync/singleflight"
)

const cartReadTimeout = 5 * time.Second

// Service implements the storefront's business rules on top of a Store.
// Carts are read through a CartCache; every committed cart write stores its
// result there under the cart's new version.
type Service struct {
	store  store.Store
	cache  cache.CartCache
	tokens auth.TokenIssuer
	hasher auth.PasswordHasher
	sfg    singleflight.Group
}

func NewService(s store.Store, c cache.CartCache, tokens auth.TokenIssuer, hasher auth.PasswordHasher) *Service {
	if c == nil {
		c = cache.NopCache{}
	}
	return &Service{
		store:  s,
		cache:  c,
		tokens: tokens,
		hasher: hasher,
	}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// cacheCart publishes a cart a writer just committed. If that fails the
// entry is dropped instead.
func (s *Service) cacheCart(userID string, cart *models.Cart) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, userID, cart); err != nil {
		log.Printf("cache set error: %v", err)
		s.invalidateCart(userID)
	}
}

// refreshCart reloads the cart after a write that does not return it.
func (s *Service) refreshCart(ctx context.Context, userID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cartReadTimeout)
	defer cancel()
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		log.Printf("reload cart of %s: %v", userID, err)
		s.invalidateCart(userID)
		return
	}
	s.cacheCart(userID, &cart)
}

func (s *Service) invalidateCart(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
