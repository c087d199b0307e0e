package service

import (
	"context"
	"errors"
	"log"

	"storefront/cache"
	models "storefront/model"
)

// GetCart returns the caller's cart, creating an empty one on first access.
// Concurrent misses for the same user share one store read, which is
// detached from any single caller's cancellation.
func (s *Service) GetCart(ctx context.Context, userID string) (CartDTO, error) {
	if userID == "" {
		return CartDTO{}, classify(ErrUnauthenticated, errors.New("user id required"))
	}

	ch := s.sfg.DoChan(userID, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cartReadTimeout)
		defer cancel()

		cart, err := s.cache.Get(rctx, userID)
		if err == nil {
			return *cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		fresh, err := s.store.GetCart(rctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(rctx, userID, &fresh); err != nil {
			log.Printf("cache set error: %v", err)
		}
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return CartDTO{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return CartDTO{}, mapStoreErr(res.Err)
		}
		return toCartDTO(res.Val.(models.Cart)), nil
	}
}

// SyncCart replaces the caller's cart with the client's snapshot and
// returns the authoritative result. The snapshot's userId must name the
// caller.
func (s *Service) SyncCart(ctx context.Context, userID string, req SyncCartRequest) (CartDTO, error) {
	if userID == "" {
		return CartDTO{}, classify(ErrUnauthenticated, errors.New("user id required"))
	}
	if req.UserID != userID {
		return CartDTO{}, invalidOp("cart user id does not match the authenticated user")
	}
	if err := validateStruct(req); err != nil {
		return CartDTO{}, err
	}

	lines := make([]models.CartLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, models.CartLine{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
	}

	cart, err := s.store.SyncCart(ctx, userID, lines)
	if err != nil {
		return CartDTO{}, mapStoreErr(err)
	}
	s.cacheCart(userID, &cart)
	return toCartDTO(cart), nil
}
