package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	models "storefront/model"
	"storefront/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGetCart_TotalsUseCapturedPrice(t *testing.T) {
	fs := &fakeStore{
		GetCartFn: func(_ context.Context, userID string) (models.Cart, error) {
			return models.Cart{ID: 1, UserID: userID, Items: []models.CartItem{
				{ID: 1, ProductID: 10, Quantity: 2, PriceAtAddition: dec("10.00"),
					Product: &models.CartProduct{ID: 10, Name: "Mouse", Price: dec("12.00")}},
				{ID: 2, ProductID: 11, Quantity: 3, PriceAtAddition: dec("1.50")},
			}}, nil
		},
	}
	svc, _ := newTestService(fs)

	cart, err := svc.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Mouse", cart.Items[0].ProductName)
	assert.True(t, dec("20").Equal(cart.Items[0].LineTotal))
	assert.True(t, dec("10").Equal(cart.Items[0].ProductPrice))
	assert.True(t, dec("24.5").Equal(cart.TotalPrice), cart.TotalPrice.String())
}

func TestGetCart_ReadsThroughCache(t *testing.T) {
	calls := 0
	fs := &fakeStore{
		GetCartFn: func(_ context.Context, userID string) (models.Cart, error) {
			calls++
			return models.Cart{ID: 1, UserID: userID}, nil
		},
	}
	svc, c := newTestService(fs)
	ctx := context.Background()

	_, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = c.Get(ctx, "u1")
	assert.NoError(t, err)
}

func TestGetCart_StoreError(t *testing.T) {
	fs := &fakeStore{
		GetCartFn: func(context.Context, string) (models.Cart, error) { return models.Cart{}, errDB },
	}
	svc, _ := newTestService(fs)

	_, err := svc.GetCart(context.Background(), "u1")
	assert.ErrorIs(t, err, errDB)

	_, err = svc.GetCart(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSyncCart_UserMismatch(t *testing.T) {
	called := false
	fs := &fakeStore{
		SyncCartFn: func(context.Context, string, []models.CartLine) (models.Cart, error) {
			called = true
			return models.Cart{}, nil
		},
	}
	svc, _ := newTestService(fs)

	_, err := svc.SyncCart(context.Background(), "u1", SyncCartRequest{UserID: "u2"})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = svc.SyncCart(context.Background(), "u1", SyncCartRequest{})
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.False(t, called)
}

func TestSyncCart_ForwardsLinesAndCachesResult(t *testing.T) {
	var got []models.CartLine
	fs := &fakeStore{
		SyncCartFn: func(_ context.Context, userID string, lines []models.CartLine) (models.Cart, error) {
			got = lines
			return models.Cart{ID: 1, UserID: userID, Version: 2, Items: []models.CartItem{
				{ID: 7, ProductID: 1, Quantity: 2, PriceAtAddition: dec("10.00")},
			}}, nil
		},
	}
	svc, c := newTestService(fs)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "u1", &models.Cart{ID: 1, UserID: "u1", Version: 1}))

	cart, err := svc.SyncCart(ctx, "u1", SyncCartRequest{UserID: "u1", Items: []SyncCartItem{
		{ID: 5, ProductID: 1, Quantity: 0},
		{ProductID: 1, Quantity: 2},
	}})
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{{ID: 5, ProductID: 1, Quantity: 0}, {ProductID: 1, Quantity: 2}}, got)
	assert.Equal(t, int64(7), cart.Items[0].ID)
	assert.True(t, dec("20").Equal(cart.TotalPrice))

	cached, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.Version)
	require.Len(t, cached.Items, 1)
	assert.Equal(t, int64(7), cached.Items[0].ID)
}

func TestSyncCart_FailureLeavesCacheAlone(t *testing.T) {
	fs := &fakeStore{
		SyncCartFn: func(context.Context, string, []models.CartLine) (models.Cart, error) {
			return models.Cart{}, errDB
		},
	}
	svc, c := newTestService(fs)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "u1", &models.Cart{ID: 1, UserID: "u1", Version: 5}))

	_, err := svc.SyncCart(ctx, "u1", SyncCartRequest{UserID: "u1"})
	require.ErrorIs(t, err, errDB)

	cached, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), cached.Version)
}

// A read that loaded the cart before a sync committed must not replace the
// synced copy in the cache.
func TestSyncCart_InFlightReadCannotOverwriteCache(t *testing.T) {
	var (
		mu      sync.Mutex
		stored  = models.Cart{ID: 1, UserID: "u1", Version: 1, Items: []models.CartItem{{ID: 7, ProductID: 1, Quantity: 1, PriceAtAddition: dec("5.00")}}}
		reads   int
		reading = make(chan struct{})
		release = make(chan struct{})
	)
	fs := &fakeStore{
		GetCartFn: func(context.Context, string) (models.Cart, error) {
			mu.Lock()
			snapshot := stored
			reads++
			first := reads == 1
			mu.Unlock()
			if first {
				close(reading)
				<-release
			}
			return snapshot, nil
		},
		SyncCartFn: func(_ context.Context, userID string, _ []models.CartLine) (models.Cart, error) {
			mu.Lock()
			defer mu.Unlock()
			stored = models.Cart{ID: 1, UserID: userID, Version: 2, Items: []models.CartItem{}}
			return stored, nil
		},
	}
	svc, c := newTestService(fs)
	ctx := context.Background()

	done := make(chan int, 1)
	go func() {
		cart, err := svc.GetCart(ctx, "u1")
		assert.NoError(t, err)
		done <- len(cart.Items)
	}()
	<-reading

	_, err := svc.SyncCart(ctx, "u1", SyncCartRequest{UserID: "u1", Items: []SyncCartItem{}})
	require.NoError(t, err)
	close(release)
	assert.Equal(t, 1, <-done, "the in-flight reader still sees what it read")

	cached, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.Version)

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestGetCart_CancelledCallerDoesNotFailSharedRead(t *testing.T) {
	reading := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	fs := &fakeStore{
		GetCartFn: func(ctx context.Context, userID string) (models.Cart, error) {
			calls++
			close(reading)
			<-release
			if err := ctx.Err(); err != nil {
				return models.Cart{}, err
			}
			return models.Cart{ID: 1, UserID: userID, Version: 1}, nil
		},
	}
	svc, _ := newTestService(fs)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := svc.GetCart(ctx, "u1")
		first <- err
	}()
	<-reading
	cancel()
	require.ErrorIs(t, <-first, context.Canceled)

	second := make(chan error, 1)
	go func() {
		_, err := svc.GetCart(context.Background(), "u1")
		second <- err
	}()
	// let the second caller join the in-flight read before releasing it
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.NoError(t, <-second)
	assert.Equal(t, 1, calls)
}

// Scenario B: an unknown product on a new line fails the whole sync.
func TestSyncCart_UnknownProductIsNotFound(t *testing.T) {
	fs := &fakeStore{
		SyncCartFn: func(context.Context, string, []models.CartLine) (models.Cart, error) {
			return models.Cart{}, fmt.Errorf("%w: id %d", store.ErrProductNotFound, 99999)
		},
	}
	svc, _ := newTestService(fs)

	_, err := svc.SyncCart(context.Background(), "u1", SyncCartRequest{UserID: "u1", Items: []SyncCartItem{
		{ID: 0, ProductID: 99999, Quantity: 1},
	}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
	assert.Equal(t, "product not found: id 99999", err.Error())
}

func TestSyncCart_NegativeIDIsValidationError(t *testing.T) {
	svc, _ := newTestService(&fakeStore{})

	_, err := svc.SyncCart(context.Background(), "u1", SyncCartRequest{UserID: "u1", Items: []SyncCartItem{{ID: -1, ProductID: 1, Quantity: 1}}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, verr.Fields, "items[0].id")
}
