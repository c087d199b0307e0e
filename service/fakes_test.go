package service

import (
	"context"
	"errors"
	"sync"

	"storefront/auth"
	"storefront/cache"
	models "storefront/model"
)

// fakeStore implements store.Store through per-method func fields.
type fakeStore struct {
	ListProductsFn      func(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error)
	GetProductFn        func(ctx context.Context, id int64) (models.ProductDetail, error)
	CreateProductFn     func(ctx context.Context, p models.Product) (int64, error)
	UpdateProductFn     func(ctx context.Context, p models.Product) error
	UpdateStockFn       func(ctx context.Context, productID int64, newStock int) error
	DeleteProductFn     func(ctx context.Context, id int64) error
	GetCartFn           func(ctx context.Context, userID string) (models.Cart, error)
	SyncCartFn          func(ctx context.Context, userID string, lines []models.CartLine) (models.Cart, error)
	CheckoutFn          func(ctx context.Context, userID string, req models.CheckoutRequest) (models.Order, error)
	ListOrdersFn        func(ctx context.Context, userID string) ([]models.Order, error)
	GetOrderFn          func(ctx context.Context, userID string, orderID int64) (models.Order, error)
	CreateAddressFn     func(ctx context.Context, a models.Address) (models.Address, error)
	DeleteAddressFn     func(ctx context.Context, userID string, id int64) error
	CreateUserFn        func(ctx context.Context, u models.User) error
	GetUserByUsernameFn func(ctx context.Context, username string) (models.User, error)
}

func (f *fakeStore) ListProducts(ctx context.Context, flt models.ProductFilter) ([]models.Product, int, error) {
	return f.ListProductsFn(ctx, flt)
}
func (f *fakeStore) GetProduct(ctx context.Context, id int64) (models.ProductDetail, error) {
	return f.GetProductFn(ctx, id)
}
func (f *fakeStore) CreateProduct(ctx context.Context, p models.Product) (int64, error) {
	return f.CreateProductFn(ctx, p)
}
func (f *fakeStore) UpdateProduct(ctx context.Context, p models.Product) error {
	return f.UpdateProductFn(ctx, p)
}
func (f *fakeStore) UpdateStock(ctx context.Context, productID int64, newStock int) error {
	return f.UpdateStockFn(ctx, productID, newStock)
}
func (f *fakeStore) DeleteProduct(ctx context.Context, id int64) error { return f.DeleteProductFn(ctx, id) }
func (f *fakeStore) ListCategories(context.Context) ([]models.Category, error) {
	return []models.Category{}, nil
}
func (f *fakeStore) ListBrands(context.Context) ([]models.Brand, error) { return []models.Brand{}, nil }
func (f *fakeStore) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	return f.GetCartFn(ctx, userID)
}
func (f *fakeStore) SyncCart(ctx context.Context, userID string, lines []models.CartLine) (models.Cart, error) {
	return f.SyncCartFn(ctx, userID, lines)
}
func (f *fakeStore) Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (models.Order, error) {
	return f.CheckoutFn(ctx, userID, req)
}
func (f *fakeStore) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return f.ListOrdersFn(ctx, userID)
}
func (f *fakeStore) GetOrder(ctx context.Context, userID string, orderID int64) (models.Order, error) {
	return f.GetOrderFn(ctx, userID, orderID)
}
func (f *fakeStore) ListAddresses(context.Context, string) ([]models.Address, error) {
	return []models.Address{}, nil
}
func (f *fakeStore) CreateAddress(ctx context.Context, a models.Address) (models.Address, error) {
	return f.CreateAddressFn(ctx, a)
}
func (f *fakeStore) DeleteAddress(ctx context.Context, userID string, id int64) error {
	return f.DeleteAddressFn(ctx, userID, id)
}
func (f *fakeStore) CreateUser(ctx context.Context, u models.User) error { return f.CreateUserFn(ctx, u) }
func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return f.GetUserByUsernameFn(ctx, username)
}
func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close() error               { return nil }

// memCache mirrors RedisCache: Set keeps the higher version.
type memCache struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newMemCache() *memCache { return &memCache{carts: map[string]models.Cart{}} }

func (m *memCache) Get(_ context.Context, userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &c, nil
}

func (m *memCache) Set(_ context.Context, userID string, c *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.carts[userID]; ok && cur.Version > c.Version {
		return nil
	}
	m.carts[userID] = *c
	return nil
}

func (m *memCache) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(u models.User) (string, error) { return "token-for-" + u.ID, nil }
func (fakeTokens) Parse(string) (*auth.Claims, error)  { return nil, auth.ErrInvalidToken }

// plainHasher "hashes" by prefixing; good enough to check wiring.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return auth.ErrPasswordMismatch
	}
	return nil
}

var errDB = errors.New("db down")

func newTestService(fs *fakeStore) (*Service, *memCache) {
	c := newMemCache()
	return NewService(fs, c, fakeTokens{}, plainHasher{}), c
}
