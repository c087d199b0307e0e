package store

import (
	"context"

	models "storefront/model"
)

// CatalogStore reads and administers products and their reference data.
type CatalogStore interface {
	ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error)
	GetProduct(ctx context.Context, id int64) (models.ProductDetail, error)
	CreateProduct(ctx context.Context, p models.Product) (int64, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	UpdateStock(ctx context.Context, productID int64, newStock int) error
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
}

// CartStore owns the per-user cart. SyncCart is atomic.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (models.Cart, error)
	SyncCart(ctx context.Context, userID string, lines []models.CartLine) (models.Cart, error)
}

// OrderStore creates orders from carts and reads them back. Checkout is atomic.
type OrderStore interface {
	Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (models.Order, error)
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, userID string, orderID int64) (models.Order, error)
}

type AddressStore interface {
	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	CreateAddress(ctx context.Context, a models.Address) (models.Address, error)
	DeleteAddress(ctx context.Context, userID string, id int64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

type Store interface {
	CatalogStore
	CartStore
	OrderStore
	AddressStore
	UserStore

	Ping(ctx context.Context) error
	Close() error
}
