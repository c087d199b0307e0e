package service

import (
	"context"

	models "storefront/model"
)

type ServiceInterface interface {
	ListProducts(ctx context.Context, f models.ProductFilter) (ProductPage, error)
	GetProduct(ctx context.Context, id int64) (ProductDetailDTO, error)
	CreateProduct(ctx context.Context, in ProductInput) (ProductDTO, error)
	UpdateProduct(ctx context.Context, id int64, in ProductUpdate) error
	UpdateStock(ctx context.Context, id int64, in StockUpdate) error
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)

	GetCart(ctx context.Context, userID string) (CartDTO, error)
	SyncCart(ctx context.Context, userID string, req SyncCartRequest) (CartDTO, error)

	Checkout(ctx context.Context, userID string, req CreateOrderRequest) (OrderDTO, error)
	ListOrders(ctx context.Context, userID string) ([]OrderDTO, error)
	GetOrder(ctx context.Context, userID string, orderID int64) (OrderDTO, error)

	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	CreateAddress(ctx context.Context, userID string, in AddressInput) (models.Address, error)
	DeleteAddress(ctx context.Context, userID string, id int64) error

	Register(ctx context.Context, req RegisterRequest) (UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)

	Ping(ctx context.Context) error
}
