package service

import (
	"math"
	"time"

	models "storefront/model"

	"github.com/shopspring/decimal"
)

// Cart

type CartItemDTO struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	ProductPrice    decimal.Decimal `json:"productPrice"`
	Quantity        int             `json:"quantity"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

type CartDTO struct {
	ID         int64           `json:"id"`
	UserID     string          `json:"userId"`
	Items      []CartItemDTO   `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// SyncCartItem is one line of the client's cart. ID is zero for lines the
// client added since its last sync; a quantity of zero or less removes the
// line. Any price the client sends is ignored.
type SyncCartItem struct {
	ID        int64 `json:"id" validate:"gte=0"`
	ProductID int64 `json:"productId" validate:"gte=0"`
	Quantity  int   `json:"quantity"`
}

type SyncCartRequest struct {
	UserID string         `json:"userId"`
	Items  []SyncCartItem `json:"items" validate:"dive"`
}

// ProductPrice on a cart line is the price captured when the line was added.
func toCartDTO(c models.Cart) CartDTO {
	out := CartDTO{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      make([]CartItemDTO, 0, len(c.Items)),
		TotalPrice: decimal.Zero,
	}
	for _, it := range c.Items {
		line := CartItemDTO{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductPrice: it.PriceAtAddition,
			Quantity:     it.Quantity,
			LineTotal:    it.PriceAtAddition.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
		if it.Product != nil {
			line.ProductName = it.Product.Name
			line.ProductImageURL = it.Product.ImageURL
		}
		out.Items = append(out.Items, line)
		out.TotalPrice = out.TotalPrice.Add(line.LineTotal)
	}
	return out
}

// Orders

type CreateOrderRequest struct {
	ShippingAddressID int64   `json:"shippingAddressId" validate:"required,gt=0"`
	BillingAddressID  int64   `json:"billingAddressId" validate:"required,gt=0"`
	PaymentMethod     *string `json:"paymentMethod,omitempty" validate:"omitempty,max=50"`
}

type OrderItemDTO struct {
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl,omitempty"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
}

type OrderDTO struct {
	ID              int64              `json:"id"`
	OrderDate       time.Time          `json:"orderDate"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	Status          models.OrderStatus `json:"status"`
	PaymentMethod   *string            `json:"paymentMethod"`
	PaymentStatus   *string            `json:"paymentStatus"`
	ShippingAddress *models.Address    `json:"shippingAddress"`
	BillingAddress  *models.Address    `json:"billingAddress"`
	Items           []OrderItemDTO     `json:"items"`
}

func toOrderDTO(o models.Order) OrderDTO {
	out := OrderDTO{
		ID:              o.ID,
		OrderDate:       o.OrderDate,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Items:           make([]OrderItemDTO, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItemDTO{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			ProductImageURL: it.ProductImageURL,
			Quantity:        it.Quantity,
			Price:           it.PriceAtOrder,
		})
	}
	return out
}

// Catalog

type ProductDTO struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Sku          string          `json:"sku"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Stock        int             `json:"stock"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	BrandID      *int64          `json:"brandId,omitempty"`
	BrandName    string          `json:"brandName,omitempty"`
}

type ProductDetailDTO struct {
	ProductDTO
	Features      []string        `json:"features"`
	SellerName    string          `json:"sellerName"`
	SellerContact string          `json:"sellerContact"`
	AverageRating float64         `json:"averageRating"`
	TotalReviews  int             `json:"totalReviews"`
	Reviews       []models.Review `json:"reviews"`
}

// ProductPage is one page of a catalog query. TotalCount counts all matches.
type ProductPage struct {
	Items      []ProductDTO
	TotalCount int
	PageNumber int
	PageSize   int
}

type ProductInput struct {
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Sku         string          `json:"sku" validate:"required,min=3,max=50"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl" validate:"max=500"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  int64           `json:"categoryId" validate:"required,gt=0"`
	BrandID     *int64          `json:"brandId" validate:"omitempty,gt=0"`
}

// ProductUpdate is a full replacement of a product. ID must repeat the id
// in the request path.
type ProductUpdate struct {
	ID int64 `json:"id"`
	ProductInput
}

type StockUpdate struct {
	ID    int64 `json:"id"`
	Stock int   `json:"stock" validate:"gte=0"`
}

func toProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Sku:          p.Sku,
		Price:        p.Price,
		ImageURL:     p.ImageURL,
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		BrandID:      p.BrandID,
		BrandName:    p.BrandName,
	}
}

func toProductDetailDTO(d models.ProductDetail) ProductDetailDTO {
	out := ProductDetailDTO{
		ProductDTO:    toProductDTO(d.Product),
		Features:      d.Features,
		SellerName:    d.SellerName,
		SellerContact: d.SellerContact,
		TotalReviews:  len(d.Reviews),
		Reviews:       d.Reviews,
	}
	if out.Features == nil {
		out.Features = []string{}
	}
	if out.Reviews == nil {
		out.Reviews = []models.Review{}
	}
	if len(d.Reviews) > 0 {
		sum := 0
		for _, r := range d.Reviews {
			sum += r.Rating
		}
		avg := float64(sum) / float64(len(d.Reviews))
		out.AverageRating = math.Round(avg*10) / 10
	}
	return out
}

// Addresses

type AddressInput struct {
	Street            string `json:"street" validate:"required,max=200"`
	City              string `json:"city" validate:"required,max=50"`
	State             string `json:"state" validate:"required,max=50"`
	PostalCode        string `json:"postalCode" validate:"required,max=10"`
	Country           string `json:"country" validate:"required,max=50"`
	IsDefaultShipping bool   `json:"isDefaultShipping"`
	IsDefaultBilling  bool   `json:"isDefaultBilling"`
}

// Accounts

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Email           string `json:"email" validate:"required,email,max=256"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"max=100"`
	LastName        string `json:"lastName" validate:"max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Roles     []string `json:"roles"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func toUserDTO(u models.User) UserDTO {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     roles,
	}
}
