package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single shopping cart owned by a user.
type Cart struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"userId"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Items     []CartItem `json:"items"`
}

// CartItem is a stored cart line. PriceAtAddition is captured from the
// product when the line is created and never refreshed afterwards.
type CartItem struct {
	ID              int64           `json:"id"`
	CartID          int64           `json:"cartId"`
	ProductID       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtAddition decimal.Decimal `json:"priceAtAddition"`
	AddedAt         time.Time       `json:"addedAt"`

	// Product is nil when the referenced product no longer exists.
	Product *CartProduct `json:"product,omitempty"`
}

// CartProduct is the slice of product data shown next to a cart line.
type CartProduct struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	ImageURL string          `json:"imageUrl"`
	Price    decimal.Decimal `json:"price"`
}

// CartLine is one entry of a client-held cart snapshot. ID is zero for lines
// the client has not persisted yet.
type CartLine struct {
	ID        int64
	ProductID int64
	Quantity  int
}
