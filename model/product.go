package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID           int64
	Name         string
	Description  string
	Sku          string
	Price        decimal.Decimal
	ImageURL     string
	Stock        int
	CategoryID   int64
	CategoryName string
	BrandID      *int64
	BrandName    string
	SellerID     *int64
}

// ProductDetail is a product together with its seller, features and reviews.
type ProductDetail struct {
	Product
	SellerName    string
	SellerContact string
	Features      []string
	Reviews       []Review
}

type Review struct {
	ID         int64     `json:"id"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"reviewDate"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Sort keys accepted by ProductFilter.SortBy, compared case-insensitively.
const (
	SortPriceAsc  = "priceasc"
	SortPriceDesc = "pricedesc"
	SortNameAsc   = "nameasc"
	SortNameDesc  = "namedesc"
)

// ProductFilter selects one page of the catalog. Nil pointers mean "no filter".
type ProductFilter struct {
	Search     string
	CategoryID *int64
	BrandID    *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	PageNumber int
	PageSize   int
	SortBy     string
}
