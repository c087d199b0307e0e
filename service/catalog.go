package service

import (
	"context"
	"fmt"
	"strings"

	models "storefront/model"
	"storefront/store"

	"github.com/shopspring/decimal"
)

var maxPrice = decimal.NewFromInt(1_000_000)

// normalizeFilter applies paging defaults and rejects inconsistent bounds.
func normalizeFilter(f models.ProductFilter) (models.ProductFilter, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.SortBy = strings.ToLower(strings.TrimSpace(f.SortBy))

	fields := map[string]string{}
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		fields["minPrice"] = "must not be negative"
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		fields["maxPrice"] = "must not be negative"
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		fields["minPrice"] = "must not exceed maxPrice"
	}
	if f.CategoryID != nil && *f.CategoryID <= 0 {
		fields["categoryId"] = "must be greater than 0"
	}
	if f.BrandID != nil && *f.BrandID <= 0 {
		fields["brandId"] = "must be greater than 0"
	}
	if f.PageNumber > store.MaxPageNumber {
		fields["pageNumber"] = fmt.Sprintf("must not exceed %d", store.MaxPageNumber)
	}
	if len(fields) > 0 {
		return f, &ValidationError{Fields: fields}
	}

	if f.PageNumber < 1 {
		f.PageNumber = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = store.DefaultPageSize
	}
	if f.PageSize > store.MaxPageSize {
		f.PageSize = store.MaxPageSize
	}
	return f, nil
}

func (s *Service) ListProducts(ctx context.Context, f models.ProductFilter) (ProductPage, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return ProductPage{}, err
	}
	products, total, err := s.store.ListProducts(ctx, f)
	if err != nil {
		return ProductPage{}, mapStoreErr(err)
	}
	page := ProductPage{
		Items:      make([]ProductDTO, 0, len(products)),
		TotalCount: total,
		PageNumber: f.PageNumber,
		PageSize:   f.PageSize,
	}
	for _, p := range products {
		page.Items = append(page.Items, toProductDTO(p))
	}
	return page, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (ProductDetailDTO, error) {
	d, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return ProductDetailDTO{}, mapStoreErr(err)
	}
	return toProductDetailDTO(d), nil
}

func validateProduct(in ProductInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if !in.Price.IsPositive() || in.Price.GreaterThan(maxPrice) {
		return fieldError("price", "must be greater than 0 and at most 1000000")
	}
	return nil
}

func productFromInput(in ProductInput) models.Product {
	return models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Sku:         strings.TrimSpace(in.Sku),
		Price:       in.Price.Round(2),
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
	}
}

// CreateProduct stores a new product and returns it as the catalog shows it.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (ProductDTO, error) {
	if err := validateProduct(in); err != nil {
		return ProductDTO{}, err
	}
	id, err := s.store.CreateProduct(ctx, productFromInput(in))
	if err != nil {
		return ProductDTO{}, mapStoreErr(err)
	}
	d, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, mapStoreErr(err)
	}
	return toProductDTO(d.Product), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductUpdate) error {
	if id != in.ID {
		return invalidOp("product id mismatch")
	}
	if err := validateProduct(in.ProductInput); err != nil {
		return err
	}
	p := productFromInput(in.ProductInput)
	p.ID = id
	return mapStoreErr(s.store.UpdateProduct(ctx, p))
}

func (s *Service) UpdateStock(ctx context.Context, id int64, in StockUpdate) error {
	if id != in.ID {
		return invalidOp("product id mismatch")
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	return mapStoreErr(s.store.UpdateStock(ctx, id, in.Stock))
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return mapStoreErr(s.store.DeleteProduct(ctx, id))
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	out, err := s.store.ListCategories(ctx)
	return out, mapStoreErr(err)
}

func (s *Service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	out, err := s.store.ListBrands(ctx)
	return out, mapStoreErr(err)
}
