package service

import (
	"context"
	"errors"
	"math"
	"testing"

	models "storefront/model"
	"storefront/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilter(t *testing.T) {
	f, err := normalizeFilter(models.ProductFilter{Search: "  lap ", SortBy: "PriceDesc", PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, "lap", f.Search)
	assert.Equal(t, models.SortPriceDesc, f.SortBy)
	assert.Equal(t, 1, f.PageNumber)
	assert.Equal(t, 100, f.PageSize)

	f, err = normalizeFilter(models.ProductFilter{PageNumber: 3})
	require.NoError(t, err)
	assert.Equal(t, 10, f.PageSize)
	assert.Equal(t, 3, f.PageNumber)
}

func TestNormalizeFilter_RejectsBadBounds(t *testing.T) {
	lo, hi := decimal.NewFromInt(50), decimal.NewFromInt(10)
	neg := decimal.NewFromInt(-1)
	zero := int64(0)

	_, err := normalizeFilter(models.ProductFilter{MinPrice: &lo, MaxPrice: &hi})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "minPrice")

	_, err = normalizeFilter(models.ProductFilter{MaxPrice: &neg, CategoryID: &zero})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "maxPrice")
	assert.Contains(t, verr.Fields, "categoryId")
}

func TestListProducts(t *testing.T) {
	var got models.ProductFilter
	fs := &fakeStore{
		ListProductsFn: func(_ context.Context, f models.ProductFilter) ([]models.Product, int, error) {
			got = f
			return []models.Product{{ID: 1, Name: "Gaming Laptop", Price: dec("1200.00"), CategoryName: "Electronics"}}, 42, nil
		},
	}
	svc, _ := newTestService(fs)

	page, err := svc.ListProducts(context.Background(), models.ProductFilter{PageNumber: 2})
	require.NoError(t, err)
	assert.Equal(t, 42, page.TotalCount)
	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 10, got.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Electronics", page.Items[0].CategoryName)
}

func TestGetProduct_AverageRating(t *testing.T) {
	fs := &fakeStore{
		GetProductFn: func(_ context.Context, id int64) (models.ProductDetail, error) {
			if id != 1 {
				return models.ProductDetail{}, store.ErrProductNotFound
			}
			return models.ProductDetail{
				Product: models.Product{ID: 1, Name: "Gaming Laptop"},
				Reviews: []models.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}},
			}, nil
		},
	}
	svc, _ := newTestService(fs)

	d, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4.3, d.AverageRating)
	assert.Equal(t, 3, d.TotalReviews)
	assert.Equal(t, []string{}, d.Features)

	_, err = svc.GetProduct(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func validProductInput() ProductInput {
	return ProductInput{Name: "Desk Lamp", Sku: "LMP-001", Price: dec("19.999"), Stock: 3, CategoryID: 2}
}

func TestCreateProduct(t *testing.T) {
	var created models.Product
	fs := &fakeStore{
		CreateProductFn: func(_ context.Context, p models.Product) (int64, error) {
			created = p
			return 9, nil
		},
		GetProductFn: func(_ context.Context, id int64) (models.ProductDetail, error) {
			return models.ProductDetail{Product: models.Product{ID: id, Name: created.Name, Price: created.Price}}, nil
		},
	}
	svc, _ := newTestService(fs)

	p, err := svc.CreateProduct(context.Background(), validProductInput())
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
	assert.True(t, dec("20").Equal(created.Price), created.Price.String())

	in := validProductInput()
	in.Price = decimal.Zero
	_, err = svc.CreateProduct(context.Background(), in)
	assert.ErrorIs(t, err, ErrValidation)

	in = validProductInput()
	in.Name = "ab"
	_, err = svc.CreateProduct(context.Background(), in)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
}

func TestUpdateProduct_IDMismatch(t *testing.T) {
	svc, _ := newTestService(&fakeStore{})

	err := svc.UpdateProduct(context.Background(), 1, ProductUpdate{ID: 2, ProductInput: validProductInput()})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	err = svc.UpdateStock(context.Background(), 1, StockUpdate{ID: 2, Stock: 4})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestUpdateStock(t *testing.T) {
	fs := &fakeStore{
		UpdateStockFn: func(_ context.Context, id int64, stock int) error {
			if id == 404 {
				return store.ErrProductNotFound
			}
			return nil
		},
	}
	svc, _ := newTestService(fs)

	assert.NoError(t, svc.UpdateStock(context.Background(), 7, StockUpdate{ID: 7, Stock: 10}))
	assert.ErrorIs(t, svc.UpdateStock(context.Background(), 7, StockUpdate{ID: 7, Stock: -1}), ErrValidation)
	assert.ErrorIs(t, svc.UpdateStock(context.Background(), 404, StockUpdate{ID: 404, Stock: 1}), ErrNotFound)
}

func TestDeleteProduct_InUse(t *testing.T) {
	fs := &fakeStore{
		DeleteProductFn: func(context.Context, int64) error { return store.ErrProductInUse },
	}
	svc, _ := newTestService(fs)

	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), 1), ErrInvalidOperation)
}

func TestListProducts_HugePageNumberIsValidationError(t *testing.T) {
	fs := &fakeStore{
		ListProductsFn: func(context.Context, models.ProductFilter) ([]models.Product, int, error) {
			t.Fatal("store must not be queried")
			return nil, 0, nil
		},
	}
	svc, _ := newTestService(fs)

	_, err := svc.ListProducts(context.Background(), models.ProductFilter{PageNumber: math.MaxInt, PageSize: 100})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, verr.Fields, "pageNumber")
	assert.ErrorIs(t, err, ErrValidation)

	f, err := normalizeFilter(models.ProductFilter{PageNumber: store.MaxPageNumber})
	require.NoError(t, err)
	assert.Equal(t, store.MaxPageNumber, f.PageNumber)
}
