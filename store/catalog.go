package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	models "storefront/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPageNumber keeps (page-1)*MaxPageSize within int.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

const (
	productColumns = `p.id, p.name, COALESCE(p.description, ''), p.sku, p.price, COALESCE(p.image_url, ''),
		p.stock, p.category_id, c.name, p.brand_id, COALESCE(b.name, ''), p.seller_id`

	productFrom = ` FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN brands b ON b.id = p.brand_id`

	sqlSelectProductDetail = `SELECT ` + productColumns + `, COALESCE(s.name, ''), COALESCE(s.contact_info, '')` +
		productFrom + `
		LEFT JOIN sellers s ON s.id = p.seller_id
		WHERE p.id = $1`

	sqlSelectProductFeatures = `SELECT feature_text FROM product_features WHERE product_id = $1 ORDER BY id`

	sqlSelectProductReviews = `
		SELECT id, user_name, rating, COALESCE(comment, ''), review_date
		FROM reviews WHERE product_id = $1
		ORDER BY review_date DESC, id DESC`

	sqlInsertProduct = `
		INSERT INTO products (name, description, sku, price, image_url, stock, category_id, brand_id, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	sqlUpdateProduct = `
		UPDATE products SET name = $1, description = $2, sku = $3, price = $4, image_url = $5,
		       stock = $6, category_id = $7, brand_id = $8, seller_id = $9
		WHERE id = $10`

	sqlDeleteProduct = `DELETE FROM products WHERE id = $1`

	sqlSelectCategories = `SELECT id, name, COALESCE(description, '') FROM categories ORDER BY name, id`

	sqlSelectBrands = `SELECT id, name, COALESCE(description, '') FROM brands ORDER BY name, id`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// productQuery is a filtered catalog query split into its WHERE clause and
// arguments, shared by the page query and the count query.
type productQuery struct {
	where string
	args  []any
}

func (q *productQuery) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func buildProductFilter(f models.ProductFilter) *productQuery {
	q := &productQuery{}
	var conds []string

	if term := strings.TrimSpace(f.Search); term != "" {
		p := q.arg("%" + likeEscaper.Replace(term) + "%")
		conds = append(conds, fmt.Sprintf("(p.name ILIKE %[1]s OR p.description ILIKE %[1]s OR p.sku ILIKE %[1]s)", p))
	}
	if f.CategoryID != nil {
		conds = append(conds, "p.category_id = "+q.arg(*f.CategoryID))
	}
	if f.BrandID != nil {
		conds = append(conds, "p.brand_id = "+q.arg(*f.BrandID))
	}
	if f.MinPrice != nil {
		conds = append(conds, "p.price >= "+q.arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "p.price <= "+q.arg(*f.MaxPrice))
	}

	if len(conds) > 0 {
		q.where = " WHERE " + strings.Join(conds, " AND ")
	}
	return q
}

// productOrderBy maps a sort key to an ORDER BY clause. Every ordering ends
// with the id so pages are stable.
func productOrderBy(sortBy string) string {
	switch strings.ToLower(sortBy) {
	case models.SortPriceAsc:
		return " ORDER BY p.price ASC, p.id ASC"
	case models.SortPriceDesc:
		return " ORDER BY p.price DESC, p.id ASC"
	case models.SortNameAsc:
		return " ORDER BY p.name ASC, p.id ASC"
	case models.SortNameDesc:
		return " ORDER BY p.name DESC, p.id ASC"
	default:
		return " ORDER BY p.id ASC"
	}
}

// buildProductQueries returns the page query and the count query for f,
// with their arguments.
func buildProductQueries(f models.ProductFilter) (listSQL string, listArgs []any, countSQL string, countArgs []any) {
	q := buildProductFilter(f)
	countSQL = `SELECT COUNT(*)` + productFrom + q.where
	countArgs = append([]any(nil), q.args...)

	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page := min(max(f.PageNumber, 1), MaxPageNumber)
	limit := q.arg(size)
	offset := q.arg((page - 1) * size)
	listSQL = `SELECT ` + productColumns + productFrom + q.where + productOrderBy(f.SortBy) +
		" LIMIT " + limit + " OFFSET " + offset
	return listSQL, q.args, countSQL, countArgs
}

// ListProducts returns one page of products matching f and the total number
// of matches.
func (s *PostgresStore) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	listSQL, listArgs, countSQL, countArgs := buildProductQueries(f)

	var total int
	if err := s.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return out, total, nil
}

func scanProduct(r rowScanner, extra ...any) (models.Product, error) {
	var (
		p        models.Product
		brandID  sql.NullInt64
		sellerID sql.NullInt64
	)
	dest := []any{&p.ID, &p.Name, &p.Description, &p.Sku, &p.Price, &p.ImageURL,
		&p.Stock, &p.CategoryID, &p.CategoryName, &brandID, &p.BrandName, &sellerID}
	if err := r.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan product: %w", err)
	}
	if brandID.Valid {
		p.BrandID = &brandID.Int64
	}
	if sellerID.Valid {
		p.SellerID = &sellerID.Int64
	}
	return p, nil
}

// GetProduct returns a product with its seller, features and reviews.
func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (models.ProductDetail, error) {
	var d models.ProductDetail
	p, err := scanProduct(s.DB.QueryRowContext(ctx, sqlSelectProductDetail, id), &d.SellerName, &d.SellerContact)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProductDetail{}, ErrProductNotFound
	}
	if err != nil {
		return models.ProductDetail{}, err
	}
	d.Product = p

	rows, err := s.DB.QueryContext(ctx, sqlSelectProductFeatures, id)
	if err != nil {
		return models.ProductDetail{}, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()
	d.Features = []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return models.ProductDetail{}, fmt.Errorf("scan feature: %w", err)
		}
		d.Features = append(d.Features, f)
	}
	if err := rows.Err(); err != nil {
		return models.ProductDetail{}, fmt.Errorf("iterate features: %w", err)
	}
	rows.Close()

	reviewRows, err := s.DB.QueryContext(ctx, sqlSelectProductReviews, id)
	if err != nil {
		return models.ProductDetail{}, fmt.Errorf("query reviews: %w", err)
	}
	defer reviewRows.Close()
	d.Reviews = []models.Review{}
	for reviewRows.Next() {
		var r models.Review
		if err := reviewRows.Scan(&r.ID, &r.UserName, &r.Rating, &r.Comment, &r.ReviewDate); err != nil {
			return models.ProductDetail{}, fmt.Errorf("scan review: %w", err)
		}
		d.Reviews = append(d.Reviews, r)
	}
	if err := reviewRows.Err(); err != nil {
		return models.ProductDetail{}, fmt.Errorf("iterate reviews: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, p models.Product) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx, sqlInsertProduct,
		p.Name, nullString(p.Description), p.Sku, p.Price, nullString(p.ImageURL),
		p.Stock, p.CategoryID, p.BrandID, p.SellerID,
	).Scan(&id)
	if isPQCode(err, pqForeignKeyViolation) {
		return 0, ErrInvalidReference
	}
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p models.Product) error {
	res, err := s.DB.ExecContext(ctx, sqlUpdateProduct,
		p.Name, nullString(p.Description), p.Sku, p.Price, nullString(p.ImageURL),
		p.Stock, p.CategoryID, p.BrandID, p.SellerID, p.ID)
	if isPQCode(err, pqForeignKeyViolation) {
		return ErrInvalidReference
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product. Cart lines referencing it go with it;
// products that appear on orders cannot be deleted.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, sqlDeleteProduct, id)
	if isPQCode(err, pqForeignKeyViolation) {
		return ErrProductInUse
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, sqlSelectCategories)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	rows, err := s.DB.QueryContext(ctx, sqlSelectBrands)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	out := []models.Brand{}
	for rows.Next() {
		var b models.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Description); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
