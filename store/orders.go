package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	models "storefront/model"

	"github.com/lib/pq"
)

const (
	orderColumns = `id, user_id, order_date, total_amount, status, payment_method, payment_status, shipping_address_id, billing_address_id`

	sqlSelectOrders = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY order_date DESC, id DESC`

	sqlSelectOrder = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`

	sqlSelectOrderItems = `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''), COALESCE(p.image_url, ''), oi.quantity, oi.price_at_order
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id`

	sqlSelectAddressesByID = `SELECT ` + addressColumns + ` FROM addresses WHERE id = ANY($1)`
)

// ListOrders returns the user's orders, newest first, with lines and addresses.
func (s *PostgresStore) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, sqlSelectOrders, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	// release the connection before the follow-up queries
	rows.Close()

	if err := s.attachOrderDetails(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns one of the user's orders. Orders of other users are
// reported as ErrOrderNotFound.
func (s *PostgresStore) GetOrder(ctx context.Context, userID string, orderID int64) (models.Order, error) {
	o, err := scanOrder(s.DB.QueryRowContext(ctx, sqlSelectOrder, orderID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	orders := []models.Order{o}
	if err := s.attachOrderDetails(ctx, orders); err != nil {
		return models.Order{}, err
	}
	return orders[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(r rowScanner) (models.Order, error) {
	var (
		o             models.Order
		paymentMethod sql.NullString
		paymentStatus sql.NullString
	)
	err := r.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &o.Status,
		&paymentMethod, &paymentStatus, &o.ShippingAddressID, &o.BillingAddressID)
	if errors.Is(err, sql.ErrNoRows) {
		return o, err
	}
	if err != nil {
		return o, fmt.Errorf("scan order: %w", err)
	}
	o.PaymentMethod = stringPtr(paymentMethod)
	o.PaymentStatus = stringPtr(paymentStatus)
	return o, nil
}

// attachOrderDetails fills Items and both addresses of every order with one
// query each.
func (s *PostgresStore) attachOrderDetails(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]int64, 0, len(orders))
	index := make(map[int64]int, len(orders))
	addrSet := make(map[int64]struct{})
	for i, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		index[o.ID] = i
		orders[i].Items = []models.OrderItem{}
		addrSet[o.ShippingAddressID] = struct{}{}
		addrSet[o.BillingAddressID] = struct{}{}
	}

	rows, err := s.DB.QueryContext(ctx, sqlSelectOrderItems, pq.Array(orderIDs))
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductImageURL, &it.Quantity, &it.PriceAtOrder); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order items: %w", err)
	}
	rows.Close()

	addrIDs := make([]int64, 0, len(addrSet))
	for _, o := range orders {
		for _, id := range []int64{o.ShippingAddressID, o.BillingAddressID} {
			if _, ok := addrSet[id]; ok {
				addrIDs = append(addrIDs, id)
				delete(addrSet, id)
			}
		}
	}

	addrRows, err := s.DB.QueryContext(ctx, sqlSelectAddressesByID, pq.Array(addrIDs))
	if err != nil {
		return fmt.Errorf("query order addresses: %w", err)
	}
	defer addrRows.Close()
	addrs := make(map[int64]models.Address, len(addrIDs))
	for addrRows.Next() {
		a, err := scanAddress(addrRows)
		if err != nil {
			return err
		}
		addrs[a.ID] = a
	}
	if err := addrRows.Err(); err != nil {
		return fmt.Errorf("iterate order addresses: %w", err)
	}

	for i := range orders {
		if a, ok := addrs[orders[i].ShippingAddressID]; ok {
			orders[i].ShippingAddress = &a
		}
		if a, ok := addrs[orders[i].BillingAddressID]; ok {
			orders[i].BillingAddress = &a
		}
	}
	return nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
