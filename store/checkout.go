package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	models "storefront/model"

	"github.com/shopspring/decimal"
)

const (
	sqlLockCartID = `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`

	// Lines are read in product order so concurrent checkouts lock product
	// rows in the same order.
	sqlSelectCheckoutLines = `
		SELECT ci.product_id, ci.quantity, ci.price_at_addition, p.id
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.product_id, ci.id`

	sqlSelectOwnedAddress = `SELECT id FROM addresses WHERE id = $1 AND user_id = $2`

	sqlInsertOrder = `
		INSERT INTO orders (user_id, total_amount, status, payment_method, shipping_address_id, billing_address_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	sqlInsertOrderItem = `INSERT INTO order_items (order_id, product_id, quantity, price_at_order) VALUES ($1, $2, $3, $4)`

	sqlClearCart = `DELETE FROM cart_items WHERE cart_id = $1`
)

type checkoutLine struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// Checkout converts the user's cart into an order in a single transaction:
// the cart row is locked, both addresses must belong to the user, stock is
// taken for every line, the order and its lines are written at the prices
// captured in the cart, and the cart is emptied. Any failure rolls back
// everything.
func (s *PostgresStore) Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (models.Order, error) {
	var orderID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var cartID int64
		err := tx.QueryRowContext(ctx, sqlLockCartID, userID).Scan(&cartID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCartEmpty
		}
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}

		lines, err := loadCheckoutLines(ctx, tx, cartID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrCartEmpty
		}

		for _, addrID := range []int64{req.ShippingAddressID, req.BillingAddressID} {
			if err := checkAddressOwner(ctx, tx, userID, addrID); err != nil {
				return err
			}
		}

		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}

		for _, l := range lines {
			if err := decrementStock(ctx, tx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}

		err = tx.QueryRowContext(ctx, sqlInsertOrder,
			userID, total, models.OrderStatusProcessing, req.PaymentMethod,
			req.ShippingAddressID, req.BillingAddressID,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, sqlInsertOrderItem)
		if err != nil {
			return fmt.Errorf("prepare order items: %w", err)
		}
		defer stmt.Close()
		for _, l := range lines {
			if _, err := stmt.ExecContext(ctx, orderID, l.ProductID, l.Quantity, l.Price); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, sqlClearCart, cartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if _, err := tx.ExecContext(ctx, sqlTouchCart, cartID); err != nil {
			return fmt.Errorf("touch cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return s.GetOrder(ctx, userID, orderID)
}

// loadCheckoutLines returns the cart lines whose product still exists.
func loadCheckoutLines(ctx context.Context, tx *sql.Tx, cartID int64) ([]checkoutLine, error) {
	rows, err := tx.QueryContext(ctx, sqlSelectCheckoutLines, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []checkoutLine
	for rows.Next() {
		var (
			l        checkoutLine
			resolved sql.NullInt64
		)
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.Price, &resolved); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		if !resolved.Valid {
			continue
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	return lines, nil
}

func checkAddressOwner(ctx context.Context, tx *sql.Tx, userID string, addressID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, sqlSelectOwnedAddress, addressID, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %d", ErrAddressNotFound, addressID)
	}
	if err != nil {
		return fmt.Errorf("check address %d: %w", addressID, err)
	}
	return nil
}
