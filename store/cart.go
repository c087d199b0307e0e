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
	sqlEnsureCart = `INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`

	sqlSelectCart = `SELECT id, version, created_at, updated_at FROM carts WHERE user_id = $1`

	sqlLockCart = `SELECT id, version, created_at, updated_at FROM carts WHERE user_id = $1 FOR UPDATE`

	sqlSelectCartItems = `
		SELECT ci.id, ci.product_id, ci.quantity, ci.price_at_addition, ci.added_at,
		       p.id, p.name, p.image_url, p.price
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	sqlDeleteCartItem = `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`

	sqlUpdateCartItemQuantity = `UPDATE cart_items SET quantity = $1, added_at = NOW() WHERE id = $2 AND cart_id = $3`

	sqlSelectProductPrice = `SELECT price FROM products WHERE id = $1`

	sqlInsertCartItem = `INSERT INTO cart_items (cart_id, product_id, quantity, price_at_addition) VALUES ($1, $2, $3, $4)`

	// Every committed cart write bumps version; caches compare on it.
	sqlTouchCart = `UPDATE carts SET updated_at = NOW(), version = version + 1 WHERE id = $1`
)

// GetCart returns the user's cart, creating an empty one on first access.
func (s *PostgresStore) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	if _, err := s.DB.ExecContext(ctx, sqlEnsureCart, userID); err != nil {
		return models.Cart{}, fmt.Errorf("ensure cart: %w", err)
	}
	return loadCart(ctx, s.DB, userID, sqlSelectCart)
}

// SyncCart reconciles the stored cart with a client snapshot in one
// transaction and returns the reloaded cart. New lines capture the product's
// current price; an unknown product aborts the whole sync.
func (s *PostgresStore) SyncCart(ctx context.Context, userID string, lines []models.CartLine) (models.Cart, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, sqlEnsureCart, userID); err != nil {
			return fmt.Errorf("ensure cart: %w", err)
		}
		cart, err := loadCart(ctx, tx, userID, sqlLockCart)
		if err != nil {
			return err
		}

		plan := planCartSync(cart.Items, lines)

		for _, id := range plan.Remove {
			if _, err := tx.ExecContext(ctx, sqlDeleteCartItem, id, cart.ID); err != nil {
				return fmt.Errorf("delete cart item %d: %w", id, err)
			}
		}

		for _, u := range plan.Update {
			if _, err := tx.ExecContext(ctx, sqlUpdateCartItemQuantity, u.Quantity, u.ID, cart.ID); err != nil {
				return fmt.Errorf("update cart item %d: %w", u.ID, err)
			}
		}

		for _, a := range plan.Add {
			var price decimal.Decimal
			err := tx.QueryRowContext(ctx, sqlSelectProductPrice, a.ProductID).Scan(&price)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: id %d", ErrProductNotFound, a.ProductID)
			}
			if err != nil {
				return fmt.Errorf("read price of product %d: %w", a.ProductID, err)
			}
			if _, err := tx.ExecContext(ctx, sqlInsertCartItem, cart.ID, a.ProductID, a.Quantity, price); err != nil {
				return fmt.Errorf("insert cart item: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, sqlTouchCart, cart.ID); err != nil {
			return fmt.Errorf("touch cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Cart{}, err
	}
	return loadCart(ctx, s.DB, userID, sqlSelectCart)
}

// loadCart reads the cart header with cartQuery and then its lines.
func loadCart(ctx context.Context, q querier, userID, cartQuery string) (models.Cart, error) {
	cart := models.Cart{UserID: userID}
	err := q.QueryRowContext(ctx, cartQuery, userID).Scan(&cart.ID, &cart.Version, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return models.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	items, err := loadCartItems(ctx, q, cart.ID)
	if err != nil {
		return models.Cart{}, err
	}
	cart.Items = items
	return cart, nil
}

func loadCartItems(ctx context.Context, q querier, cartID int64) ([]models.CartItem, error) {
	rows, err := q.QueryContext(ctx, sqlSelectCartItems, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var (
			it        models.CartItem
			productID sql.NullInt64
			name      sql.NullString
			imageURL  sql.NullString
			price     decimal.NullDecimal
		)
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.PriceAtAddition, &it.AddedAt,
			&productID, &name, &imageURL, &price); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		it.CartID = cartID
		if productID.Valid {
			it.Product = &models.CartProduct{
				ID:       productID.Int64,
				Name:     name.String,
				ImageURL: imageURL.String,
				Price:    price.Decimal,
			}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}
