package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	sqlUpdateStock = `UPDATE products SET stock = $1 WHERE id = $2`

	sqlDecrementStock = `UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`
)

// UpdateStock sets the absolute stock for a product (admin operation).
func (s *PostgresStore) UpdateStock(ctx context.Context, productID int64, newStock int) error {
	if newStock < 0 {
		return fmt.Errorf("stock cannot be negative: %d", newStock)
	}
	res, err := s.DB.ExecContext(ctx, sqlUpdateStock, newStock, productID)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrProductNotFound
	}
	return nil
}

// decrementStock takes qty units of a product inside tx. The guard in the
// WHERE clause makes the check and the write a single statement, so two
// checkouts cannot both take the last unit.
func decrementStock(ctx context.Context, tx *sql.Tx, productID int64, qty int) error {
	res, err := tx.ExecContext(ctx, sqlDecrementStock, qty, productID)
	if err != nil {
		return fmt.Errorf("decrement stock of product %d: %w", productID, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock of product %d: %w", productID, err)
	}
	if ra == 0 {
		return fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
	}
	return nil
}
