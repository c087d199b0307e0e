package store

import (
	"context"
	"database/sql"
	"fmt"

	models "storefront/model"
)

const (
	addressColumns = `id, user_id, street, city, state, postal_code, country, is_default_shipping, is_default_billing`

	sqlSelectAddresses = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY id`

	sqlClearDefaultShipping = `UPDATE addresses SET is_default_shipping = FALSE WHERE user_id = $1 AND is_default_shipping`

	sqlClearDefaultBilling = `UPDATE addresses SET is_default_billing = FALSE WHERE user_id = $1 AND is_default_billing`

	sqlInsertAddress = `
		INSERT INTO addresses (user_id, street, city, state, postal_code, country, is_default_shipping, is_default_billing)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	sqlDeleteAddress = `DELETE FROM addresses WHERE id = $1 AND user_id = $2`
)

func (s *PostgresStore) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	rows, err := s.DB.QueryContext(ctx, sqlSelectAddresses, userID)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()

	out := []models.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return out, nil
}

// CreateAddress stores a new address. A default flag set on the new address
// is cleared on the user's other addresses in the same transaction.
func (s *PostgresStore) CreateAddress(ctx context.Context, a models.Address) (models.Address, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if a.IsDefaultShipping {
			if _, err := tx.ExecContext(ctx, sqlClearDefaultShipping, a.UserID); err != nil {
				return fmt.Errorf("clear default shipping: %w", err)
			}
		}
		if a.IsDefaultBilling {
			if _, err := tx.ExecContext(ctx, sqlClearDefaultBilling, a.UserID); err != nil {
				return fmt.Errorf("clear default billing: %w", err)
			}
		}
		err := tx.QueryRowContext(ctx, sqlInsertAddress,
			a.UserID, a.Street, a.City, a.State, a.PostalCode, a.Country,
			a.IsDefaultShipping, a.IsDefaultBilling,
		).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Address{}, err
	}
	return a, nil
}

func (s *PostgresStore) DeleteAddress(ctx context.Context, userID string, id int64) error {
	res, err := s.DB.ExecContext(ctx, sqlDeleteAddress, id, userID)
	if isPQCode(err, pqForeignKeyViolation) {
		return ErrAddressInUse
	}
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func scanAddress(r rowScanner) (models.Address, error) {
	var a models.Address
	if err := r.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.PostalCode,
		&a.Country, &a.IsDefaultShipping, &a.IsDefaultBilling); err != nil {
		return a, fmt.Errorf("scan address: %w", err)
	}
	return a, nil
}
