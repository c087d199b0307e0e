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
	sqlInsertUser = `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, roles)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	sqlSelectUserByUsername = `
		SELECT id, username, email, password_hash, COALESCE(first_name, ''), COALESCE(last_name, ''),
		       roles, created_at, updated_at
		FROM users WHERE username = $1`
)

func (s *PostgresStore) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.DB.ExecContext(ctx, sqlInsertUser,
		u.ID, u.Username, u.Email, u.PasswordHash,
		nullString(u.FirstName), nullString(u.LastName), pq.Array(u.Roles))
	if isPQCode(err, pqUniqueViolation) {
		return ErrDuplicateUser
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, sqlSelectUserByUsername, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		pq.Array(&u.Roles), &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
