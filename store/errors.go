package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInUse      = errors.New("product is referenced by existing orders")
	ErrInvalidReference  = errors.New("referenced category or brand does not exist")
	ErrAddressNotFound   = errors.New("address not found")
	ErrAddressInUse      = errors.New("address is referenced by existing orders")
	ErrOrderNotFound     = errors.New("order not found")
	ErrCartEmpty         = errors.New("cart is empty or missing")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUser     = errors.New("username or email already registered")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
