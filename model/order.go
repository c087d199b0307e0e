package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Only Processing is assigned
// today; no transitions between states are defined.
type OrderStatus int

const (
	OrderStatusPending OrderStatus = iota
	OrderStatusProcessing
	OrderStatusShipped
	OrderStatusDelivered
	OrderStatusCancelled
)

var orderStatusNames = [...]string{"Pending", "Processing", "Shipped", "Delivered", "Cancelled"}

func (s OrderStatus) String() string {
	if s < 0 || int(s) >= len(orderStatusNames) {
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
	return orderStatusNames[s]
}

// ParseOrderStatus accepts the status name in any letter case.
func ParseOrderStatus(name string) (OrderStatus, error) {
	for i, n := range orderStatusNames {
		if strings.EqualFold(n, name) {
			return OrderStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown order status %q", name)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the status by name.
func (s OrderStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *OrderStatus) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", src)
	}
	parsed, err := ParseOrderStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Order struct {
	ID                int64
	UserID            string
	OrderDate         time.Time
	TotalAmount       decimal.Decimal
	Status            OrderStatus
	PaymentMethod     *string
	PaymentStatus     *string
	ShippingAddressID int64
	BillingAddressID  int64
	ShippingAddress   *Address
	BillingAddress    *Address
	Items             []OrderItem
}

// OrderItem is an immutable copy of a cart line taken at checkout.
type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	ProductName     string
	ProductImageURL string
	Quantity        int
	PriceAtOrder    decimal.Decimal
}

// CheckoutRequest carries the caller's choices for converting a cart into an order.
type CheckoutRequest struct {
	ShippingAddressID int64
	BillingAddressID  int64
	PaymentMethod     *string
}
