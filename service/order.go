package service

import (
	"context"
	"errors"
	"strings"

	models "storefront/model"
)

// Checkout turns the caller's cart into an order. The order total and every
// order line use the prices captured when the items entered the cart.
func (s *Service) Checkout(ctx context.Context, userID string, req CreateOrderRequest) (OrderDTO, error) {
	if userID == "" {
		return OrderDTO{}, classify(ErrUnauthenticated, errors.New("user id required"))
	}
	if err := validateStruct(req); err != nil {
		return OrderDTO{}, err
	}

	pm := req.PaymentMethod
	if pm != nil {
		trimmed := strings.TrimSpace(*pm)
		pm = &trimmed
		if trimmed == "" {
			pm = nil
		}
	}

	order, err := s.store.Checkout(ctx, userID, models.CheckoutRequest{
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		PaymentMethod:     pm,
	})
	if err != nil {
		return OrderDTO{}, mapStoreErr(err)
	}
	s.refreshCart(ctx, userID)
	return toOrderDTO(order), nil
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]OrderDTO, error) {
	if userID == "" {
		return nil, classify(ErrUnauthenticated, errors.New("user id required"))
	}
	orders, err := s.store.ListOrders(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	return out, nil
}

func (s *Service) GetOrder(ctx context.Context, userID string, orderID int64) (OrderDTO, error) {
	if userID == "" {
		return OrderDTO{}, classify(ErrUnauthenticated, errors.New("user id required"))
	}
	if orderID <= 0 {
		return OrderDTO{}, classify(ErrNotFound, errors.New("order not found"))
	}
	o, err := s.store.GetOrder(ctx, userID, orderID)
	if err != nil {
		return OrderDTO{}, mapStoreErr(err)
	}
	return toOrderDTO(o), nil
}
