package service

import (
	"context"
	"errors"
	"strings"

	models "storefront/model"
)

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	if userID == "" {
		return nil, classify(ErrUnauthenticated, errors.New("user id required"))
	}
	out, err := s.store.ListAddresses(ctx, userID)
	return out, mapStoreErr(err)
}

// CreateAddress adds an address to the caller's address book. Marking it as
// a default moves that default away from the caller's other addresses.
func (s *Service) CreateAddress(ctx context.Context, userID string, in AddressInput) (models.Address, error) {
	if userID == "" {
		return models.Address{}, classify(ErrUnauthenticated, errors.New("user id required"))
	}
	if err := validateStruct(in); err != nil {
		return models.Address{}, err
	}
	a, err := s.store.CreateAddress(ctx, models.Address{
		UserID:            userID,
		Street:            strings.TrimSpace(in.Street),
		City:              strings.TrimSpace(in.City),
		State:             strings.TrimSpace(in.State),
		PostalCode:        strings.TrimSpace(in.PostalCode),
		Country:           strings.TrimSpace(in.Country),
		IsDefaultShipping: in.IsDefaultShipping,
		IsDefaultBilling:  in.IsDefaultBilling,
	})
	return a, mapStoreErr(err)
}

func (s *Service) DeleteAddress(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return classify(ErrUnauthenticated, errors.New("user id required"))
	}
	return mapStoreErr(s.store.DeleteAddress(ctx, userID, id))
}
