package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"storefront/store"
)

// Error classes. Every error returned by the service either matches one of
// these with errors.Is or is an unexpected internal failure.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
)

// classError tags err with a class while keeping err's message.
type classError struct {
	class error
	err   error
}

func (e *classError) Error() string   { return e.err.Error() }
func (e *classError) Unwrap() []error { return []error{e.class, e.err} }

func classify(class, err error) error {
	return &classError{class: class, err: err}
}

func invalidOp(format string, args ...any) error {
	return classify(ErrInvalidOperation, fmt.Errorf(format, args...))
}

// ValidationError lists offending request fields by their JSON names.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func fieldError(field, reason string) error {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// mapStoreErr assigns a class to the store's sentinel errors. Anything else
// is returned unchanged and ends up as an internal error.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrAddressNotFound),
		errors.Is(err, store.ErrOrderNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return classify(ErrNotFound, err)
	case errors.Is(err, store.ErrCartEmpty),
		errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrProductInUse),
		errors.Is(err, store.ErrAddressInUse),
		errors.Is(err, store.ErrInvalidReference):
		return classify(ErrInvalidOperation, err)
	case errors.Is(err, store.ErrDuplicateUser):
		return classify(ErrConflict, err)
	default:
		return err
	}
}
