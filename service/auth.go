package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"storefront/auth"
	models "storefront/model"
	"storefront/store"

	"github.com/google/uuid"
)

const AdminUsername = "admin"

var errBadCredentials = errors.New("invalid username or password")

// Register creates a user account with the User role.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (UserDTO, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		return UserDTO{}, err
	}
	if strings.EqualFold(req.Username, AdminUsername) {
		return UserDTO{}, &ValidationError{Fields: map[string]string{"username": "is reserved"}}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return UserDTO{}, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Roles:        []string{models.RoleUser},
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return UserDTO{}, mapStoreErr(err)
	}
	return toUserDTO(u), nil
}

// Login checks the credentials and issues an access token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return AuthResponse{}, err
	}

	u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, store.ErrUserNotFound) {
		return AuthResponse{}, classify(ErrUnauthenticated, errBadCredentials)
	}
	if err != nil {
		return AuthResponse{}, mapStoreErr(err)
	}

	if err := s.hasher.Compare(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return AuthResponse{}, classify(ErrUnauthenticated, errBadCredentials)
		}
		return AuthResponse{}, fmt.Errorf("compare password: %w", err)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Token: token, User: toUserDTO(u)}, nil
}

// EnsureAdmin makes sure an "admin" account with the Admin role exists.
// An existing admin keeps its password. An "admin" account without the
// Admin role is never promoted: its password was not set by the operator.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	u, err := s.store.GetUserByUsername(ctx, AdminUsername)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		err = s.store.CreateUser(ctx, models.User{
			ID:           uuid.NewString(),
			Username:     AdminUsername,
			Email:        email,
			PasswordHash: hash,
			Roles:        []string{models.RoleUser, models.RoleAdmin},
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Printf("created %s user", AdminUsername)
		return nil
	case err != nil:
		return fmt.Errorf("look up admin: %w", err)
	case !u.HasRole(models.RoleAdmin):
		return fmt.Errorf("user %q exists without the %s role; refusing to promote it", AdminUsername, models.RoleAdmin)
	default:
		return nil
	}
}
