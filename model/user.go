package models

import (
	"slices"
	"time"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
