package domain

import (
	"fmt"
	"strings"

	"github.com/paulvitic/hotel-booking/ddd"
)

type UserRole string

const (
	Guest = UserRole("guest")
	Admin = UserRole("admin")
)

func (r UserRole) String() string {
	return string(r)
}

// ParseUserRole defaults an empty role to Guest.
func ParseUserRole(value string) (UserRole, error) {
	switch UserRole(strings.ToLower(strings.TrimSpace(value))) {
	case "", Guest:
		return Guest, nil
	case Admin:
		return Admin, nil
	default:
		return "", fmt.Errorf("%w: unknown user role %q", ErrInvalidInput, value)
	}
}

type User struct {
	ID   string   `json:"id" db:"id" yaml:"id"`
	Name string   `json:"name" db:"name" yaml:"name"`
	Role UserRole `json:"role" db:"role" yaml:"role"`
}

func NewUser(name string, role UserRole) User {
	return User{
		ID:   ddd.GenerateID(),
		Name: name,
		Role: role,
	}
}

func (u User) IsAdmin() bool {
	return u.Role == Admin
}
