// Package account defines the dashboard user accounts and the repository
// contract used to persist them.
package account

import (
	"context"
	"errors"
	"time"
)

// RoleCustomer is assigned to every self-registered account.
const RoleCustomer = "customer"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAccountExists      = errors.New("account already exists")
	ErrValidation         = errors.New("validation failed")
)

// Account is a dashboard user. Exactly one of Email and Phone is set by
// registration; either can be used as the login identifier.
type Account struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Repository persists accounts. Lookups return nil, nil when nothing matches.
type Repository interface {
	FindByLogin(ctx context.Context, login string) (*Account, error)
	ExistsByLogin(ctx context.Context, email, phone *string) (bool, error)
	Store(ctx context.Context, a *Account) error
}
