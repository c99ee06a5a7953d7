package domain

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by lookups that matched no user.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned by Create when the email is already taken.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository is the credential store contract. The auth service consumes
// it; implementations own persistence, indexing and uniqueness.
type UserRepository interface {
	// Create persists a new user. Returns ErrDuplicateEmail when the
	// email is already registered.
	Create(ctx context.Context, user *User) error

	// FindByEmail returns the user with the given (lowercased) email, or
	// ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the user with the given ID, or ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// SetActive flips the active flag on an existing user.
	SetActive(ctx context.Context, id string, active bool) error

	// List returns all users, newest first.
	List(ctx context.Context) ([]*User, error)
}
