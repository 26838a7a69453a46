// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/avolkov/tapedeck/internal/model"
)

// UserRepository provides account storage.
type UserRepository interface {
	// Create inserts a new user and returns its id.
	// Returns errs.ErrAlreadyExists if the username is taken.
	Create(ctx context.Context, username, pwdHash string) (int64, error)
	// GetActiveByUsername loads an active user by username.
	// Deactivated accounts are treated as absent.
	GetActiveByUsername(ctx context.Context, username string) (*model.User, error)
	// UpdateUsername changes the username; reports whether a row changed.
	UpdateUsername(ctx context.Context, id int64, username string) (bool, error)
	// UpdatePicture stores the picture file reference for a user.
	UpdatePicture(ctx context.Context, id int64, picture string) (bool, error)
	// Deactivate soft-deletes the account.
	Deactivate(ctx context.Context, id int64) (bool, error)
}
