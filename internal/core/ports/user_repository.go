package ports

import (
	"context"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Lookups by username are exact-match.
type UserRepository interface {
	// Create inserts a user and returns it with its assigned ID.
	// Returns domain.ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Update writes username, names and admin flag. The password hash is untouched.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
