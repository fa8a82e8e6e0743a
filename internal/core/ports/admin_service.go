package ports

import (
	"context"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// UpdateUserInput carries an administrator's edit of a user account.
type UpdateUserInput struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	IsAdmin   bool
}

// CreateAnimalInput carries a new intake. Age is optional.
type CreateAnimalInput struct {
	Name    string
	Species string
	Age     *int
}

// UpdateAnimalInput edits descriptive fields of an animal.
type UpdateAnimalInput struct {
	ID      int64
	Name    string
	Species string
	Age     *int
}

// AdminService covers user and catalog management for administrators.
type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Identity, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, actor domain.Identity, id int64) error

	ListAnimals(ctx context.Context) ([]domain.Animal, error)
	CreateAnimal(ctx context.Context, actor domain.Identity, input CreateAnimalInput) (*domain.Animal, error)
	UpdateAnimal(ctx context.Context, actor domain.Identity, input UpdateAnimalInput) (*domain.Animal, error)

	ListAdoptions(ctx context.Context) ([]domain.AdoptionEntry, error)
	ListAudit(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
