package ports

import (
	"context"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// AdoptInput identifies the animal and the authenticated adopter.
type AdoptInput struct {
	AnimalID int64
	Actor    domain.Identity
}

// ListAvailableInput filters the catalog. Empty Species means all species.
type ListAvailableInput struct {
	Species string
}

// AdoptionService is the adoption state machine.
type AdoptionService interface {
	Adopt(ctx context.Context, input AdoptInput) (*domain.Adoption, error)
	ListAvailable(ctx context.Context, input ListAvailableInput) ([]domain.Animal, error)
	GetAnimal(ctx context.Context, id int64) (*domain.Animal, error)
}
