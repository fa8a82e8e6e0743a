package ports

import (
	"context"
	"time"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// AnimalRepository defines persistence operations for animals.
type AnimalRepository interface {
	// ListAvailable returns available animals ordered by name. An empty
	// species matches every species.
	ListAvailable(ctx context.Context, species string) ([]domain.Animal, error)
	// ListAll returns every animal ordered by status, then name.
	ListAll(ctx context.Context) ([]domain.Animal, error)
	FindByID(ctx context.Context, id int64) (*domain.Animal, error)
	Create(ctx context.Context, animal *domain.Animal) (*domain.Animal, error)
	// Update writes name, species and age. Status is never changed here.
	Update(ctx context.Context, animal *domain.Animal) (*domain.Animal, error)
}

// AdoptionRepository owns the available -> adopted transition.
type AdoptionRepository interface {
	// Adopt flips the animal to adopted and appends a ledger row in a single
	// transaction. Returns domain.ErrAnimalNotFound or domain.ErrAlreadyAdopted
	// without writing anything when the guard fails.
	Adopt(ctx context.Context, animalID, adoptedBy int64, at time.Time) (*domain.Adoption, error)
	// List returns the ledger joined with animal and adopter, newest first.
	List(ctx context.Context) ([]domain.AdoptionEntry, error)
}
