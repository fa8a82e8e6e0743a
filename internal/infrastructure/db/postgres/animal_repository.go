package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

const animalColumns = `id, name, species, age, status, created_at, updated_at`

// AnimalRepository implements ports.AnimalRepository on PostgreSQL.
type AnimalRepository struct {
	pool *pgxpool.Pool
}

func NewAnimalRepository(pool *pgxpool.Pool) *AnimalRepository {
	return &AnimalRepository{pool: pool}
}

// ListAvailable filters on species only when one is given. The empty
// string is passed through as a parameter so the statement stays fixed.
func (r *AnimalRepository) ListAvailable(ctx context.Context, species string) ([]domain.Animal, error) {
	return r.list(ctx, `
		SELECT `+animalColumns+` FROM animals
		WHERE status = $1 AND ($2 = '' OR species = $2)
		ORDER BY name, id`,
		string(domain.StatusAvailable), species,
	)
}

func (r *AnimalRepository) ListAll(ctx context.Context) ([]domain.Animal, error) {
	return r.list(ctx, `SELECT `+animalColumns+` FROM animals ORDER BY status, name, id`)
}

func (r *AnimalRepository) FindByID(ctx context.Context, id int64) (*domain.Animal, error) {
	a, err := scanAnimal(r.pool.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnimalNotFound
		}
		return nil, fmt.Errorf("find animal: %w", err)
	}
	return a, nil
}

func (r *AnimalRepository) Create(ctx context.Context, a *domain.Animal) (*domain.Animal, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO animals (name, species, age, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+animalColumns,
		a.Name, a.Species, a.Age, string(a.Status), a.CreatedAt, a.UpdatedAt,
	)
	created, err := scanAnimal(row)
	if err != nil {
		return nil, fmt.Errorf("insert animal: %w", err)
	}
	return created, nil
}

func (r *AnimalRepository) Update(ctx context.Context, a *domain.Animal) (*domain.Animal, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE animals SET name = $2, species = $3, age = $4, updated_at = $5
		WHERE id = $1
		RETURNING `+animalColumns,
		a.ID, a.Name, a.Species, a.Age, a.UpdatedAt,
	)
	updated, err := scanAnimal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnimalNotFound
		}
		return nil, fmt.Errorf("update animal: %w", err)
	}
	return updated, nil
}

func (r *AnimalRepository) list(ctx context.Context, query string, args ...any) ([]domain.Animal, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	defer rows.Close()

	animals := []domain.Animal{}
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		animals = append(animals, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	return animals, nil
}

func scanAnimal(row pgx.Row) (*domain.Animal, error) {
	var (
		a      domain.Animal
		status string
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Species, &a.Age, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = domain.AnimalStatus(status)
	return &a, nil
}
