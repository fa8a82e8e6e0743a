package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// AdoptionRepository implements ports.AdoptionRepository on PostgreSQL.
type AdoptionRepository struct {
	pool *pgxpool.Pool
}

func NewAdoptionRepository(pool *pgxpool.Pool) *AdoptionRepository {
	return &AdoptionRepository{pool: pool}
}

// Adopt locks the animal row for the duration of the transaction, so
// concurrent attempts on the same animal queue behind the first and observe
// its committed status.
func (r *AdoptionRepository) Adopt(ctx context.Context, animalID, adoptedBy int64, at time.Time) (*domain.Adoption, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin adoption: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM animals WHERE id = $1 FOR UPDATE`, animalID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnimalNotFound
		}
		return nil, fmt.Errorf("lock animal: %w", err)
	}
	if !domain.AnimalStatus(status).CanTransitionTo(domain.StatusAdopted) {
		return nil, domain.ErrAlreadyAdopted
	}

	if _, err := tx.Exec(ctx,
		`UPDATE animals SET status = $2, updated_at = $3 WHERE id = $1`,
		animalID, string(domain.StatusAdopted), at,
	); err != nil {
		return nil, fmt.Errorf("update animal status: %w", err)
	}

	a := domain.Adoption{AnimalID: animalID, AdoptedBy: adoptedBy}
	err = tx.QueryRow(ctx, `
		INSERT INTO adoptions (animal_id, adopted_by, adopted_at)
		VALUES ($1, $2, $3)
		RETURNING id, adopted_at`,
		animalID, adoptedBy, at,
	).Scan(&a.ID, &a.AdoptedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyAdopted
		}
		return nil, fmt.Errorf("insert adoption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit adoption: %w", err)
	}
	return &a, nil
}

func (r *AdoptionRepository) List(ctx context.Context) ([]domain.AdoptionEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ad.id, ad.animal_id, COALESCE(ad.adopted_by, 0), ad.adopted_at,
		       an.name, an.species, COALESCE(u.username, '')
		FROM adoptions ad
		JOIN animals an ON an.id = ad.animal_id
		LEFT JOIN users u ON u.id = ad.adopted_by
		ORDER BY ad.adopted_at DESC, ad.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list adoptions: %w", err)
	}
	defer rows.Close()

	entries := []domain.AdoptionEntry{}
	for rows.Next() {
		var e domain.AdoptionEntry
		if err := rows.Scan(&e.ID, &e.AnimalID, &e.AdoptedBy, &e.AdoptedAt, &e.AnimalName, &e.Species, &e.AdopterUsername); err != nil {
			return nil, fmt.Errorf("scan adoption: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list adoptions: %w", err)
	}
	return entries, nil
}
