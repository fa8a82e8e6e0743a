package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/petshelter/adoption-system/internal/core/domain"
	"github.com/petshelter/adoption-system/internal/core/ports"
)

type adoptionService struct {
	animals   ports.AnimalRepository
	adoptions ports.AdoptionRepository
	audit     ports.AuditRecorder
	clock     clockwork.Clock
	log       zerolog.Logger
}

// NewAdoptionService returns an AdoptionService implementation.
func NewAdoptionService(
	animals ports.AnimalRepository,
	adoptions ports.AdoptionRepository,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.AdoptionService {
	if audit == nil {
		audit = ports.NopAudit{}
	}
	return &adoptionService{
		animals:   animals,
		adoptions: adoptions,
		audit:     audit,
		clock:     clockwork.NewRealClock(),
		log:       log,
	}
}

// Adopt moves an available animal to adopted and records the ledger row.
// The repository serializes concurrent attempts so exactly one wins.
func (s *adoptionService) Adopt(ctx context.Context, in ports.AdoptInput) (*domain.Adoption, error) {
	now := s.clock.Now().UTC()

	adoption, err := s.adoptions.Adopt(ctx, in.AnimalID, in.Actor.UserID, now)
	switch {
	case errors.Is(err, domain.ErrAnimalNotFound), errors.Is(err, domain.ErrAlreadyAdopted):
		s.log.Info().Err(err).Int64("animal_id", in.AnimalID).Int64("user_id", in.Actor.UserID).Msg("adoption rejected")
		return nil, err
	case err != nil:
		s.log.Error().Err(err).Int64("animal_id", in.AnimalID).Msg("adoption failed")
		return nil, storageErr("adopt", err)
	}

	s.audit.Record(ctx, domain.AuditEvent{
		Kind:    domain.AuditAdoption,
		ActorID: in.Actor.UserID,
		Actor:   in.Actor.Username,
		Subject: "animal:" + strconv.FormatInt(in.AnimalID, 10),
		At:      now,
	})
	s.log.Info().
		Int64("animal_id", in.AnimalID).
		Int64("user_id", in.Actor.UserID).
		Int64("adoption_id", adoption.ID).
		Msg("animal adopted")

	return adoption, nil
}

// ListAvailable queries the store on every call; results are never cached.
func (s *adoptionService) ListAvailable(ctx context.Context, in ports.ListAvailableInput) ([]domain.Animal, error) {
	animals, err := s.animals.ListAvailable(ctx, strings.TrimSpace(in.Species))
	if err != nil {
		s.log.Error().Err(err).Str("species", in.Species).Msg("list available failed")
		return nil, storageErr("list available", err)
	}
	if animals == nil {
		animals = []domain.Animal{}
	}
	return animals, nil
}

func (s *adoptionService) GetAnimal(ctx context.Context, id int64) (*domain.Animal, error) {
	a, err := s.animals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAnimalNotFound) {
			return nil, err
		}
		return nil, storageErr("get animal", err)
	}
	return a, nil
}
