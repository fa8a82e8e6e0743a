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

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID int64) error
}

type adminService struct {
	users     ports.UserRepository
	animals   ports.AnimalRepository
	adoptions ports.AdoptionRepository
	auditLog  ports.AuditRepository
	audit     ports.AuditRecorder
	revoker   SessionRevoker
	clock     clockwork.Clock
	log       zerolog.Logger
}

// AdminDeps groups the collaborators of the admin service.
type AdminDeps struct {
	Users     ports.UserRepository
	Animals   ports.AnimalRepository
	Adoptions ports.AdoptionRepository
	AuditLog  ports.AuditRepository
	Audit     ports.AuditRecorder
	Revoker   SessionRevoker
}

// NewAdminService returns an AdminService implementation.
func NewAdminService(deps AdminDeps, log zerolog.Logger) ports.AdminService {
	if deps.AuditLog == nil {
		deps.AuditLog = ports.NopAudit{}
	}
	if deps.Audit == nil {
		deps.Audit = ports.NopAudit{}
	}
	return &adminService{
		users:     deps.Users,
		animals:   deps.Animals,
		adoptions: deps.Adoptions,
		auditLog:  deps.AuditLog,
		audit:     deps.Audit,
		revoker:   deps.Revoker,
		clock:     clockwork.NewRealClock(),
		log:       log,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}

func (s *adminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, storageErr("get user", err)
	}
	return u, nil
}

// UpdateUser edits an account. An administrator may not revoke their own
// admin flag. Role changes apply to sessions opened after the edit.
func (s *adminService) UpdateUser(ctx context.Context, actor domain.Identity, in ports.UpdateUserInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := requireFields(
		"username", in.Username,
		"first_name", in.FirstName,
		"last_name", in.LastName,
	); err != nil {
		return nil, err
	}
	if in.ID == actor.UserID && !in.IsAdmin {
		return nil, domain.ErrSelfModification
	}

	existing, err := s.GetUser(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	existing.Username = in.Username
	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.IsAdmin = in.IsAdmin
	existing.UpdatedAt = s.clock.Now().UTC()

	updated, err := s.users.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, storageErr("update user", err)
	}

	s.record(ctx, actor, domain.AuditUserUpdated, "user", updated.ID)
	return updated, nil
}

// DeleteUser removes an account and its sessions. Ledger rows survive with
// the adopter cleared.
func (s *adminService) DeleteUser(ctx context.Context, actor domain.Identity, id int64) error {
	if id == actor.UserID {
		return domain.ErrSelfModification
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return storageErr("delete user", err)
	}

	if s.revoker != nil {
		if err := s.revoker.RevokeUser(ctx, id); err != nil {
			s.log.Warn().Err(err).Int64("user_id", id).Msg("failed to revoke sessions of deleted user")
		}
	}

	s.record(ctx, actor, domain.AuditUserDeleted, "user", id)
	s.log.Info().Int64("user_id", id).Int64("by", actor.UserID).Msg("user deleted")
	return nil
}

func (s *adminService) ListAnimals(ctx context.Context) ([]domain.Animal, error) {
	animals, err := s.animals.ListAll(ctx)
	if err != nil {
		return nil, storageErr("list animals", err)
	}
	return animals, nil
}

// CreateAnimal registers a new intake. New animals are always available.
func (s *adminService) CreateAnimal(ctx context.Context, actor domain.Identity, in ports.CreateAnimalInput) (*domain.Animal, error) {
	a := &domain.Animal{
		Name:    strings.TrimSpace(in.Name),
		Species: strings.TrimSpace(in.Species),
		Age:     in.Age,
		Status:  domain.StatusAvailable,
	}
	if err := validateAnimal(a); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	created, err := s.animals.Create(ctx, a)
	if err != nil {
		return nil, storageErr("create animal", err)
	}

	s.record(ctx, actor, domain.AuditAnimalCreated, "animal", created.ID)
	return created, nil
}

// UpdateAnimal edits descriptive fields. Status belongs to the adoption flow.
func (s *adminService) UpdateAnimal(ctx context.Context, actor domain.Identity, in ports.UpdateAnimalInput) (*domain.Animal, error) {
	a := &domain.Animal{
		ID:        in.ID,
		Name:      strings.TrimSpace(in.Name),
		Species:   strings.TrimSpace(in.Species),
		Age:       in.Age,
		UpdatedAt: s.clock.Now().UTC(),
	}
	if err := validateAnimal(a); err != nil {
		return nil, err
	}

	updated, err := s.animals.Update(ctx, a)
	if err != nil {
		if errors.Is(err, domain.ErrAnimalNotFound) {
			return nil, err
		}
		return nil, storageErr("update animal", err)
	}

	s.record(ctx, actor, domain.AuditAnimalUpdated, "animal", updated.ID)
	return updated, nil
}

func (s *adminService) ListAdoptions(ctx context.Context) ([]domain.AdoptionEntry, error) {
	entries, err := s.adoptions.List(ctx)
	if err != nil {
		return nil, storageErr("list adoptions", err)
	}
	return entries, nil
}

func (s *adminService) ListAudit(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	events, err := s.auditLog.Recent(ctx, limit)
	if err != nil {
		return nil, storageErr("list audit", err)
	}
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return events, nil
}

func (s *adminService) record(ctx context.Context, actor domain.Identity, kind domain.AuditKind, subject string, id int64) {
	s.audit.Record(ctx, domain.AuditEvent{
		Kind:    kind,
		ActorID: actor.UserID,
		Actor:   actor.Username,
		Subject: subject + ":" + strconv.FormatInt(id, 10),
		At:      s.clock.Now().UTC(),
	})
}

func validateAnimal(a *domain.Animal) error {
	if err := requireFields("name", a.Name, "species", a.Species); err != nil {
		return err
	}
	if a.Age != nil && *a.Age < 0 {
		return domain.ErrInvalidAnimal
	}
	return nil
}
