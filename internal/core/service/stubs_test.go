package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
	err    error // if set, every call returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	r.nextID++
	clone := *u
	clone.ID = r.nextID
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.users[u.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Username == u.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	err      error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.sessions, id)
	return nil
}

func (s *stubSessionStore) DeleteByUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *stubSessionStore) Ping(context.Context) error { return s.err }

func (s *stubSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ---------------------------------------------------------------------------
// Animals and adoptions
// ---------------------------------------------------------------------------

// stubShelter backs both AnimalRepository and AdoptionRepository. A single
// mutex plays the role of the row lock taken by the real store.
type stubShelter struct {
	mu        sync.Mutex
	animals   map[int64]*domain.Animal
	ledger    []domain.Adoption
	nextID    int64
	err       error
	listCalls int
}

func newStubShelter() *stubShelter {
	return &stubShelter{animals: make(map[int64]*domain.Animal)}
}

func (s *stubShelter) put(id int64, name, species string, status domain.AnimalStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animals[id] = &domain.Animal{ID: id, Name: name, Species: species, Status: status}
	if id > s.nextID {
		s.nextID = id
	}
}

func (s *stubShelter) ListAvailable(_ context.Context, species string) ([]domain.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Animal
	for _, a := range s.animals {
		if a.Status != domain.StatusAvailable {
			continue
		}
		if species != "" && a.Species != species {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubShelter) ListAll(_ context.Context) ([]domain.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Animal, 0, len(s.animals))
	for _, a := range s.animals {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *stubShelter) FindByID(_ context.Context, id int64) (*domain.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.animals[id]
	if !ok {
		return nil, domain.ErrAnimalNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *stubShelter) Create(_ context.Context, a *domain.Animal) (*domain.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	clone := *a
	clone.ID = s.nextID
	s.animals[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *stubShelter) Update(_ context.Context, a *domain.Animal) (*domain.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	existing, ok := s.animals[a.ID]
	if !ok {
		return nil, domain.ErrAnimalNotFound
	}
	existing.Name, existing.Species, existing.Age = a.Name, a.Species, a.Age
	existing.UpdatedAt = a.UpdatedAt
	out := *existing
	return &out, nil
}

func (s *stubShelter) Adopt(_ context.Context, animalID, adoptedBy int64, at time.Time) (*domain.Adoption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.animals[animalID]
	if !ok {
		return nil, domain.ErrAnimalNotFound
	}
	if !a.Status.CanTransitionTo(domain.StatusAdopted) {
		return nil, domain.ErrAlreadyAdopted
	}
	a.Status = domain.StatusAdopted
	row := domain.Adoption{ID: int64(len(s.ledger) + 1), AnimalID: animalID, AdoptedBy: adoptedBy, AdoptedAt: at}
	s.ledger = append(s.ledger, row)
	return &row, nil
}

func (s *stubShelter) List(_ context.Context) ([]domain.AdoptionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.AdoptionEntry, 0, len(s.ledger))
	for i := len(s.ledger) - 1; i >= 0; i-- {
		row := s.ledger[i]
		out = append(out, domain.AdoptionEntry{Adoption: row, AnimalName: s.animals[row.AnimalID].Name})
	}
	return out, nil
}

func (s *stubShelter) ledgerFor(animalID int64) []domain.Adoption {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Adoption
	for _, row := range s.ledger {
		if row.AnimalID == animalID {
			out = append(out, row)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Audit
// ---------------------------------------------------------------------------

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (a *stubAudit) Record(_ context.Context, e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *stubAudit) Insert(ctx context.Context, e domain.AuditEvent) error {
	a.Record(ctx, e)
	return a.err
}

func (a *stubAudit) Recent(_ context.Context, limit int) ([]domain.AuditEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	if limit > len(a.events) {
		limit = len(a.events)
	}
	return append([]domain.AuditEvent(nil), a.events[:limit]...), nil
}

func (a *stubAudit) kinds() []domain.AuditKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditKind, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Kind)
	}
	return out
}
