package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/petshelter/adoption-system/internal/core/domain"
	"github.com/petshelter/adoption-system/internal/core/ports"
)

var alice = domain.Identity{UserID: 1, Username: "alice"}

func TestAdoptionService_Adopt_Success(t *testing.T) {
	shelter := newStubShelter()
	shelter.put(5, "Rex", "dog", domain.StatusAvailable)
	audit := &stubAudit{}
	svc := NewAdoptionService(shelter, shelter, audit, discardLogger)

	adoption, err := svc.Adopt(context.Background(), ports.AdoptInput{AnimalID: 5, Actor: alice})
	if err != nil {
		t.Fatalf("Adopt returned error: %v", err)
	}
	if adoption.AnimalID != 5 || adoption.AdoptedBy != alice.UserID {
		t.Fatalf("unexpected adoption: %+v", adoption)
	}
	if adoption.AdoptedAt.IsZero() {
		t.Fatalf("expected adoption timestamp")
	}

	a, _ := shelter.FindByID(context.Background(), 5)
	if a.Status != domain.StatusAdopted {
		t.Fatalf("expected status adopted, got %s", a.Status)
	}
	if rows := shelter.ledgerFor(5); len(rows) != 1 {
		t.Fatalf("expected one ledger row, got %d", len(rows))
	}
	if kinds := audit.kinds(); len(kinds) != 1 || kinds[0] != domain.AuditAdoption {
		t.Fatalf("expected adoption audit event, got %v", kinds)
	}
}

func TestAdoptionService_Adopt_NotFound(t *testing.T) {
	shelter := newStubShelter()
	svc := NewAdoptionService(shelter, shelter, nil, discardLogger)

	_, err := svc.Adopt(context.Background(), ports.AdoptInput{AnimalID: 42, Actor: alice})
	if !errors.Is(err, domain.ErrAnimalNotFound) {
		t.Fatalf("expected ErrAnimalNotFound, got %v", err)
	}
	if len(shelter.ledger) != 0 {
		t.Fatalf("no ledger row may be written")
	}
}

func TestAdoptionService_Adopt_AlreadyAdopted(t *testing.T) {
	shelter := newStubShelter()
	shelter.put(5, "Rex", "dog", domain.StatusAvailable)
	svc := NewAdoptionService(shelter, shelter, nil, discardLogger)
	ctx := context.Background()

	if _, err := svc.Adopt(ctx, ports.AdoptInput{AnimalID: 5, Actor: alice}); err != nil {
		t.Fatalf("first adopt: %v", err)
	}

	bob := domain.Identity{UserID: 2, Username: "bob"}
	for _, actor := range []domain.Identity{alice, bob} {
		if _, err := svc.Adopt(ctx, ports.AdoptInput{AnimalID: 5, Actor: actor}); !errors.Is(err, domain.ErrAlreadyAdopted) {
			t.Fatalf("expected ErrAlreadyAdopted for %s, got %v", actor.Username, err)
		}
	}
	if rows := shelter.ledgerFor(5); len(rows) != 1 {
		t.Fatalf("expected ledger to stay at one row, got %d", len(rows))
	}
}

func TestAdoptionService_Adopt_StorageError(t *testing.T) {
	shelter := newStubShelter()
	cause := errors.New("deadlock detected")
	shelter.err = cause
	svc := NewAdoptionService(shelter, shelter, nil, discardLogger)

	_, err := svc.Adopt(context.Background(), ports.AdoptInput{AnimalID: 5, Actor: alice})
	if !errors.Is(err, domain.ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrStorage wrapping cause, got %v", err)
	}
}

func TestAdoptionService_Adopt_ConcurrentAttemptsHaveOneWinner(t *testing.T) {
	shelter := newStubShelter()
	shelter.put(7, "Milo", "cat", domain.StatusAvailable)
	svc := NewAdoptionService(shelter, shelter, nil, discardLogger)

	const attempts = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		already int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := svc.Adopt(context.Background(), ports.AdoptInput{
				AnimalID: 7,
				Actor:    domain.Identity{UserID: uid, Username: "user"},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrAlreadyAdopted):
				already++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	if wins != 1 || already != attempts-1 {
		t.Fatalf("expected 1 winner and %d rejections, got %d and %d", attempts-1, wins, already)
	}
	if rows := shelter.ledgerFor(7); len(rows) != 1 {
		t.Fatalf("expected exactly one ledger row, got %d", len(rows))
	}
}

func TestAdoptionService_ListAvailable(t *testing.T) {
	shelter := newStubShelter()
	shelter.put(1, "Rex", "dog", domain.StatusAvailable)
	shelter.put(2, "Bella", "dog", domain.StatusAvailable)
	shelter.put(3, "Milo", "cat", domain.StatusAvailable)
	shelter.put(4, "Ace", "dog", domain.StatusAdopted)
	svc := NewAdoptionService(shelter, shelter, nil, discardLogger)
	ctx := context.Background()

	all, err := svc.ListAvailable(ctx, ports.ListAvailableInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := names(all); !equal(got, []string{"Bella", "Milo", "Rex"}) {
		t.Fatalf("unexpected listing: %v", got)
	}

	dogs, _ := svc.ListAvailable(ctx, ports.ListAvailableInput{Species: "dog"})
	if got := names(dogs); !equal(got, []string{"Bella", "Rex"}) {
		t.Fatalf("unexpected dog listing: %v", got)
	}

	none, _ := svc.ListAvailable(ctx, ports.ListAvailableInput{Species: "parrot"})
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", none)
	}
}

func TestAdoptionService_ListAvailable_QueriesEveryCall(t *testing.T) {
	shelter := newStubShelter()
	shelter.put(5, "Rex", "dog", domain.StatusAvailable)
	svc := NewAdoptionService(shelter, shelter, nil, discardLogger)
	ctx := context.Background()

	before, _ := svc.ListAvailable(ctx, ports.ListAvailableInput{})
	if _, err := svc.Adopt(ctx, ports.AdoptInput{AnimalID: 5, Actor: alice}); err != nil {
		t.Fatalf("adopt: %v", err)
	}
	after, _ := svc.ListAvailable(ctx, ports.ListAvailableInput{})

	if len(before) != 1 || len(after) != 0 {
		t.Fatalf("expected listing to reflect adoption, before=%v after=%v", names(before), names(after))
	}
	if shelter.listCalls != 2 {
		t.Fatalf("expected two store queries, got %d", shelter.listCalls)
	}
}

func TestAdoptionService_ListAvailable_StorageError(t *testing.T) {
	shelter := newStubShelter()
	shelter.err = errors.New("timeout")
	svc := NewAdoptionService(shelter, shelter, nil, discardLogger)

	if _, err := svc.ListAvailable(context.Background(), ports.ListAvailableInput{}); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestAdoptionService_GetAnimal(t *testing.T) {
	shelter := newStubShelter()
	shelter.put(3, "Milo", "cat", domain.StatusAvailable)
	svc := NewAdoptionService(shelter, shelter, nil, discardLogger)

	a, err := svc.GetAnimal(context.Background(), 3)
	if err != nil || a.Name != "Milo" {
		t.Fatalf("unexpected result: %+v, %v", a, err)
	}
	if _, err := svc.GetAnimal(context.Background(), 99); !errors.Is(err, domain.ErrAnimalNotFound) {
		t.Fatalf("expected ErrAnimalNotFound, got %v", err)
	}
}

// Signup, login, adopt, then a second adopt by the same user is rejected
// and a logged-out token no longer authorizes.
func TestShelterFlow_EndToEnd(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionStore()
	shelter := newStubShelter()
	shelter.put(5, "Rex", "dog", domain.StatusAvailable)
	clock := clockwork.NewFakeClock()

	auth := NewAuthService(users, sessions, nil, testSecret, time.Hour, discardLogger,
		WithClock(clock), WithBcryptCost(bcrypt.MinCost))
	adoption := NewAdoptionService(shelter, shelter, nil, discardLogger)
	ctx := context.Background()

	if _, err := auth.Signup(ctx, ports.SignupInput{Username: "alice", Password: "pw1", FirstName: "A", LastName: "L"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	res, err := auth.Login(ctx, ports.LoginInput{Username: "alice", Password: "pw1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	id, err := auth.Authorize(ctx, res.Token, domain.RoleOrdinary)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}

	if _, err := adoption.Adopt(ctx, ports.AdoptInput{AnimalID: 5, Actor: *id}); err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if _, err := adoption.Adopt(ctx, ports.AdoptInput{AnimalID: 5, Actor: *id}); !errors.Is(err, domain.ErrAlreadyAdopted) {
		t.Fatalf("expected ErrAlreadyAdopted, got %v", err)
	}
	rows := shelter.ledgerFor(5)
	if len(rows) != 1 || rows[0].AdoptedBy != id.UserID {
		t.Fatalf("unexpected ledger: %+v", rows)
	}

	if err := auth.Logout(ctx, res.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.Authorize(ctx, res.Token, domain.RoleOrdinary); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func names(animals []domain.Animal) []string {
	out := make([]string, 0, len(animals))
	for _, a := range animals {
		out = append(out, a.Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
