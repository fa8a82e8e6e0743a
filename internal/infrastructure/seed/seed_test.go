package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

type memUsers struct {
	users []domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	c := *u
	c.ID = int64(len(m.users) + 1)
	m.users = append(m.users, c)
	return &c, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			c := u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByID(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (m *memUsers) List(context.Context) ([]domain.User, error) { return m.users, nil }
func (m *memUsers) Update(context.Context, *domain.User) (*domain.User, error) {
	return nil, errors.New("not implemented")
}
func (m *memUsers) Delete(context.Context, int64) error { return errors.New("not implemented") }

type memAnimals struct {
	animals []domain.Animal
}

func (m *memAnimals) ListAvailable(context.Context, string) ([]domain.Animal, error) {
	return m.animals, nil
}
func (m *memAnimals) ListAll(context.Context) ([]domain.Animal, error) { return m.animals, nil }
func (m *memAnimals) FindByID(context.Context, int64) (*domain.Animal, error) {
	return nil, domain.ErrAnimalNotFound
}
func (m *memAnimals) Create(_ context.Context, a *domain.Animal) (*domain.Animal, error) {
	c := *a
	c.ID = int64(len(m.animals) + 1)
	m.animals = append(m.animals, c)
	return &c, nil
}
func (m *memAnimals) Update(context.Context, *domain.Animal) (*domain.Animal, error) {
	return nil, errors.New("not implemented")
}

const sample = `
users:
  - username: admin
    password: change-me
    first_name: Shelter
    last_name: Admin
    admin: true
  - username: alice
    password: pw1
    first_name: Alice
    last_name: Liddell
animals:
  - name: Rex
    species: dog
    age: 3
  - name: Milo
    species: cat
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	f, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Users) != 2 || !f.Users[0].Admin || f.Users[1].Admin {
		t.Fatalf("unexpected users: %+v", f.Users)
	}
	if len(f.Animals) != 2 || f.Animals[0].Age == nil || *f.Animals[0].Age != 3 || f.Animals[1].Age != nil {
		t.Fatalf("unexpected animals: %+v", f.Animals)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSeeder_ApplyIsIdempotent(t *testing.T) {
	f, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	users, animals := &memUsers{}, &memAnimals{}
	s := NewSeeder(users, animals, zerolog.Nop())
	s.cost = bcrypt.MinCost

	res, err := s.Apply(context.Background(), f)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Users != 2 || res.Animals != 2 {
		t.Fatalf("unexpected first run: %+v", res)
	}

	res, err = s.Apply(context.Background(), f)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if res.Users != 0 || res.Animals != 0 {
		t.Fatalf("second run must create nothing, got %+v", res)
	}

	admin, _ := users.FindByUsername(context.Background(), "admin")
	if !admin.IsAdmin {
		t.Fatalf("expected admin flag")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("change-me")) != nil {
		t.Fatalf("seeded password must be hashed")
	}
	for _, a := range animals.animals {
		if a.Status != domain.StatusAvailable {
			t.Fatalf("seeded animals must be available, got %s", a.Status)
		}
	}
}

func TestSeeder_RejectsIncompleteEntries(t *testing.T) {
	s := NewSeeder(&memUsers{}, &memAnimals{}, zerolog.Nop())
	_, err := s.Apply(context.Background(), &File{Animals: []Animal{{Name: "Rex"}}})
	if !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}
