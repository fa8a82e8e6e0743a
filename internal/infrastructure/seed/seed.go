// Package seed loads initial users and animals from a YAML file.
//
//	users:
//	  - username: admin
//	    password: change-me
//	    first_name: Shelter
//	    last_name: Admin
//	    admin: true
//	animals:
//	  - name: Rex
//	    species: dog
//	    age: 3
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/petshelter/adoption-system/internal/core/domain"
	"github.com/petshelter/adoption-system/internal/core/ports"
)

type File struct {
	Users   []User   `yaml:"users"`
	Animals []Animal `yaml:"animals"`
}

type User struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Admin     bool   `yaml:"admin"`
}

type Animal struct {
	Name    string `yaml:"name"`
	Species string `yaml:"species"`
	Age     *int   `yaml:"age"`
}

// Result counts the rows created by a seeding run.
type Result struct {
	Users   int
	Animals int
}

// Load parses a seed file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Seeder inserts seed data, skipping entries that already exist. Users
// match on username; animals match on name and species.
type Seeder struct {
	users   ports.UserRepository
	animals ports.AnimalRepository
	cost    int
	log     zerolog.Logger
}

func NewSeeder(users ports.UserRepository, animals ports.AnimalRepository, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, animals: animals, cost: bcrypt.DefaultCost, log: log}
}

// Apply is safe to run repeatedly.
func (s *Seeder) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result
	now := time.Now().UTC()

	for _, u := range f.Users {
		username := strings.TrimSpace(u.Username)
		if username == "" || u.Password == "" {
			return res, fmt.Errorf("seed user %q: %w", username, domain.ErrMissingField)
		}

		_, err := s.users.FindByUsername(ctx, username)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return res, fmt.Errorf("seed user %q: %w", username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
		if err != nil {
			return res, fmt.Errorf("hash seed password: %w", err)
		}
		_, err = s.users.Create(ctx, &domain.User{
			Username:     username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			PasswordHash: string(hash),
			IsAdmin:      u.Admin,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicateUsername) {
			return res, fmt.Errorf("seed user %q: %w", username, err)
		}
		if err == nil {
			res.Users++
		}
	}

	existing, err := s.animals.ListAll(ctx)
	if err != nil {
		return res, fmt.Errorf("list animals: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		known[animalKey(a.Name, a.Species)] = struct{}{}
	}

	for _, a := range f.Animals {
		name, species := strings.TrimSpace(a.Name), strings.TrimSpace(a.Species)
		if name == "" || species == "" {
			return res, fmt.Errorf("seed animal %q: %w", name, domain.ErrMissingField)
		}
		key := animalKey(name, species)
		if _, ok := known[key]; ok {
			continue
		}
		_, err := s.animals.Create(ctx, &domain.Animal{
			Name:      name,
			Species:   species,
			Age:       a.Age,
			Status:    domain.StatusAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return res, fmt.Errorf("seed animal %q: %w", name, err)
		}
		known[key] = struct{}{}
		res.Animals++
	}

	s.log.Info().Int("users", res.Users).Int("animals", res.Animals).Msg("seed applied")
	return res, nil
}

func animalKey(name, species string) string {
	return strings.ToLower(species) + "/" + strings.ToLower(name)
}
