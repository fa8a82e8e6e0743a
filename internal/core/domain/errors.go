package domain

import "errors"

// Authentication
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidPassword    = errors.New("password must be at most 72 bytes")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session already expired")
)

// Animals and adoptions
var (
	ErrAnimalNotFound = errors.New("animal not found")
	ErrAlreadyAdopted = errors.New("animal already adopted")
	ErrInvalidAnimal  = errors.New("invalid animal")
)

// Administration
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfModification = errors.New("administrators cannot demote or delete themselves")
)

// ErrStorage marks a failure of the backing store. Callers wrap the driver
// error alongside it so both remain visible to errors.Is.
var ErrStorage = errors.New("storage error")
