package domain

import "time"

// AnimalStatus represents the adoption state of an animal.
type AnimalStatus string

const (
	StatusAvailable AnimalStatus = "available"
	StatusAdopted   AnimalStatus = "adopted"
)

// validTransitions defines the allowed state machine transitions.
// adopted is terminal.
var validTransitions = map[AnimalStatus][]AnimalStatus{
	StatusAvailable: {StatusAdopted},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AnimalStatus) CanTransitionTo(next AnimalStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s AnimalStatus) Valid() bool {
	return s == StatusAvailable || s == StatusAdopted
}

// Animal is a shelter resident that may be adopted.
type Animal struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Species   string       `json:"species"`
	Age       *int         `json:"age,omitempty"`
	Status    AnimalStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Adoption is an append-only ledger row recording who adopted which animal.
type Adoption struct {
	ID        int64     `json:"id"`
	AnimalID  int64     `json:"animal_id"`
	AdoptedBy int64     `json:"adopted_by"`
	AdoptedAt time.Time `json:"adopted_at"`
}

// AdoptionEntry is a ledger row joined with animal and adopter details.
// AdopterUsername is empty when the adopter account has since been deleted.
type AdoptionEntry struct {
	Adoption
	AnimalName      string `json:"animal_name"`
	Species         string `json:"species"`
	AdopterUsername string `json:"adopter_username,omitempty"`
}
