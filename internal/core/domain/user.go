package domain

import "time"

// Role is the access level required by an operation.
type Role string

const (
	RoleOrdinary Role = "ordinary"
	RoleAdmin    Role = "admin"
)

// User models an authenticated actor in the system.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role returns the user's access level.
func (u *User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleOrdinary
}

// Identity is the resolved principal behind a session token.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Satisfies reports whether the identity meets the required role.
// Every authenticated identity satisfies RoleOrdinary.
func (i Identity) Satisfies(required Role) bool {
	if required == RoleAdmin {
		return i.IsAdmin
	}
	return true
}
