package domain

import "time"

// Session is the server-side record behind an issued token. The role is
// captured at login and is not refreshed for the lifetime of the session.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity returns the principal the session was issued to.
func (s *Session) Identity() Identity {
	return Identity{UserID: s.UserID, Username: s.Username, IsAdmin: s.IsAdmin}
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
