package ports

import (
	"context"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// SessionStore keeps server-side session records keyed by session ID.
// Implementations must be safe for concurrent use; concurrent writes to the
// same key resolve last-write-wins.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	// Get returns domain.ErrSessionNotFound for missing or expired records.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is a no-op for unknown IDs.
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every session issued to userID.
	DeleteByUser(ctx context.Context, userID int64) error
	Ping(ctx context.Context) error
}
