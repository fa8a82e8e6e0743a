package ports

import (
	"context"
	"time"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

// SignupInput carries the fields required to create an account.
type SignupInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput carries submitted credentials.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService is the session authenticator.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// Authorize resolves token to an identity holding at least required.
	Authorize(ctx context.Context, token string, required domain.Role) (*domain.Identity, error)
	// Logout invalidates token. Unknown or already-invalid tokens are a no-op.
	Logout(ctx context.Context, token string) error
	// RevokeUser invalidates every live session of userID.
	RevokeUser(ctx context.Context, userID int64) error
}
