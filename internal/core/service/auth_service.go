package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/petshelter/adoption-system/internal/core/domain"
	"github.com/petshelter/adoption-system/internal/core/ports"
)

const (
	defaultSessionTTL = 24 * time.Hour
	sessionIDBytes    = 32

	// bcrypt only looks at the first 72 bytes.
	maxPasswordBytes = 72
)

// AuthService implements signup, login, authorization and logout.
//
// Tokens are HS256 JWTs carrying only the session ID (jti) and expiry. The
// identity and role live in the SessionStore, so deleting the record
// revokes the token regardless of its remaining lifetime.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	audit    ports.AuditRecorder
	secret   []byte
	ttl      time.Duration
	cost     int
	clock    clockwork.Clock
	log      zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithClock overrides the wall clock used for session expiry.
func WithClock(c clockwork.Clock) AuthOption {
	return func(s *AuthService) { s.clock = c }
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	secret string,
	ttl time.Duration,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if audit == nil {
		audit = ports.NopAudit{}
	}
	s := &AuthService{
		users:    users,
		sessions: sessions,
		audit:    audit,
		secret:   []byte(secret),
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		clock:    clockwork.NewRealClock(),
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates an ordinary account. No row is written when validation fails.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := requireFields(
		"username", in.Username,
		"password", in.Password,
		"first_name", in.FirstName,
		"last_name", in.LastName,
	); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		s.log.Error().Err(err).Str("username", in.Username).Msg("signup failed")
		return nil, storageErr("signup", err)
	}

	s.audit.Record(ctx, domain.AuditEvent{
		Kind:    domain.AuditSignup,
		ActorID: created.ID,
		Actor:   created.Username,
		At:      now,
	})
	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user signed up")

	return created, nil
}

// Login verifies credentials and opens a new session. Unknown usernames and
// wrong passwords are reported identically.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		// Burn the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(in.Password))
		s.loginFailed(ctx, in.Username)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		s.log.Error().Err(err).Msg("login lookup failed")
		return nil, storageErr("login", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.loginFailed(ctx, in.Username)
		return nil, domain.ErrInvalidCredentials
	}

	now := s.clock.Now().UTC()
	sess := &domain.Session{
		ID:        newSessionID(),
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("session create failed")
		return nil, storageErr("login", err)
	}

	token, err := s.sign(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.audit.Record(ctx, domain.AuditEvent{
		Kind:    domain.AuditLoginSucceeded,
		ActorID: user.ID,
		Actor:   user.Username,
		At:      now,
	})
	s.log.Info().Int64("user_id", user.ID).Bool("admin", user.IsAdmin).Msg("login succeeded")

	return &ports.LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, User: user}, nil
}

// Authorize resolves token to an identity holding at least the required role.
func (s *AuthService) Authorize(ctx context.Context, token string, required domain.Role) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	sid, err := s.parse(token, true)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		s.log.Error().Err(err).Msg("session lookup failed")
		return nil, storageErr("authorize", err)
	}
	if sess.Expired(s.clock.Now()) {
		return nil, domain.ErrUnauthenticated
	}

	id := sess.Identity()
	if !id.Satisfies(required) {
		return nil, domain.ErrForbidden
	}
	return &id, nil
}

// Logout deletes the session behind token. Expired tokens with a valid
// signature still have their record removed.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sid, err := s.parse(token, false)
	if err != nil {
		return nil
	}

	var actor domain.AuditEvent
	if sess, err := s.sessions.Get(ctx, sid); err == nil {
		actor = domain.AuditEvent{ActorID: sess.UserID, Actor: sess.Username}
	}

	if err := s.sessions.Delete(ctx, sid); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		s.log.Error().Err(err).Msg("session delete failed")
		return storageErr("logout", err)
	}

	if actor.Actor != "" {
		actor.Kind = domain.AuditLogout
		actor.At = s.clock.Now().UTC()
		s.audit.Record(ctx, actor)
	}
	return nil
}

// RevokeUser deletes every session issued to userID.
func (s *AuthService) RevokeUser(ctx context.Context, userID int64) error {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return storageErr("revoke sessions", err)
	}
	return nil
}

func (s *AuthService) sign(sess *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.Username,
		IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// parse verifies the signature and returns the session ID. Expiry is
// enforced only when validate is set.
func (s *AuthService) parse(token string, validate bool) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	}
	if !validate {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return "", domain.ErrUnauthenticated
	}
	if claims.ID == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.ID, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username string) {
	s.audit.Record(ctx, domain.AuditEvent{
		Kind:  domain.AuditLoginFailed,
		Actor: username,
		At:    s.clock.Now().UTC(),
	})
	s.log.Info().Str("username", username).Msg("login rejected")
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("shelter-timing-guard"), s.cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func newSessionID() string {
	b := make([]byte, sessionIDBytes)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
