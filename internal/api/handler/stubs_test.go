package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/petshelter/adoption-system/internal/api/middleware"
	"github.com/petshelter/adoption-system/internal/core/domain"
	"github.com/petshelter/adoption-system/internal/core/ports"
)

type stubAuthService struct {
	signupFn    func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	loginFn     func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	authorizeFn func(ctx context.Context, token string, required domain.Role) (*domain.Identity, error)
	logoutFn    func(ctx context.Context, token string) error
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Authorize(ctx context.Context, token string, required domain.Role) (*domain.Identity, error) {
	return s.authorizeFn(ctx, token, required)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) RevokeUser(context.Context, int64) error { return nil }

type stubAdoptionService struct {
	adoptFn         func(ctx context.Context, in ports.AdoptInput) (*domain.Adoption, error)
	listAvailableFn func(ctx context.Context, in ports.ListAvailableInput) ([]domain.Animal, error)
	getAnimalFn     func(ctx context.Context, id int64) (*domain.Animal, error)
}

func (s *stubAdoptionService) Adopt(ctx context.Context, in ports.AdoptInput) (*domain.Adoption, error) {
	return s.adoptFn(ctx, in)
}

func (s *stubAdoptionService) ListAvailable(ctx context.Context, in ports.ListAvailableInput) ([]domain.Animal, error) {
	return s.listAvailableFn(ctx, in)
}

func (s *stubAdoptionService) GetAnimal(ctx context.Context, id int64) (*domain.Animal, error) {
	return s.getAnimalFn(ctx, id)
}

// stubAdminService embeds the interface so tests only implement what they call.
type stubAdminService struct {
	ports.AdminService
	updateUserFn   func(ctx context.Context, actor domain.Identity, in ports.UpdateUserInput) (*domain.User, error)
	deleteUserFn   func(ctx context.Context, actor domain.Identity, id int64) error
	createAnimalFn func(ctx context.Context, actor domain.Identity, in ports.CreateAnimalInput) (*domain.Animal, error)
	listAuditFn    func(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

func (s *stubAdminService) UpdateUser(ctx context.Context, actor domain.Identity, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateUserFn(ctx, actor, in)
}

func (s *stubAdminService) DeleteUser(ctx context.Context, actor domain.Identity, id int64) error {
	return s.deleteUserFn(ctx, actor, id)
}

func (s *stubAdminService) CreateAnimal(ctx context.Context, actor domain.Identity, in ports.CreateAnimalInput) (*domain.Animal, error) {
	return s.createAnimalFn(ctx, actor, in)
}

func (s *stubAdminService) ListAudit(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	return s.listAuditFn(ctx, limit)
}

type stubImageFeed struct {
	dogs, cats []string
	err        error
}

func (s *stubImageFeed) Dogs(context.Context) ([]string, error) { return s.dogs, s.err }
func (s *stubImageFeed) Cats(context.Context) ([]string, error) { return s.cats, s.err }

// newContext builds an echo context with the validator installed. A non-nil
// identity is injected the way the Auth middleware would.
func newContext(method, target, body string, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		c.Set(middleware.ContextKeyIdentity, *id)
	}
	return c, rec
}

// httpCode extracts the status of an *echo.HTTPError, or 0.
func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
