package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/petshelter/adoption-system/internal/core/domain"
	"github.com/petshelter/adoption-system/internal/core/ports"
)

// AdminHandler exposes user, catalog and ledger management. Every route is
// mounted behind Auth with domain.RoleAdmin.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type updateUserRequest struct {
	Username  string `json:"username"   validate:"required,max=64"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	IsAdmin   bool   `json:"is_admin"`
}

type animalRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Species string `json:"species" validate:"required,max=50"`
	Age     *int   `json:"age"     validate:"omitempty,gte=0"`
}

type usersResponse struct {
	Users []domain.User `json:"users"`
}

type adminAnimalsResponse struct {
	Animals []domain.Animal `json:"animals"`
}

type adoptionsResponse struct {
	Adoptions []domain.AdoptionEntry `json:"adoptions"`
}

type auditResponse struct {
	Events []domain.AuditEvent `json:"events"`
}

// ListUsers
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  usersResponse
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// GetUser
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id", domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser edits an account. Admins cannot demote themselves.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "User fields"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), actor, ports.UpdateUserInput{
		ID:        id,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account and revokes its sessions.
//
// @Summary      Delete a user
// @Tags         admin
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAnimals returns every animal, adopted ones included.
//
// @Summary      List all animals
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adminAnimalsResponse
// @Security     BearerAuth
// @Router       /admin/animals [get]
func (h *AdminHandler) ListAnimals(c echo.Context) error {
	animals, err := h.service.ListAnimals(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminAnimalsResponse{Animals: animals})
}

// CreateAnimal
//
// @Summary      Register an animal
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      animalRequest  true  "Animal"
// @Success      201   {object}  domain.Animal
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/animals [post]
func (h *AdminHandler) CreateAnimal(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req animalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	animal, err := h.service.CreateAnimal(c.Request().Context(), actor, ports.CreateAnimalInput{
		Name:    req.Name,
		Species: req.Species,
		Age:     req.Age,
	})
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/animals/"+strconv.FormatInt(animal.ID, 10))
	return c.JSON(http.StatusCreated, animal)
}

// UpdateAnimal edits name, species and age. Status is not editable.
//
// @Summary      Update an animal
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Animal ID"
// @Param        body  body      animalRequest  true  "Animal"
// @Success      200   {object}  domain.Animal
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/animals/{id} [put]
func (h *AdminHandler) UpdateAnimal(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrAnimalNotFound)
	if err != nil {
		return err
	}
	var req animalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	animal, err := h.service.UpdateAnimal(c.Request().Context(), actor, ports.UpdateAnimalInput{
		ID:      id,
		Name:    req.Name,
		Species: req.Species,
		Age:     req.Age,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, animal)
}

// ListAdoptions
//
// @Summary      Adoption ledger
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adoptionsResponse
// @Security     BearerAuth
// @Router       /admin/adoptions [get]
func (h *AdminHandler) ListAdoptions(c echo.Context) error {
	entries, err := h.service.ListAdoptions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adoptionsResponse{Adoptions: entries})
}

// ListAudit returns the newest audit events.
//
// @Summary      Audit trail
// @Tags         admin
// @Produce      json
// @Param        limit  query     int  false  "Maximum events (default 50, max 500)"
// @Success      200    {object}  auditResponse
// @Security     BearerAuth
// @Router       /admin/audit [get]
func (h *AdminHandler) ListAudit(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}
	events, err := h.service.ListAudit(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auditResponse{Events: events})
}
