package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/petshelter/adoption-system/internal/api/metrics"
	"github.com/petshelter/adoption-system/internal/core/domain"
	"github.com/petshelter/adoption-system/internal/core/ports"
)

// AnimalHandler serves the public catalog and the adoption action.
type AnimalHandler struct {
	service ports.AdoptionService
}

func NewAnimalHandler(service ports.AdoptionService) *AnimalHandler {
	return &AnimalHandler{service: service}
}

type animalListResponse struct {
	Animals []domain.Animal `json:"animals"`
	Count   int             `json:"count"`
}

type adoptResponse struct {
	Adoption *domain.Adoption `json:"adoption"`
	Message  string           `json:"message"`
}

// ListAvailable returns the animals that can be adopted.
//
// @Summary      List available animals
// @Tags         animals
// @Produce      json
// @Param        species  query     string  false  "Filter by species (e.g. dog, cat)"
// @Success      200      {object}  animalListResponse
// @Failure      401      {object}  map[string]string
// @Security     BearerAuth
// @Router       /animals [get]
func (h *AnimalHandler) ListAvailable(c echo.Context) error {
	animals, err := h.service.ListAvailable(c.Request().Context(), ports.ListAvailableInput{
		Species: strings.TrimSpace(c.QueryParam("species")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, animalListResponse{Animals: animals, Count: len(animals)})
}

// Get returns a single animal.
//
// @Summary      Get an animal
// @Tags         animals
// @Produce      json
// @Param        id   path      int  true  "Animal ID"
// @Success      200  {object}  domain.Animal
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /animals/{id} [get]
func (h *AnimalHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id", domain.ErrAnimalNotFound)
	if err != nil {
		return err
	}
	animal, err := h.service.GetAnimal(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, animal)
}

// Adopt transitions an available animal to adopted for the caller.
//
// @Summary      Adopt an animal
// @Tags         animals
// @Produce      json
// @Param        id   path      int  true  "Animal ID"
// @Success      201  {object}  adoptResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Security     BearerAuth
// @Router       /adopt/{id} [post]
func (h *AnimalHandler) Adopt(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrAnimalNotFound)
	if err != nil {
		metrics.AdoptionsTotal.WithLabelValues("not_found").Inc()
		return err
	}

	adoption, err := h.service.Adopt(c.Request().Context(), ports.AdoptInput{AnimalID: id, Actor: actor})
	if err != nil {
		metrics.AdoptionsTotal.WithLabelValues(adoptResult(err)).Inc()
		return err
	}

	metrics.AdoptionsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, adoptResponse{Adoption: adoption, Message: "adoption confirmed"})
}

func adoptResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyAdopted):
		return "already_adopted"
	case errors.Is(err, domain.ErrAnimalNotFound):
		return "not_found"
	default:
		return "error"
	}
}
