package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petshelter/adoption-system/internal/core/ports"
)

// ImageHandler proxies random pet pictures from the public image APIs.
type ImageHandler struct {
	feed ports.ImageFeed
}

func NewImageHandler(feed ports.ImageFeed) *ImageHandler {
	return &ImageHandler{feed: feed}
}

type imagesResponse struct {
	Images []string `json:"images"`
}

// Dogs
//
// @Summary      Random dog pictures
// @Tags         images
// @Produce      json
// @Success      200  {object}  imagesResponse
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/images/dogs [get]
func (h *ImageHandler) Dogs(c echo.Context) error {
	return h.serve(c, h.feed.Dogs)
}

// Cats
//
// @Summary      Random cat pictures
// @Tags         images
// @Produce      json
// @Success      200  {object}  imagesResponse
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/images/cats [get]
func (h *ImageHandler) Cats(c echo.Context) error {
	return h.serve(c, h.feed.Cats)
}

func (h *ImageHandler) serve(c echo.Context, fetch func(context.Context) ([]string, error)) error {
	urls, err := fetch(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "image service unavailable").SetInternal(err)
	}
	if urls == nil {
		urls = []string{}
	}
	return c.JSON(http.StatusOK, imagesResponse{Images: urls})
}
