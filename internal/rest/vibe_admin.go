package rest

import (
	"context"
	"net/http"
	"time"

	"denimatch/domain"
	"denimatch/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	VibeAdminHandler struct {
		validate *validator.Validate
		vibes    VibeStore
		timeout  time.Duration
	}

	VibeStore interface {
		FindBySlug(ctx context.Context, slug string) (domain.Vibe, bool, error)
		FindAll(ctx context.Context) ([]domain.Vibe, error)
		Upsert(ctx context.Context, vibe *domain.Vibe) error
		Delete(ctx context.Context, slug string) error
	}

	VibeRequest struct {
		Slug            string   `json:"slug" validate:"required,lowercase"`
		Name            string   `json:"name" validate:"required"`
		Description     string   `json:"description"`
		AllowedFits     []string `json:"allowed_fits"`
		AllowedRises    []string `json:"allowed_rises"`
		PreferredWashes []string `json:"preferred_washes"`
	}
)

func NewVibeAdminHandler(vibes VibeStore) *VibeAdminHandler {
	return &VibeAdminHandler{
		validate: validator.New(),
		vibes:    vibes,
		timeout:  10 * time.Second,
	}
}

// GET /api/v1/vibes
func (h *VibeAdminHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	vibes, err := h.vibes.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list vibes", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(vibes))
}

// GET /api/v1/vibes/:slug
func (h *VibeAdminHandler) Get(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	vibe, found, err := h.vibes.FindBySlug(ctx, slug)
	if err != nil {
		logger.Error("Failed to load vibe", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if !found {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "vibe not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(vibe))
}

// PUT /api/v1/admin/vibes creates or replaces the vibe with the given slug.
func (h *VibeAdminHandler) Upsert(c echo.Context) error {
	var req VibeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	vibe := domain.Vibe{
		Slug:            req.Slug,
		Name:            req.Name,
		Description:     req.Description,
		AllowedFits:     req.AllowedFits,
		AllowedRises:    req.AllowedRises,
		PreferredWashes: req.PreferredWashes,
	}

	if err := h.vibes.Upsert(ctx, &vibe); err != nil {
		logger.Error("Failed to upsert vibe", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(vibe))
}

// DELETE /api/v1/admin/vibes/:slug
func (h *VibeAdminHandler) Delete(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing vibe slug"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.vibes.Delete(ctx, slug); err != nil {
		logger.Error("Failed to delete vibe", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Vibe deleted successfully",
	})
}
