package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"denimatch/domain"
	"denimatch/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	LookAdminHandler struct {
		validate  *validator.Validate
		looks     LookStore
		embedder  TextEmbedder
		timeout   time.Duration
	}

	LookStore interface {
		Create(ctx context.Context, look *domain.Look) error
		FindByID(ctx context.Context, id uint) (domain.Look, error)
		FindAll(ctx context.Context) ([]domain.Look, error)
		Update(ctx context.Context, look *domain.Look) error
		SaveEmbedding(ctx context.Context, lookID uint, embedding []float32) error
		Delete(ctx context.Context, id uint) error
	}

	// TextEmbedder turns a look's combined descriptive text into the vector
	// used for anchor-distance ranking.
	TextEmbedder interface {
		EmbedText(ctx context.Context, text string) ([]float32, error)
	}

	LookRequest struct {
		CelebrityName  string `json:"celebrity_name" validate:"required"`
		Title          string `json:"title" validate:"required"`
		Description    string `json:"description"`
		SilhouetteText string `json:"silhouette_text"`
		CanonicalText  string `json:"canonical_text"`
		WashText       string `json:"wash_text"`
		ImageURL       string `json:"image_url" validate:"omitempty,url"`
		ImagePublic    bool   `json:"image_public"`
		Visible        *bool  `json:"visible"`
	}
)

func NewLookAdminHandler(looks LookStore, embedder TextEmbedder) *LookAdminHandler {
	return &LookAdminHandler{
		validate: validator.New(),
		looks:    looks,
		embedder: embedder,
		timeout:  30 * time.Second,
	}
}

func lookIDParam(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// lookText is the canonical text embedded for a look.
func lookText(look domain.Look) string {
	parts := []string{
		look.CelebrityName,
		look.Title,
		look.Description,
		look.SilhouetteText,
		look.CanonicalText,
		look.WashText,
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ". ")
}

// POST /api/v1/admin/looks
func (h *LookAdminHandler) Create(c echo.Context) error {
	var req LookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	look := domain.Look{
		CelebrityName:  req.CelebrityName,
		Title:          req.Title,
		Description:    req.Description,
		SilhouetteText: req.SilhouetteText,
		CanonicalText:  req.CanonicalText,
		WashText:       req.WashText,
		ImageURL:       req.ImageURL,
		ImagePublic:    req.ImagePublic,
		Visible:        visible,
	}

	if err := h.looks.Create(ctx, &look); err != nil {
		logger.Error("Failed to create look", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	h.embedLook(ctx, look)

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(look))
}

// GET /api/v1/admin/looks
func (h *LookAdminHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	looks, err := h.looks.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list looks", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(looks))
}

// GET /api/v1/admin/looks/:id
func (h *LookAdminHandler) Get(c echo.Context) error {
	id, ok := lookIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid look ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	look, err := h.looks.FindByID(ctx, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(look))
}

// PUT /api/v1/admin/looks/:id
func (h *LookAdminHandler) Update(c echo.Context) error {
	id, ok := lookIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid look ID"})
	}

	var req LookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	look, err := h.looks.FindByID(ctx, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	textChanged := look.CelebrityName != req.CelebrityName ||
		look.Title != req.Title ||
		look.Description != req.Description ||
		look.SilhouetteText != req.SilhouetteText ||
		look.CanonicalText != req.CanonicalText ||
		look.WashText != req.WashText

	look.CelebrityName = req.CelebrityName
	look.Title = req.Title
	look.Description = req.Description
	look.SilhouetteText = req.SilhouetteText
	look.CanonicalText = req.CanonicalText
	look.WashText = req.WashText
	look.ImageURL = req.ImageURL
	look.ImagePublic = req.ImagePublic
	if req.Visible != nil {
		look.Visible = *req.Visible
	}

	if err := h.looks.Update(ctx, &look); err != nil {
		logger.Error("Failed to update look", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if textChanged {
		h.embedLook(ctx, look)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(look))
}

// POST /api/v1/admin/looks/:id/embedding
func (h *LookAdminHandler) RefreshEmbedding(c echo.Context) error {
	id, ok := lookIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid look ID"})
	}

	if h.embedder == nil {
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: "embedding backend not configured"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	look, err := h.looks.FindByID(ctx, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	embedding, err := h.embedder.EmbedText(ctx, lookText(look))
	if err != nil {
		logger.Error("Failed to embed look text", err)
		return c.JSON(http.StatusBadGateway, ResponseError{Message: err.Error()})
	}

	if err := h.looks.SaveEmbedding(ctx, look.ID, embedding); err != nil {
		logger.Error("Failed to save look embedding", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Embedding refreshed",
		"look_id":    look.ID,
		"dimensions": len(embedding),
	})
}

// DELETE /api/v1/admin/looks/:id
func (h *LookAdminHandler) Delete(c echo.Context) error {
	id, ok := lookIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid look ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.looks.Delete(ctx, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Look deleted successfully",
	})
}

// embedLook refreshes a look's embedding best-effort; a failure leaves the
// look without one, which the anchor ranker tolerates.
func (h *LookAdminHandler) embedLook(ctx context.Context, look domain.Look) {
	if h.embedder == nil {
		return
	}
	embedding, err := h.embedder.EmbedText(ctx, lookText(look))
	if err != nil {
		logger.Warn("Failed to embed look text", "look_id", look.ID, "error", err)
		return
	}
	if err := h.looks.SaveEmbedding(ctx, look.ID, embedding); err != nil {
		logger.Warn("Failed to save look embedding", "look_id", look.ID, "error", err)
	}
}
