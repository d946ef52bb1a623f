package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"denimatch/business/taste"
	"denimatch/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	TasteHandler struct {
		validate     *validator.Validate
		tasteService TasteService
		timeout      time.Duration
	}

	TasteService interface {
		StateFor(ctx context.Context, profileID uint) (taste.State, taste.Summary, error)
		Drift(ctx context.Context, profileID uint, limit int) (taste.DriftReport, error)
	}

	DriftQuery struct {
		Limit int `query:"limit" validate:"omitempty,min=2,max=50"`
	}

	TasteStateResponse struct {
		Vector        map[string]float64 `json:"taste_vector"`
		Summary       taste.Summary      `json:"summary"`
		BaseDecay     float64            `json:"base_decay"`
		ClampMin      float64            `json:"clamp_min"`
		ClampMax      float64            `json:"clamp_max"`
		LastUpdatedAt *time.Time         `json:"last_updated_at"`
	}
)

func NewTasteHandler(tasteService TasteService) *TasteHandler {
	return &TasteHandler{
		validate:     validator.New(),
		tasteService: tasteService,
		timeout:      10 * time.Second,
	}
}

// GET /api/v1/profiles/me/taste
func (h *TasteHandler) GetTaste(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	state, summary, err := h.tasteService.StateFor(ctx, userID)
	if err != nil {
		if errors.Is(err, taste.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to load taste state", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(TasteStateResponse{
		Vector:        state.Vector,
		Summary:       summary,
		BaseDecay:     state.BaseDecay,
		ClampMin:      state.ClampMin,
		ClampMax:      state.ClampMax,
		LastUpdatedAt: state.LastUpdatedAt,
	}))
}

// GET /api/v1/profiles/me/taste/drift?limit=10
func (h *TasteHandler) GetDrift(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q DriftQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.tasteService.Drift(ctx, userID, q.Limit)
	if err != nil {
		logger.Error("Failed to compute taste drift", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}
