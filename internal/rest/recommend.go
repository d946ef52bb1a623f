package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"denimatch/business/recommend"
	"denimatch/business/taste"
	"denimatch/domain"
	"denimatch/pkg/logger"
	"denimatch/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendHandler struct {
		validate         *validator.Validate
		recommendService RecommendService
		tasteService     FeedbackService
		runFinder        RunFinder
		timeout          time.Duration
	}

	RecommendService interface {
		Generate(ctx context.Context, profileID uint, in recommend.GenerateInput) (domain.RecommendationRun, error)
	}

	FeedbackService interface {
		ApplyFeedback(ctx context.Context, profileID uint, in taste.FeedbackInput) (taste.FeedbackResult, error)
	}

	RunFinder interface {
		FindByID(ctx context.Context, runID string) (domain.RecommendationRun, bool, error)
	}

	GenerateRequest struct {
		VibeSlug string `json:"vibe_slug" validate:"required"`
		Count    int    `json:"count" validate:"omitempty,min=1,max=8"`
		Notes    string `json:"notes" validate:"omitempty,max=500"`
	}

	RecFeedbackRequest struct {
		RunID    string `json:"run_id" validate:"required,uuid4"`
		RecIndex int    `json:"rec_index" validate:"min=0"`
		Action   string `json:"action" validate:"required"`
	}
)

func NewRecommendHandler(recommendService RecommendService, tasteService FeedbackService, runFinder RunFinder) *RecommendHandler {
	return &RecommendHandler{
		validate:         validator.New(),
		recommendService: recommendService,
		tasteService:     tasteService,
		runFinder:        runFinder,
		timeout:          30 * time.Second,
	}
}

// POST /api/v1/recommendations
func (h *RecommendHandler) Generate(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	run, err := h.recommendService.Generate(ctx, userID, recommend.GenerateInput{
		VibeSlug: req.VibeSlug,
		Count:    req.Count,
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrVibeNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to generate recommendations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	metrics.RecommendLatency.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(run))
}

// GET /api/v1/recommendations/:run_id
func (h *RecommendHandler) GetRun(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	runID := c.Param("run_id")
	if err := h.validate.Var(runID, "required,uuid4"); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid run id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	run, found, err := h.runFinder.FindByID(ctx, runID)
	if err != nil {
		logger.Error("Failed to load recommendation run", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if !found || run.ProfileID != userID {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "run not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(run))
}

// POST /api/v1/recommendations/feedback
func (h *RecommendHandler) Feedback(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.tasteService.ApplyFeedback(ctx, userID, taste.FeedbackInput{
		RunID:    req.RunID,
		RecIndex: req.RecIndex,
		Action:   req.Action,
	})
	if err != nil {
		switch {
		case errors.Is(err, taste.ErrInvalidAction):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, taste.ErrRunNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		case errors.Is(err, taste.ErrProfileNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to apply feedback", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(result))
}
