package rest

import (
	"context"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"github.com/pythonvista/intelligent-libary-sub000/business/experiment"
	"github.com/pythonvista/intelligent-libary-sub000/business/recommend"
	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

type (
	ExperimentHandler struct {
		validate *validator.Validate
		tracker  ExperimentTracker
	}

	ExperimentTracker interface {
		LogEvent(ctx context.Context, event domain.ExperimentEvent) error
		AllMetrics(ctx context.Context, variants []string) ([]experiment.VariantMetrics, error)
	}

	FeedbackRequest struct {
		Variant   string                 `json:"variant" validate:"required,oneof=collaborative nmf content_based hybrid"`
		BookID    uint64                 `json:"book_id" validate:"required"`
		EventType string                 `json:"event_type" validate:"required,oneof=impression click conversion"`
		Context   map[string]interface{} `json:"context"`
	}
)

func NewExperimentHandler(tracker ExperimentTracker) *ExperimentHandler {
	return &ExperimentHandler{
		validate: validator.New(),
		tracker:  tracker,
	}
}

// POST /api/v1/recommendations/feedback
func (h *ExperimentHandler) Feedback(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	event := domain.ExperimentEvent{
		UserID:    userID,
		Variant:   req.Variant,
		BookID:    req.BookID,
		EventType: req.EventType,
		Context:   datatypes.JSONMap(req.Context),
	}

	if err := h.tracker.LogEvent(c.Request().Context(), event); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("feedback recorded"))
}

// GET /api/v1/admin/experiments/metrics
func (h *ExperimentHandler) AllMetrics(c echo.Context) error {
	stats, err := h.tracker.AllMetrics(c.Request().Context(), recommend.VariantTags)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}
