package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pythonvista/intelligent-libary-sub000/business/recommend"
	"github.com/pythonvista/intelligent-libary-sub000/domain"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/metrics"
)

type (
	RecommendHandler struct {
		validate         *validator.Validate
		recommendService RecommendService
	}

	RecommendService interface {
		Recommend(ctx context.Context, userID uint, algorithm string, n int) (domain.RecommendationSet, error)
		Trending(ctx context.Context, n int) ([]domain.ScoredBook, error)
	}

	RecommendQuery struct {
		Algorithm string `query:"algorithm" validate:"omitempty,oneof=collaborative nmf content_based hybrid"`
		N         string `query:"n"`
	}

	TrendingQuery struct {
		N string `query:"n"`
	}
)

func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{
		validate:         validator.New(),
		recommendService: svc,
	}
}

// parseN distinguishes "param absent" (0, let the service pick the default)
// from an explicit bad value.
func parseN(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// GET /api/v1/recommendations?algorithm=hybrid&n=10
func (h *RecommendHandler) Recommend(c echo.Context) error {
	start := time.Now()

	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	n, ok := parseN(q.N)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "n must be a positive integer"})
	}

	set, err := h.recommendService.Recommend(c.Request().Context(), userID, q.Algorithm, n)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidRequest) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.RecommendRequests.Inc()
	metrics.RecommendLatency.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(set))
}

// GET /api/v1/recommendations/trending?n=10
func (h *RecommendHandler) Trending(c echo.Context) error {
	var q TrendingQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	n, ok := parseN(q.N)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "n must be a positive integer"})
	}

	trends, err := h.recommendService.Trending(c.Request().Context(), n)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidRequest) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(trends))
}
