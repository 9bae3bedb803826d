package rest

import (
	"context"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/logger"
)

type (
	LendingHandler struct {
		validate       *validator.Validate
		lendingService LendingService
	}

	LendingService interface {
		Borrow(ctx context.Context, userID uint, bookID uint64) (*domain.Loan, error)
		Return(ctx context.Context, userID uint, bookID uint64) (*domain.Loan, error)
		UserLoans(ctx context.Context, userID uint) ([]domain.Loan, error)
	}

	BorrowInput struct {
		BookID uint64 `json:"book_id" validate:"required"`
	}

	ReturnInput struct {
		BookID uint64 `json:"book_id" validate:"required"`
	}
)

func NewLendingHandler(lendingService LendingService) *LendingHandler {
	return &LendingHandler{
		validate:       validator.New(),
		lendingService: lendingService,
	}
}

func (h *LendingHandler) Borrow(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request BorrowInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate borrow request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	loan, err := h.lendingService.Borrow(c.Request().Context(), userID, request.BookID)
	if err != nil {
		logger.Error("Failed to borrow book", err)
		if err.Error() == "book not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if err.Error() == "book is not available" ||
			err.Error() == "book already borrowed by user" ||
			err.Error() == "invalid book id" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(loan))
}

func (h *LendingHandler) Return(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request ReturnInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate return request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	loan, err := h.lendingService.Return(c.Request().Context(), userID, request.BookID)
	if err != nil {
		logger.Error("Failed to return book", err)
		if err.Error() == "no open loan for this book" ||
			err.Error() == "invalid book id" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(loan))
}

func (h *LendingHandler) GetUserLoans(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	loans, err := h.lendingService.UserLoans(c.Request().Context(), userID)
	if err != nil {
		logger.Error("Failed to get user loans", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(loans))
}
