package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/logger"
)

type BookService interface {
	GetAllBooks(ctx context.Context) ([]domain.Book, error)
	GetBookByID(ctx context.Context, id uint64) (*domain.Book, error)
	GetPopularBooks(ctx context.Context, limit int) ([]domain.Book, error)
	CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	DeleteBook(ctx context.Context, id uint64) error
}

type BookHandler struct {
	bookService BookService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewBookHandler(bookService BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type CreateBookRequest struct {
	ISBN        string  `json:"isbn"`
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Subject     string  `json:"subject" validate:"required"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
}

type UpdateBookRequest struct {
	ISBN        string  `json:"isbn"`
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Subject     string  `json:"subject" validate:"required"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
}

func (h *BookHandler) GetAllBooks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	books, err := h.bookService.GetAllBooks(ctx)
	if err != nil {
		logger.Error("Failed to find all books", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get all books",
		"books":   books,
	})
}

func (h *BookHandler) GetBookByID(c echo.Context) error {
	bookIdStr := c.Param("id")

	bookId, err := strconv.ParseUint(bookIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid book id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	book, err := h.bookService.GetBookByID(ctx, bookId)
	if err != nil {
		if err.Error() == "book not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find book by id",
		"book":    book,
	})
}

func (h *BookHandler) GetPopularBooks(c echo.Context) error {
	limit := 10
	if limitStr := c.QueryParam("n"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "n must be a positive integer"})
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	books, err := h.bookService.GetPopularBooks(ctx, limit)
	if err != nil {
		logger.Error("Failed to find popular books", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get popular books",
		"books":   books,
	})
}

func (h *BookHandler) CreateBook(c echo.Context) error {
	var req CreateBookRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate book request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	book := &domain.Book{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Subject:     req.Subject,
		Description: req.Description,
		Available:   true,
		Rating:      req.Rating,
	}

	newBook, err := h.bookService.CreateBook(ctx, book)
	if err != nil {
		logger.Error("Failed to create book", err)
		// Check if it's a validation error
		if err.Error() == "title is required" ||
			err.Error() == "author is required" ||
			err.Error() == "subject is required" ||
			err.Error() == "rating must be between 0 and 5" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Book successfully created",
		"book":    newBook,
	})
}

func (h *BookHandler) UpdateBook(c echo.Context) error {
	bookIdStr := c.Param("id")

	bookId, err := strconv.ParseUint(bookIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid book id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate book request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	book := &domain.Book{
		ID:          bookId,
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Subject:     req.Subject,
		Description: req.Description,
		Available:   req.Available,
		Rating:      req.Rating,
	}

	updatedBook, err := h.bookService.UpdateBook(ctx, book)
	if err != nil {
		logger.Error("Failed to update book", err)
		// Check if book not found
		if err.Error() == "book not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		// Check if it's a validation error
		if err.Error() == "book ID is required" ||
			err.Error() == "title is required" ||
			err.Error() == "rating must be between 0 and 5" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update book",
		"book":    updatedBook,
	})
}

func (h *BookHandler) DeleteBook(c echo.Context) error {
	bookIdStr := c.Param("id")

	bookId, err := strconv.ParseUint(bookIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid book id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err = h.bookService.DeleteBook(ctx, bookId)
	if err != nil {
		logger.Error("Failed to delete book", err)
		// Check if book not found
		if err.Error() == "book not found" || err.Error() == "invalid book id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "book successfully deleted",
		"book_id": bookId,
	})
}
