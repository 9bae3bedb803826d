package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/logger"
)

// BookRepository contract interface
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	FindByID(ctx context.Context, id uint64) (domain.Book, error)
	FindAll(ctx context.Context) ([]domain.Book, error)
	FindPopular(ctx context.Context, limit int) ([]domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id uint64) error
}

type catalogService struct {
	bookRepo BookRepository
}

func NewCatalogService(bookRepo BookRepository) *catalogService {
	return &catalogService{
		bookRepo: bookRepo,
	}
}

func (s *catalogService) GetAllBooks(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all books")
		return nil, fmt.Errorf("context error: %w", err)
	}

	books, err := s.bookRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all books", err)
		return nil, err
	}

	return books, nil
}

func (s *catalogService) GetBookByID(ctx context.Context, id uint64) (*domain.Book, error) {
	if id == 0 {
		logger.Error("invalid book id")
		return nil, errors.New("invalid book id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get book by id")
		return nil, fmt.Errorf("context error: %w", err)
	}

	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find book by id", err.Error())
		return nil, err
	}

	return &book, nil
}

func (s *catalogService) GetPopularBooks(ctx context.Context, limit int) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get popular books")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		logger.Error("invalid limit when get popular books")
		return nil, errors.New("limit must be greater than 0")
	}

	books, err := s.bookRepo.FindPopular(ctx, limit)
	if err != nil {
		logger.Error("failed to find popular books", err)
		return nil, err
	}

	return books, nil
}

func (s *catalogService) CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create book")
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if book.Title == "" {
		logger.Error("Invalid book data: title is required")
		return nil, errors.New("title is required")
	}

	if book.Author == "" {
		logger.Error("Invalid book data: author is required")
		return nil, errors.New("author is required")
	}

	if book.Subject == "" {
		logger.Error("Invalid book data: subject is required")
		return nil, errors.New("subject is required")
	}

	if book.Rating < 0 || book.Rating > 5 {
		logger.Error("Invalid book data: rating must be between 0 and 5")
		return nil, errors.New("rating must be between 0 and 5")
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		logger.Error("failed to create new book", err)
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	logger.Info("book created successfully")

	return book, nil
}

func (s *catalogService) UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating book")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if book.ID == 0 {
		logger.Error("Invalid book data: ID is required")
		return nil, errors.New("book ID is required")
	}

	// Validation
	if book.Title == "" {
		logger.Error("Invalid book data: title is required")
		return nil, errors.New("title is required")
	}

	if book.Rating < 0 || book.Rating > 5 {
		logger.Error("Invalid book data: rating must be between 0 and 5")
		return nil, errors.New("rating must be between 0 and 5")
	}

	// Verify book exists
	_, err := s.bookRepo.FindByID(ctx, book.ID)
	if err != nil {
		logger.Error("book not found", err)
		return nil, errors.New("book not found")
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		logger.Error("failed to update book", err)
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	// Get updated book from database
	updatedBook, err := s.bookRepo.FindByID(ctx, book.ID)
	if err != nil {
		logger.Error("failed to fetch updated book", err)
		return nil, fmt.Errorf("failed to fetch updated book: %w", err)
	}

	logger.Info("book updated success")

	return &updatedBook, nil
}

func (s *catalogService) DeleteBook(ctx context.Context, id uint64) error {
	if id == 0 {
		logger.Error("Invalid book id when deleting book")
		return errors.New("invalid book id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting book")
		return fmt.Errorf("context error: %w", err)
	}

	// Verify book exists
	_, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("book not found", err)
		return errors.New("book not found")
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete book", err)
		return fmt.Errorf("failed to delete book: %w", err)
	}

	logger.Info("book deleted success")

	return nil
}
