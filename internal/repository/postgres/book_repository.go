package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

type BookRepository struct {
	DB *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{
		DB: db,
	}
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

func (r *BookRepository) FindByID(ctx context.Context, id uint64) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, fmt.Errorf("context error: %w", err)
	}

	var book domain.Book

	err := r.DB.WithContext(ctx).First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, errors.New("book not found")
		}
		return domain.Book{}, fmt.Errorf("failed to find book: %w", err)
	}

	return book, nil
}

func (r *BookRepository) FindAll(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var books []domain.Book
	err := r.DB.WithContext(ctx).Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}

	return books, nil
}

// FindAvailable returns the current candidate pool in stable id order.
func (r *BookRepository) FindAvailable(ctx context.Context, limit int) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var books []domain.Book
	err := r.DB.WithContext(ctx).
		Where("available = ?", true).
		Order("id ASC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find available books: %w", err)
	}

	return books, nil
}

func (r *BookRepository) FindPopular(ctx context.Context, limit int) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var books []domain.Book
	err := r.DB.WithContext(ctx).
		Order("borrow_count DESC, id ASC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find popular books: %w", err)
	}

	return books, nil
}

func (r *BookRepository) IncrementBorrowCount(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Book{}).
		Where("id = ?", id).
		UpdateColumn("borrow_count", gorm.Expr("borrow_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment borrow count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("book not found")
	}

	return nil
}

func (r *BookRepository) SetAvailability(ctx context.Context, id uint64, available bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Book{}).
		Where("id = ?", id).
		Update("available", available)
	if result.Error != nil {
		return fmt.Errorf("failed to update availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("book not found")
	}

	return nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// Cek apakah book exists
	var existingBook domain.Book
	if err := r.DB.WithContext(ctx).First(&existingBook, book.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("book not found")
		}
		return fmt.Errorf("failed to find book: %w", err)
	}

	// Update semua field yang bisa diubah
	updateData := map[string]interface{}{
		"isbn":        book.ISBN,
		"title":       book.Title,
		"author":      book.Author,
		"subject":     book.Subject,
		"description": book.Description,
		"available":   book.Available,
		"rating":      book.Rating,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", book.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("book not found or already deleted")
	}

	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("book not found or already deleted")
	}

	return nil
}
