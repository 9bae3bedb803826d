package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/logger"
)

type LoanRepository interface {
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	// FindOpenLoan returns nil when the user has no open loan for the book.
	FindOpenLoan(ctx context.Context, userID uint, bookID uint64) (*domain.Loan, error)
	CloseLoan(ctx context.Context, loanID uint64, returnedAt time.Time) error
	FindByUser(ctx context.Context, userID uint) ([]domain.Loan, error)
}

type BookRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Book, error)
	IncrementBorrowCount(ctx context.Context, id uint64) error
	SetAvailability(ctx context.Context, id uint64, available bool) error
}

type LendingService struct {
	loanRepo LoanRepository
	bookRepo BookRepository
}

func NewLendingService(loanRepo LoanRepository, bookRepo BookRepository) *LendingService {
	return &LendingService{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
	}
}

// Borrow opens a loan and marks the copy as taken. Borrow count only moves
// on a successful loan, so the popularity signal tracks real lending.
func (s *LendingService) Borrow(ctx context.Context, userID uint, bookID uint64) (*domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if userID == 0 {
		logger.Error("invalid user id when borrowing")
		return nil, errors.New("invalid user id")
	}
	if bookID == 0 {
		logger.Error("invalid book id when borrowing")
		return nil, errors.New("invalid book id")
	}

	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		logger.Error("book not found when borrowing", err)
		return nil, errors.New("book not found")
	}

	if !book.Available {
		return nil, errors.New("book is not available")
	}

	open, err := s.loanRepo.FindOpenLoan(ctx, userID, bookID)
	if err != nil {
		logger.Error("failed to check open loan", err)
		return nil, fmt.Errorf("failed to check open loan: %w", err)
	}
	if open != nil {
		return nil, errors.New("book already borrowed by user")
	}

	loan := domain.Loan{
		UserID: userID,
		BookID: bookID,
		Status: domain.LoanStatusBorrowed,
	}

	if err := s.loanRepo.CreateLoan(ctx, &loan); err != nil {
		logger.Error("failed to create loan", err)
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	if err := s.bookRepo.IncrementBorrowCount(ctx, bookID); err != nil {
		logger.Error("failed to increment borrow count", err)
		return nil, fmt.Errorf("failed to increment borrow count: %w", err)
	}

	if err := s.bookRepo.SetAvailability(ctx, bookID, false); err != nil {
		logger.Error("failed to mark book unavailable", err)
		return nil, fmt.Errorf("failed to mark book unavailable: %w", err)
	}

	logger.Info("loan created successfully")

	return &loan, nil
}

// Return closes the open loan and puts the copy back on the shelf.
func (s *LendingService) Return(ctx context.Context, userID uint, bookID uint64) (*domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if userID == 0 {
		logger.Error("invalid user id when returning")
		return nil, errors.New("invalid user id")
	}
	if bookID == 0 {
		logger.Error("invalid book id when returning")
		return nil, errors.New("invalid book id")
	}

	open, err := s.loanRepo.FindOpenLoan(ctx, userID, bookID)
	if err != nil {
		logger.Error("failed to check open loan", err)
		return nil, fmt.Errorf("failed to check open loan: %w", err)
	}
	if open == nil {
		return nil, errors.New("no open loan for this book")
	}

	returnedAt := time.Now()

	if err := s.loanRepo.CloseLoan(ctx, open.ID, returnedAt); err != nil {
		logger.Error("failed to close loan", err)
		return nil, fmt.Errorf("failed to close loan: %w", err)
	}

	if err := s.bookRepo.SetAvailability(ctx, bookID, true); err != nil {
		logger.Error("failed to mark book available", err)
		return nil, fmt.Errorf("failed to mark book available: %w", err)
	}

	open.Status = domain.LoanStatusReturned
	open.ReturnedAt = &returnedAt

	logger.Info("loan returned successfully")

	return open, nil
}

func (s *LendingService) UserLoans(ctx context.Context, userID uint) ([]domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if userID == 0 {
		logger.Error("invalid user id when listing loans")
		return nil, errors.New("invalid user id")
	}

	loans, err := s.loanRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("failed to find loans by user", err)
		return nil, err
	}

	return loans, nil
}
