package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pythonvista/intelligent-libary-sub000/business/recommend"
	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

type LoanRepository struct {
	DB *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{DB: db}
}

// ---- Lending ----

func (r *LoanRepository) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(loan).Error; err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return nil
}

func (r *LoanRepository) FindOpenLoan(ctx context.Context, userID uint, bookID uint64) (*domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var loan domain.Loan
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, domain.LoanStatusBorrowed).
		First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query open loan: %w", err)
	}

	return &loan, nil
}

func (r *LoanRepository) CloseLoan(ctx context.Context, loanID uint64, returnedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Loan{}).
		Where("id = ? AND status = ?", loanID, domain.LoanStatusBorrowed).
		Updates(map[string]interface{}{
			"status":      domain.LoanStatusReturned,
			"returned_at": returnedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to close loan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("loan not found or already returned")
	}

	return nil
}

func (r *LoanRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var loans []domain.Loan
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("borrowed_at DESC").
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find loans by user: %w", err)
	}

	return loans, nil
}

// ---- Interaction history for the recommendation engine ----

type interactionRow struct {
	UserID      uint      `gorm:"column:user_id"`
	BookID      uint64    `gorm:"column:book_id"`
	BorrowedAt  time.Time `gorm:"column:borrowed_at"`
	Subject     string    `gorm:"column:subject"`
	Author      string    `gorm:"column:author"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
}

// RecentByUser returns the newest loans first, joined with book metadata so
// the engine never goes back to the catalog per record.
func (r *LoanRepository) RecentByUser(ctx context.Context, userID uint, limit int) ([]recommend.InteractionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []interactionRow
	err := r.DB.WithContext(ctx).
		Table("loans").
		Select("loans.user_id, loans.book_id, loans.borrowed_at, books.subject, books.author, books.title, books.description").
		Joins("JOIN books ON books.id = loans.book_id").
		Where("loans.user_id = ?", userID).
		Order("loans.borrowed_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction history: %w", err)
	}

	return toInteractionRecords(rows), nil
}

// All returns every loan with its timestamp for the trending aggregation.
func (r *LoanRepository) All(ctx context.Context) ([]recommend.InteractionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []interactionRow
	err := r.DB.WithContext(ctx).
		Table("loans").
		Select("loans.user_id, loans.book_id, loans.borrowed_at").
		Order("loans.borrowed_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}

	return toInteractionRecords(rows), nil
}

func toInteractionRecords(rows []interactionRow) []recommend.InteractionRecord {
	records := make([]recommend.InteractionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, recommend.InteractionRecord{
			UserID:      row.UserID,
			BookID:      row.BookID,
			BorrowedAt:  row.BorrowedAt,
			Weight:      1.0,
			Subject:     row.Subject,
			Author:      row.Author,
			Title:       row.Title,
			Description: row.Description,
		})
	}
	return records
}
