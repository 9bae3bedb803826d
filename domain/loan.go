package domain

import "time"

// CREATE TABLE public.loans (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id     BIGINT NOT NULL,
//     book_id     BIGINT NOT NULL,
//     status      TEXT NOT NULL DEFAULT 'borrowed',
//     borrowed_at TIMESTAMPTZ DEFAULT NOW(),
//     returned_at TIMESTAMPTZ
// );

const (
	LoanStatusBorrowed = "borrowed"
	LoanStatusReturned = "returned"
)

type Loan struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint       `gorm:"column:user_id;not null" json:"user_id"`
	BookID     uint64     `gorm:"column:book_id;not null" json:"book_id"`
	Status     string     `gorm:"column:status;not null;default:borrowed" json:"status"`
	BorrowedAt time.Time  `gorm:"column:borrowed_at;autoCreateTime" json:"borrowed_at"`
	ReturnedAt *time.Time `gorm:"column:returned_at" json:"returned_at,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}
