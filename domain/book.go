package domain

import (
	"time"
)

// CREATE TABLE public.books (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     isbn         TEXT,
//     title        TEXT,
//     author       TEXT,
//     subject      TEXT,
//     description  TEXT,
//     available    BOOLEAN DEFAULT TRUE,
//     borrow_count BIGINT DEFAULT 0,
//     rating       NUMERIC DEFAULT 0,
//     created_at   TIMESTAMPTZ DEFAULT NOW(),
//     updated_at   TIMESTAMPTZ DEFAULT NOW()
// );

type Book struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ISBN        string    `gorm:"column:isbn;type:text" json:"isbn"`
	Title       string    `gorm:"column:title;type:text" json:"title"`
	Author      string    `gorm:"column:author;type:text" json:"author"`
	Subject     string    `gorm:"column:subject;type:text" json:"subject"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Available   bool      `gorm:"column:available;default:true" json:"available"`
	BorrowCount uint64    `gorm:"column:borrow_count;default:0" json:"borrow_count"`
	Rating      float64   `gorm:"column:rating;type:numeric;default:0" json:"rating"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
