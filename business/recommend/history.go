package recommend

import (
	"context"
	"time"
)

// InteractionRecord is one borrow event joined with the book's metadata at
// lookup time. Weight is the implicit interaction strength, 1.0 by default.
type InteractionRecord struct {
	UserID      uint
	BookID      uint64
	BorrowedAt  time.Time
	Weight      float64
	Subject     string
	Author      string
	Title       string
	Description string
}

// HistoryRepository reads borrow records. RecentByUser is the per-user
// window every scorer consumes; All feeds the trending ranking.
type HistoryRepository interface {
	RecentByUser(ctx context.Context, userID uint, limit int) ([]InteractionRecord, error)
	All(ctx context.Context) ([]InteractionRecord, error)
}

// excludedIDs collects the already-borrowed book ids from a history window.
func excludedIDs(history []InteractionRecord) map[uint64]struct{} {
	out := make(map[uint64]struct{}, len(history))
	for _, rec := range history {
		out[rec.BookID] = struct{}{}
	}
	return out
}
