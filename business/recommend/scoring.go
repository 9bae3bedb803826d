package recommend

import (
	"math"
	"sort"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

// round4 keeps every exposed score at 4 decimal places.
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// sortScored orders by score descending, book id ascending on ties so that
// equal scores rank deterministically.
func sortScored(items []domain.ScoredBook) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score == items[j].Score {
			return items[i].BookID < items[j].BookID
		}
		return items[i].Score > items[j].Score
	})
}

func truncateScored(items []domain.ScoredBook, limit int) []domain.ScoredBook {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// subjectCounts tallies how many history records share each subject.
func subjectCounts(history []InteractionRecord) map[string]int {
	counts := make(map[string]int, len(history))
	for _, rec := range history {
		if rec.Subject == "" {
			continue
		}
		counts[rec.Subject]++
	}
	return counts
}
