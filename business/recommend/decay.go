package recommend

import (
	"math"
	"time"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

const (
	decayFactor     = 0.95
	decayPeriodDays = 30

	// interactions older than this get an extra penalty
	staleAfterDays = 90
	stalePenalty   = 0.1
)

// DecayWeight maps an interaction's age in days to its recency weight:
// 0.95^(days/30), times 0.1 once past 90 days. Day periods are whole, so
// 0 days -> 1.0, 30 days -> 0.95, 90 days -> 0.95^3, 91 days -> 0.95^3*0.1.
func DecayWeight(daysSince int) float64 {
	if daysSince < 0 {
		daysSince = 0
	}

	weight := math.Pow(decayFactor, float64(daysSince/decayPeriodDays))
	if daysSince > staleAfterDays {
		weight *= stalePenalty
	}

	return weight
}

// TrendScores aggregates decayed interaction weights per book across every
// user's history. This answers "what is hot right now", not "what should
// this user see"; the per-user models stay on raw counts.
func TrendScores(records []InteractionRecord, now time.Time, limit int) []domain.ScoredBook {
	accumulated := make(map[uint64]float64)

	for _, rec := range records {
		days := int(now.Sub(rec.BorrowedAt).Hours() / 24)

		weight := rec.Weight
		if weight == 0 {
			weight = 1.0
		}

		accumulated[rec.BookID] += DecayWeight(days) * weight
	}

	out := make([]domain.ScoredBook, 0, len(accumulated))
	for id, score := range accumulated {
		out = append(out, domain.ScoredBook{
			BookID: id,
			Score:  round4(score),
		})
	}

	sortScored(out)
	return truncateScored(out, limit)
}
