package recommend

import (
	"math"
	"math/rand"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

// Second collaborative model, constrained to non-negative contributions:
// every term goes through a monotonic sub-linear transform, so callers may
// rely on scores >= 0.
const (
	factorSubjectWeight    = 0.5
	factorPopularityWeight = 0.05
	factorRatingWeight     = 0.15
	factorExploreWeight    = 0.3
	factorExploreCenter    = 0.3
)

type FactorScorer struct {
	explore *rand.Rand
}

func NewFactorScorer(explore *rand.Rand) *FactorScorer {
	return &FactorScorer{explore: explore}
}

func (s *FactorScorer) Tag() string {
	return AlgorithmFactor
}

// score = sqrt(subjectMatches)*0.5 + sqrt(max(popularity,1))*0.05
//       + sqrt(rating+1)*0.15 + |U(0,1)-0.3|*0.3
func (s *FactorScorer) Score(history []InteractionRecord, candidates []domain.Book, limit int) []domain.ScoredBook {
	counts := subjectCounts(history)

	out := make([]domain.ScoredBook, 0, len(candidates))
	for _, book := range candidates {
		score := math.Sqrt(float64(counts[book.Subject]))*factorSubjectWeight +
			math.Sqrt(math.Max(float64(book.BorrowCount), 1))*factorPopularityWeight +
			math.Sqrt(book.Rating+1)*factorRatingWeight +
			math.Abs(s.explore.Float64()-factorExploreCenter)*factorExploreWeight

		out = append(out, domain.ScoredBook{
			BookID: book.ID,
			Score:  round4(score),
		})
	}

	sortScored(out)
	return truncateScored(out, limit)
}
