package recommend

import (
	"math/rand"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

// Closed-form stand-in for a latent-factor projection: subject affinity plus
// popularity plus rating, with bounded noise emulating factor uncertainty.
// No training step.
const (
	collabSubjectWeight    = 0.4
	collabPopularityWeight = 0.03
	collabRatingWeight     = 0.1
	collabExploreSpan      = 0.2
)

type CollaborativeScorer struct {
	explore *rand.Rand
}

func NewCollaborativeScorer(explore *rand.Rand) *CollaborativeScorer {
	return &CollaborativeScorer{explore: explore}
}

func (s *CollaborativeScorer) Tag() string {
	return AlgorithmCollaborative
}

// score = subjectMatches*0.4 + popularity*0.03 + rating*0.1 + U[0, 0.2)
func (s *CollaborativeScorer) Score(history []InteractionRecord, candidates []domain.Book, limit int) []domain.ScoredBook {
	counts := subjectCounts(history)

	out := make([]domain.ScoredBook, 0, len(candidates))
	for _, book := range candidates {
		score := float64(counts[book.Subject])*collabSubjectWeight +
			float64(book.BorrowCount)*collabPopularityWeight +
			book.Rating*collabRatingWeight +
			s.explore.Float64()*collabExploreSpan

		out = append(out, domain.ScoredBook{
			BookID: book.ID,
			Score:  round4(score),
		})
	}

	sortScored(out)
	return truncateScored(out, limit)
}
