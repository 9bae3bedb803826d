package recommend

import (
	"github.com/pythonvista/intelligent-libary-sub000/domain"

	"golang.org/x/sync/errgroup"
)

// HybridScorer fans out to the three models and merges their lists under the
// configured weights. A book missing from one model's list contributes 0
// from that model; nothing is imputed.
type HybridScorer struct {
	collaborative *CollaborativeScorer
	factor        *FactorScorer
	content       *ContentScorer
	weights       HybridWeights
}

func NewHybridScorer(
	collaborative *CollaborativeScorer,
	factor *FactorScorer,
	content *ContentScorer,
	weights HybridWeights,
) *HybridScorer {
	return &HybridScorer{
		collaborative: collaborative,
		factor:        factor,
		content:       content,
		weights:       weights,
	}
}

func (h *HybridScorer) Tag() string {
	return AlgorithmHybrid
}

func (h *HybridScorer) Score(history []InteractionRecord, candidates []domain.Book, limit int) []domain.ScoredBook {
	// each model gets 2xN breadth so the merge has enough overlap to work with
	breadth := limit * 2
	if breadth < limit {
		breadth = limit
	}

	var (
		collabScores  []domain.ScoredBook
		factorScores  []domain.ScoredBook
		contentScores []domain.ScoredBook
	)

	g := new(errgroup.Group)
	g.Go(func() error {
		collabScores = h.collaborative.Score(history, candidates, breadth)
		return nil
	})
	g.Go(func() error {
		factorScores = h.factor.Score(history, candidates, breadth)
		return nil
	})
	g.Go(func() error {
		contentScores = h.content.Score(history, candidates, breadth)
		return nil
	})
	_ = g.Wait()

	accumulated := make(map[uint64]float64)
	accumulate := func(scores []domain.ScoredBook, weight float64) {
		for _, item := range scores {
			accumulated[item.BookID] += item.Score * weight
		}
	}
	accumulate(collabScores, h.weights.Collaborative)
	accumulate(factorScores, h.weights.Factor)
	accumulate(contentScores, h.weights.Content)

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
