package recommend

import (
	"context"
	"fmt"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

// ScoringRequest carries everything either strategy needs to score one
// request. The remote path only ships identifiers; the local path scores the
// already-fetched data directly.
type ScoringRequest struct {
	UserID     uint
	Algorithm  string
	Limit      int
	History    []InteractionRecord
	Candidates []domain.Book
	ExcludeIDs []uint64
}

// ScoringStrategy is the one contract both scoring paths implement. The
// orchestrator picks between them at call time, so the timeout and fallback
// decisions stay in one place.
type ScoringStrategy interface {
	Name() string
	Score(ctx context.Context, req ScoringRequest) ([]domain.ScoredBook, error)
}

// RemoteScorer is the transport client for the primary scoring backend.
type RemoteScorer interface {
	ScoreCandidates(ctx context.Context, userID uint, algorithm string, limit int, candidateIDs, excludeIDs []uint64) ([]domain.ScoredBook, error)
}

// RemoteScoring delegates to the primary backend over the wire.
type RemoteScoring struct {
	backend RemoteScorer
}

func NewRemoteScoring(backend RemoteScorer) *RemoteScoring {
	return &RemoteScoring{backend: backend}
}

func (r *RemoteScoring) Name() string {
	return "remote"
}

func (r *RemoteScoring) Score(ctx context.Context, req ScoringRequest) ([]domain.ScoredBook, error) {
	candidateIDs := make([]uint64, 0, len(req.Candidates))
	for _, book := range req.Candidates {
		candidateIDs = append(candidateIDs, book.ID)
	}

	return r.backend.ScoreCandidates(ctx, req.UserID, req.Algorithm, req.Limit, candidateIDs, req.ExcludeIDs)
}

// LocalHeuristicScoring computes scores in-process with the closed-form
// models. It is the fallback when the backend is unreachable, and the whole
// story when no backend is configured.
type LocalHeuristicScoring struct {
	collaborative *CollaborativeScorer
	factor        *FactorScorer
	content       *ContentScorer
	hybrid        *HybridScorer
}

// NewLocalHeuristicScoring builds the model set. With a fixed seed each
// scorer gets its own offset stream so their noise stays independent yet
// reproducible.
func NewLocalHeuristicScoring(weights HybridWeights, seed int64) *LocalHeuristicScoring {
	offset := func(n int64) int64 {
		if seed == 0 {
			return 0
		}
		return seed + n
	}

	collaborative := NewCollaborativeScorer(NewExplorer(offset(0)))
	factor := NewFactorScorer(NewExplorer(offset(1)))
	content := NewContentScorer()

	return &LocalHeuristicScoring{
		collaborative: collaborative,
		factor:        factor,
		content:       content,
		hybrid:        NewHybridScorer(collaborative, factor, content, weights),
	}
}

func (l *LocalHeuristicScoring) Name() string {
	return "local"
}

func (l *LocalHeuristicScoring) Score(_ context.Context, req ScoringRequest) ([]domain.ScoredBook, error) {
	switch req.Algorithm {
	case AlgorithmCollaborative:
		return l.collaborative.Score(req.History, req.Candidates, req.Limit), nil
	case AlgorithmFactor:
		return l.factor.Score(req.History, req.Candidates, req.Limit), nil
	case AlgorithmContent:
		return l.content.Score(req.History, req.Candidates, req.Limit), nil
	case AlgorithmHybrid:
		return l.hybrid.Score(req.History, req.Candidates, req.Limit), nil
	}

	return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidRequest, req.Algorithm)
}
