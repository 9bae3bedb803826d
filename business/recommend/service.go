package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/logger"
)

// BookRepository is the catalog surface the engine reads. FindAvailable must
// only return books that can currently be borrowed; FindPopular comes back
// pre-sorted by borrow count.
type BookRepository interface {
	FindAvailable(ctx context.Context, limit int) ([]domain.Book, error)
	FindPopular(ctx context.Context, limit int) ([]domain.Book, error)
}

// TrendingCache is an optional hot ranking cache in front of the full
// interaction scan.
type TrendingCache interface {
	Get(ctx context.Context, limit int) ([]domain.ScoredBook, error)
	Set(ctx context.Context, items []domain.ScoredBook) error
}

// how many trend entries to precompute and cache per refresh
const trendCacheBreadth = 100

// Service is the orchestrator: it decides cold-start vs warm-start, tries
// the primary scoring backend under a bounded timeout, falls back to the
// local models, and shapes the final response.
type Service struct {
	historyRepo HistoryRepository
	bookRepo    BookRepository
	remote      ScoringStrategy
	local       ScoringStrategy
	trendCache  TrendingCache
	cfg         Config
}

func NewService(
	historyRepo HistoryRepository,
	bookRepo BookRepository,
	remote ScoringStrategy,
	local ScoringStrategy,
	trendCache TrendingCache,
	cfg Config,
) *Service {
	return &Service{
		historyRepo: historyRepo,
		bookRepo:    bookRepo,
		remote:      remote,
		local:       local,
		trendCache:  trendCache,
		cfg:         cfg,
	}
}

// Recommend serves N books for a user. n == 0 means "use the default";
// negative n and unknown algorithm tags are the only hard failures.
func (s *Service) Recommend(ctx context.Context, userID uint, algorithm string, n int) (domain.RecommendationSet, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationSet{}, fmt.Errorf("context error: %w", err)
	}

	if n == 0 {
		n = s.cfg.DefaultLimit
	}
	if n <= 0 {
		return domain.RecommendationSet{}, fmt.Errorf("%w: n must be positive, got %d", ErrInvalidRequest, n)
	}

	if algorithm == "" {
		algorithm = AlgorithmHybrid
	}
	if !validAlgorithm(algorithm) {
		return domain.RecommendationSet{}, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidRequest, algorithm)
	}

	variant := AssignVariant(userID)
	tid := TraceIDFromContext(ctx)

	history, err := s.historyRepo.RecentByUser(ctx, userID, s.cfg.HistoryLimit)
	if err != nil {
		return domain.RecommendationSet{}, fmt.Errorf("load interaction history: %w", err)
	}

	// cold start: nothing to personalize on, serve the popularity feed
	if len(history) == 0 {
		popular, err := s.bookRepo.FindPopular(ctx, n)
		if err != nil {
			return domain.RecommendationSet{}, fmt.Errorf("load popular books: %w", err)
		}

		set := popularitySet(userID, variant, popular, n)

		RecommendServedTotal.WithLabelValues(AlgorithmPopularity, "popularity").Inc()
		logger.Debug("recommend_cold_start",
			"trace_id", tid,
			"user_id", userID,
			"variant", variant,
			"count", set.Count,
		)

		return set, nil
	}

	candidates, err := s.bookRepo.FindAvailable(ctx, s.cfg.MaxCandidates)
	if err != nil {
		return domain.RecommendationSet{}, fmt.Errorf("load candidate books: %w", err)
	}

	exclude := excludedIDs(history)

	req := ScoringRequest{
		UserID:     userID,
		Algorithm:  algorithm,
		Limit:      n,
		History:    history,
		Candidates: candidates,
		ExcludeIDs: excludeList(exclude),
	}

	scores, simulated, err := s.score(ctx, req)
	if err != nil {
		return domain.RecommendationSet{}, err
	}

	recommendations := shape(scores, candidates, exclude, n)

	set := domain.RecommendationSet{
		UserID:          userID,
		Algorithm:       algorithm,
		Variant:         variant,
		Simulated:       simulated,
		Count:           len(recommendations),
		Recommendations: recommendations,
	}

	source := "remote"
	if simulated {
		source = "local"
	}
	RecommendServedTotal.WithLabelValues(algorithm, source).Inc()

	logger.Debug("recommend_served",
		"trace_id", tid,
		"user_id", userID,
		"algorithm", algorithm,
		"variant", variant,
		"simulated", simulated,
		"candidate_count", len(candidates),
		"count", set.Count,
	)

	return set, nil
}

// score runs the primary attempt and arbitrates the fallback. A single
// bounded try against the backend, no retries; any failure moves straight to
// the local models with simulated = true.
func (s *Service) score(ctx context.Context, req ScoringRequest) ([]domain.ScoredBook, bool, error) {
	if s.remote != nil {
		scoreCtx, cancel := context.WithTimeout(ctx, s.cfg.ScoringTimeout)
		scores, err := s.remote.Score(scoreCtx, req)
		cancel()

		if err == nil {
			return scores, false, nil
		}

		// caller abandoned the request; no point computing a fallback
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, fmt.Errorf("context error: %w", ctxErr)
		}

		reason := fallbackReason(err)
		ScoringFallbacksTotal.WithLabelValues(reason).Inc()
		logger.Warn("scoring backend failed, using local models",
			"reason", reason,
			"algorithm", req.Algorithm,
			"error", err,
		)
	}

	scores, err := s.local.Score(ctx, req)
	if err != nil {
		return nil, false, fmt.Errorf("local scoring: %w", err)
	}

	return scores, true, nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unavailable"
	}
}

// Trending returns the globally hottest books by decayed interaction weight.
func (s *Service) Trending(ctx context.Context, n int) ([]domain.ScoredBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if n == 0 {
		n = s.cfg.DefaultLimit
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", ErrInvalidRequest, n)
	}

	if s.trendCache != nil {
		cached, err := s.trendCache.Get(ctx, n)
		if err != nil {
			logger.Warn("trending cache read failed", "error", err)
		} else if len(cached) >= n {
			return cached[:n], nil
		}
	}

	records, err := s.historyRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	breadth := trendCacheBreadth
	if n > breadth {
		breadth = n
	}
	trends := TrendScores(records, time.Now(), breadth)

	if s.trendCache != nil {
		if err := s.trendCache.Set(ctx, trends); err != nil {
			logger.Warn("trending cache write failed", "error", err)
		}
	}

	return truncateScored(trends, n), nil
}

// ---- response shaping ----

func excludeList(exclude map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(exclude))
	for id := range exclude {
		out = append(out, id)
	}
	return out
}

// shape enforces the terminal guarantees on whatever the scoring path
// produced: only known candidates, nothing excluded, no duplicates, ordered,
// capped at limit, joined with catalog metadata. Stale ids drop silently.
func shape(scores []domain.ScoredBook, candidates []domain.Book, exclude map[uint64]struct{}, limit int) []domain.Recommendation {
	byID := make(map[uint64]domain.Book, len(candidates))
	for _, book := range candidates {
		byID[book.ID] = book
	}

	seen := make(map[uint64]struct{}, len(scores))
	kept := make([]domain.ScoredBook, 0, len(scores))
	for _, sc := range scores {
		if _, dup := seen[sc.BookID]; dup {
			continue
		}
		if _, excluded := exclude[sc.BookID]; excluded {
			continue
		}
		if _, known := byID[sc.BookID]; !known {
			continue
		}
		seen[sc.BookID] = struct{}{}
		kept = append(kept, domain.ScoredBook{BookID: sc.BookID, Score: round4(sc.Score)})
	}

	sortScored(kept)
	kept = truncateScored(kept, limit)

	out := make([]domain.Recommendation, 0, len(kept))
	for _, sc := range kept {
		book := byID[sc.BookID]
		out = append(out, domain.Recommendation{
			BookID:  sc.BookID,
			Title:   book.Title,
			Author:  book.Author,
			Subject: book.Subject,
			Rating:  book.Rating,
			Score:   sc.Score,
		})
	}

	return out
}

func popularitySet(userID uint, variant string, popular []domain.Book, limit int) domain.RecommendationSet {
	if len(popular) > limit {
		popular = popular[:limit]
	}

	recs := make([]domain.Recommendation, 0, len(popular))
	for _, book := range popular {
		recs = append(recs, domain.Recommendation{
			BookID:  book.ID,
			Title:   book.Title,
			Author:  book.Author,
			Subject: book.Subject,
			Rating:  book.Rating,
			Score:   round4(float64(book.BorrowCount)),
		})
	}

	return domain.RecommendationSet{
		UserID:          userID,
		Algorithm:       AlgorithmPopularity,
		Variant:         variant,
		Simulated:       false,
		Count:           len(recs),
		Recommendations: recs,
	}
}
