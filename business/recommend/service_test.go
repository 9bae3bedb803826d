//go:build !integration

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

type fakeHistoryRepo struct {
	records []InteractionRecord
	err     error
}

func (f *fakeHistoryRepo) RecentByUser(_ context.Context, _ uint, limit int) ([]InteractionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeHistoryRepo) All(_ context.Context) ([]InteractionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeBookRepo struct {
	available []domain.Book
	popular   []domain.Book
}

func (f *fakeBookRepo) FindAvailable(_ context.Context, limit int) ([]domain.Book, error) {
	if len(f.available) > limit {
		return f.available[:limit], nil
	}
	return f.available, nil
}

func (f *fakeBookRepo) FindPopular(_ context.Context, limit int) ([]domain.Book, error) {
	if len(f.popular) > limit {
		return f.popular[:limit], nil
	}
	return f.popular, nil
}

type fakeStrategy struct {
	name   string
	scores []domain.ScoredBook
	err    error
	calls  int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Score(_ context.Context, _ ScoringRequest) ([]domain.ScoredBook, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

type fakeTrendCache struct {
	items  []domain.ScoredBook
	getErr error
	setErr error
	sets   int
}

func (f *fakeTrendCache) Get(_ context.Context, limit int) ([]domain.ScoredBook, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeTrendCache) Set(_ context.Context, items []domain.ScoredBook) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.items = items
	f.sets++
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ScoringTimeout = 50 * time.Millisecond
	return cfg
}

func TestRecommend_ColdStartServesPopularity(t *testing.T) {
	books := &fakeBookRepo{
		popular: []domain.Book{
			{ID: 5, Title: "A", BorrowCount: 40},
			{ID: 2, Title: "B", BorrowCount: 25},
		},
	}
	local := &fakeStrategy{name: "local"}
	svc := NewService(&fakeHistoryRepo{}, books, nil, local, nil, testConfig())

	set, err := svc.Recommend(context.Background(), 42, "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Algorithm != AlgorithmPopularity {
		t.Errorf("algorithm = %q, want %q", set.Algorithm, AlgorithmPopularity)
	}
	if set.Simulated {
		t.Error("cold start must not be marked simulated")
	}
	if set.Variant != AssignVariant(42) {
		t.Errorf("variant = %q, want %q", set.Variant, AssignVariant(42))
	}
	if set.Count != 2 || len(set.Recommendations) != 2 {
		t.Fatalf("count = %d with %d recommendations, want 2", set.Count, len(set.Recommendations))
	}
	if set.Recommendations[0].BookID != 5 {
		t.Errorf("top book = %d, want 5", set.Recommendations[0].BookID)
	}
	if local.calls != 0 {
		t.Errorf("local scorer ran %d times on the popularity path", local.calls)
	}
}

func TestRecommend_RemoteSuccessIsNotSimulated(t *testing.T) {
	history := []InteractionRecord{{BookID: 100, Subject: "fantasy", BorrowedAt: time.Now()}}
	books := &fakeBookRepo{
		available: []domain.Book{
			{ID: 1, Title: "One", Subject: "fantasy"},
			{ID: 2, Title: "Two", Subject: "scifi"},
		},
	}
	remote := &fakeStrategy{name: "remote", scores: []domain.ScoredBook{{BookID: 2, Score: 0.8}, {BookID: 1, Score: 0.6}}}
	local := &fakeStrategy{name: "local"}

	svc := NewService(&fakeHistoryRepo{records: history}, books, remote, local, nil, testConfig())

	set, err := svc.Recommend(context.Background(), 7, AlgorithmCollaborative, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Simulated {
		t.Error("remote result must not be marked simulated")
	}
	if local.calls != 0 {
		t.Errorf("local scorer ran %d times after a remote success", local.calls)
	}
	if set.Count != 2 || set.Recommendations[0].BookID != 2 {
		t.Errorf("unexpected shape: count=%d recs=%+v", set.Count, set.Recommendations)
	}
	if set.Recommendations[0].Title != "Two" {
		t.Errorf("metadata not joined: %+v", set.Recommendations[0])
	}
}

func TestRecommend_RemoteFailureFallsBackToLocal(t *testing.T) {
	history := []InteractionRecord{{BookID: 100, Subject: "fantasy", BorrowedAt: time.Now()}}
	books := &fakeBookRepo{
		available: []domain.Book{{ID: 1, Subject: "fantasy"}, {ID: 2, Subject: "scifi"}},
	}
	remote := &fakeStrategy{name: "remote", err: fmt.Errorf("dial: %w", ErrBackendUnavailable)}
	local := &fakeStrategy{name: "local", scores: []domain.ScoredBook{{BookID: 1, Score: 0.9}, {BookID: 2, Score: 0.4}}}

	svc := NewService(&fakeHistoryRepo{records: history}, books, remote, local, nil, testConfig())

	set, err := svc.Recommend(context.Background(), 7, AlgorithmHybrid, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !set.Simulated {
		t.Error("fallback result must be marked simulated")
	}
	if set.Algorithm != AlgorithmHybrid {
		t.Errorf("algorithm = %q, want %q", set.Algorithm, AlgorithmHybrid)
	}
	if remote.calls != 1 || local.calls != 1 {
		t.Errorf("remote ran %d times and local %d, want 1 and 1", remote.calls, local.calls)
	}
}

func TestRecommend_FallbackRunsRealLocalModels(t *testing.T) {
	now := time.Now()
	history := []InteractionRecord{
		{BookID: 1, Subject: "history", Author: "Beard", Title: "SPQR", BorrowedAt: now},
		{BookID: 2, Subject: "history", Author: "Tuchman", Title: "The Guns of August", BorrowedAt: now},
		{BookID: 3, Subject: "history", Author: "Gibbon", Title: "Decline and Fall", BorrowedAt: now},
	}
	books := &fakeBookRepo{
		available: []domain.Book{
			{ID: 1, Subject: "history", Author: "Beard", Available: true},
			{ID: 4, Subject: "history", Author: "Tuchman", BorrowCount: 6, Rating: 4.4, Available: true},
			{ID: 5, Subject: "poetry", BorrowCount: 2, Rating: 3.1, Available: true},
			{ID: 6, Subject: "history", BorrowCount: 1, Rating: 4.0, Available: true},
		},
	}
	remote := &fakeStrategy{name: "remote", err: fmt.Errorf("%w: %w", ErrBackendUnavailable, context.DeadlineExceeded)}
	local := NewLocalHeuristicScoring(testConfig().Weights, 99)

	svc := NewService(&fakeHistoryRepo{records: history}, books, remote, local, nil, testConfig())

	set, err := svc.Recommend(context.Background(), 12, AlgorithmHybrid, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !set.Simulated {
		t.Error("fallback result must be marked simulated")
	}
	if set.Count == 0 {
		t.Fatal("fallback produced an empty list despite available candidates")
	}
	for _, rec := range set.Recommendations {
		if rec.BookID == 1 || rec.BookID == 2 || rec.BookID == 3 {
			t.Errorf("excluded book %d surfaced", rec.BookID)
		}
	}
	for i := 1; i < len(set.Recommendations); i++ {
		if set.Recommendations[i].Score > set.Recommendations[i-1].Score {
			t.Errorf("scores not non-increasing at rank %d: %+v", i, set.Recommendations)
		}
	}
}

func TestRecommend_ExcludesBorrowedBooks(t *testing.T) {
	history := []InteractionRecord{{BookID: 1, Subject: "fantasy", BorrowedAt: time.Now()}}
	books := &fakeBookRepo{
		available: []domain.Book{{ID: 1}, {ID: 2}, {ID: 3}},
	}
	// the model ranks the already-borrowed book highest; shaping must drop it
	local := &fakeStrategy{name: "local", scores: []domain.ScoredBook{
		{BookID: 1, Score: 0.99},
		{BookID: 2, Score: 0.5},
		{BookID: 3, Score: 0.4},
	}}

	svc := NewService(&fakeHistoryRepo{records: history}, books, nil, local, nil, testConfig())

	set, err := svc.Recommend(context.Background(), 3, AlgorithmContent, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rec := range set.Recommendations {
		if rec.BookID == 1 {
			t.Fatalf("borrowed book surfaced: %+v", set.Recommendations)
		}
	}
	if set.Count != 2 {
		t.Errorf("count = %d, want 2", set.Count)
	}
}

func TestRecommend_StaleScoreIDsDropSilently(t *testing.T) {
	history := []InteractionRecord{{BookID: 100, BorrowedAt: time.Now()}}
	books := &fakeBookRepo{
		available: []domain.Book{{ID: 1}, {ID: 2}},
	}
	// book 999 is not in the candidate set anymore
	local := &fakeStrategy{name: "local", scores: []domain.ScoredBook{
		{BookID: 999, Score: 0.95},
		{BookID: 1, Score: 0.7},
		{BookID: 1, Score: 0.7},
		{BookID: 2, Score: 0.2},
	}}

	svc := NewService(&fakeHistoryRepo{records: history}, books, nil, local, nil, testConfig())

	set, err := svc.Recommend(context.Background(), 3, AlgorithmFactor, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Count != 2 {
		t.Fatalf("count = %d, want 2 after dropping stale and duplicate ids", set.Count)
	}
	if set.Recommendations[0].BookID != 1 || set.Recommendations[1].BookID != 2 {
		t.Errorf("unexpected ranking: %+v", set.Recommendations)
	}
}

func TestRecommend_ResultCappedByCandidates(t *testing.T) {
	history := []InteractionRecord{{BookID: 100, BorrowedAt: time.Now()}}

	available := make([]domain.Book, 0, 5)
	scores := make([]domain.ScoredBook, 0, 5)
	for i := 1; i <= 5; i++ {
		available = append(available, domain.Book{ID: uint64(i)})
		scores = append(scores, domain.ScoredBook{BookID: uint64(i), Score: float64(i)})
	}

	svc := NewService(
		&fakeHistoryRepo{records: history},
		&fakeBookRepo{available: available},
		nil,
		&fakeStrategy{name: "local", scores: scores},
		nil,
		testConfig(),
	)

	set, err := svc.Recommend(context.Background(), 3, AlgorithmHybrid, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Count != 5 {
		t.Errorf("count = %d, want all 5 candidates when n exceeds the pool", set.Count)
	}
}

func TestRecommend_ZeroNUsesDefaultLimit(t *testing.T) {
	popular := make([]domain.Book, 0, 15)
	for i := 1; i <= 15; i++ {
		popular = append(popular, domain.Book{ID: uint64(i), BorrowCount: uint64(100 - i)})
	}

	svc := NewService(&fakeHistoryRepo{}, &fakeBookRepo{popular: popular}, nil, &fakeStrategy{name: "local"}, nil, testConfig())

	set, err := svc.Recommend(context.Background(), 1, "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Count != testConfig().DefaultLimit {
		t.Errorf("count = %d, want default limit %d", set.Count, testConfig().DefaultLimit)
	}
}

func TestRecommend_InvalidInputs(t *testing.T) {
	svc := NewService(&fakeHistoryRepo{}, &fakeBookRepo{}, nil, &fakeStrategy{name: "local"}, nil, testConfig())
	ctx := context.Background()

	if _, err := svc.Recommend(ctx, 1, "", -1); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("negative n: err = %v, want ErrInvalidRequest", err)
	}
	if _, err := svc.Recommend(ctx, 1, "alien_algorithm", 5); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("unknown algorithm: err = %v, want ErrInvalidRequest", err)
	}
}

func TestRecommend_CancelledContext(t *testing.T) {
	svc := NewService(&fakeHistoryRepo{}, &fakeBookRepo{}, nil, &fakeStrategy{name: "local"}, nil, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Recommend(ctx, 1, "", 5); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFallbackReason_Classification(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrap: %w", ErrMalformedResponse), "malformed"},
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("%w: %w", ErrBackendUnavailable, context.DeadlineExceeded), "timeout"},
		{fmt.Errorf("wrap: %w", ErrBackendUnavailable), "unavailable"},
		{errors.New("boom"), "unavailable"},
	}

	for _, tc := range cases {
		if got := fallbackReason(tc.err); got != tc.want {
			t.Errorf("fallbackReason(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestTrending_ServesFromCache(t *testing.T) {
	cache := &fakeTrendCache{items: []domain.ScoredBook{
		{BookID: 1, Score: 3},
		{BookID: 2, Score: 2},
		{BookID: 3, Score: 1},
	}}
	// a database hit would fail loudly
	histErr := errors.New("must not reach the interaction store")
	svc := NewService(&fakeHistoryRepo{err: histErr}, &fakeBookRepo{}, nil, &fakeStrategy{name: "local"}, cache, testConfig())

	got, err := svc.Trending(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].BookID != 1 || got[1].BookID != 2 {
		t.Errorf("cached result = %+v", got)
	}
}

func TestTrending_ComputesAndCachesOnMiss(t *testing.T) {
	now := time.Now()
	records := []InteractionRecord{
		{BookID: 1, BorrowedAt: now},
		{BookID: 1, BorrowedAt: now},
		{BookID: 2, BorrowedAt: now},
	}
	cache := &fakeTrendCache{}
	svc := NewService(&fakeHistoryRepo{records: records}, &fakeBookRepo{}, nil, &fakeStrategy{name: "local"}, cache, testConfig())

	got, err := svc.Trending(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].BookID != 1 || got[0].Score != 2.0 {
		t.Errorf("top = %+v, want book 1 score 2", got[0])
	}
	if got[1].BookID != 2 || got[1].Score != 1.0 {
		t.Errorf("second = %+v, want book 2 score 1", got[1])
	}
	if cache.sets != 1 {
		t.Errorf("cache written %d times, want 1", cache.sets)
	}
}

func TestTrending_CacheErrorsAreNotFatal(t *testing.T) {
	records := []InteractionRecord{{BookID: 4, BorrowedAt: time.Now()}}
	cache := &fakeTrendCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := NewService(&fakeHistoryRepo{records: records}, &fakeBookRepo{}, nil, &fakeStrategy{name: "local"}, cache, testConfig())

	got, err := svc.Trending(context.Background(), 5)
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if len(got) != 1 || got[0].BookID != 4 {
		t.Errorf("result = %+v, want book 4", got)
	}
}
