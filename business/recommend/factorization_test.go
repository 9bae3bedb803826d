//go:build !integration

package recommend

import (
	"math"
	"testing"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

func TestFactorScorer_ScoresNeverNegative(t *testing.T) {
	candidates := []domain.Book{
		{ID: 1},
		{ID: 2, BorrowCount: 1000, Rating: 5},
		{ID: 3, Subject: "fantasy", Rating: 0.5},
	}

	for seed := int64(1); seed <= 50; seed++ {
		scorer := NewFactorScorer(NewExplorer(seed))
		for _, sc := range scorer.Score(nil, candidates, 10) {
			if sc.Score < 0 {
				t.Fatalf("seed %d: negative score %v for book %d", seed, sc.Score, sc.BookID)
			}
		}
	}
}

func TestFactorScorer_ReplaysFormula(t *testing.T) {
	history := []InteractionRecord{
		{BookID: 100, Subject: "fantasy"},
		{BookID: 101, Subject: "fantasy"},
		{BookID: 102, Subject: "fantasy"},
		{BookID: 103, Subject: "scifi"},
	}
	candidates := []domain.Book{
		{ID: 1, Subject: "fantasy", BorrowCount: 9, Rating: 3},
		{ID: 2, Subject: "scifi", BorrowCount: 0, Rating: 4.5},
		{ID: 3, Subject: "poetry", BorrowCount: 25, Rating: 0},
	}

	got := NewFactorScorer(NewExplorer(7)).Score(history, candidates, 10)

	noise := NewExplorer(7)
	counts := map[string]int{"fantasy": 3, "scifi": 1}
	want := make([]domain.ScoredBook, 0, len(candidates))
	for _, book := range candidates {
		score := math.Sqrt(float64(counts[book.Subject]))*0.5 +
			math.Sqrt(math.Max(float64(book.BorrowCount), 1))*0.05 +
			math.Sqrt(book.Rating+1)*0.15 +
			math.Abs(noise.Float64()-0.3)*0.3
		want = append(want, domain.ScoredBook{BookID: book.ID, Score: round4(score)})
	}
	sortScored(want)

	if len(got) != len(want) {
		t.Fatalf("got %d scores, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].BookID != want[i].BookID || math.Abs(got[i].Score-want[i].Score) > 1e-9 {
			t.Errorf("rank %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
