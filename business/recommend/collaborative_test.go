//go:build !integration

package recommend

import (
	"math"
	"testing"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

const collabTestSeed = 42

func TestCollaborativeScorer_ReplaysFormula(t *testing.T) {
	history := []InteractionRecord{
		{BookID: 100, Subject: "fantasy"},
		{BookID: 101, Subject: "fantasy"},
		{BookID: 102, Subject: "scifi"},
	}
	candidates := []domain.Book{
		{ID: 1, Subject: "fantasy", BorrowCount: 10, Rating: 4.5},
		{ID: 2, Subject: "scifi", BorrowCount: 3, Rating: 3.0},
		{ID: 3, Subject: "poetry", BorrowCount: 0, Rating: 0},
	}

	got := NewCollaborativeScorer(NewExplorer(collabTestSeed)).Score(history, candidates, 10)

	// replay the same noise stream and arithmetic by hand
	noise := NewExplorer(collabTestSeed)
	counts := map[string]int{"fantasy": 2, "scifi": 1}
	want := make([]domain.ScoredBook, 0, len(candidates))
	for _, book := range candidates {
		score := float64(counts[book.Subject])*0.4 +
			float64(book.BorrowCount)*0.03 +
			book.Rating*0.1 +
			noise.Float64()*0.2
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

func TestCollaborativeScorer_SubjectAffinityDominatesNoise(t *testing.T) {
	history := []InteractionRecord{
		{BookID: 100, Subject: "fantasy"},
		{BookID: 101, Subject: "fantasy"},
	}
	candidates := []domain.Book{
		{ID: 1, Subject: "poetry"},
		{ID: 2, Subject: "fantasy"},
	}

	// noise spans [0, 0.2) while two subject hits are worth 0.8, so the
	// ranking holds for any seed
	got := NewCollaborativeScorer(NewExplorer(0)).Score(history, candidates, 10)

	if got[0].BookID != 2 {
		t.Errorf("top book = %d, want 2", got[0].BookID)
	}
}

func TestCollaborativeScorer_TruncatesToLimit(t *testing.T) {
	candidates := []domain.Book{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	got := NewCollaborativeScorer(NewExplorer(collabTestSeed)).Score(nil, candidates, 2)
	if len(got) != 2 {
		t.Fatalf("got %d scores, want 2", len(got))
	}
}
