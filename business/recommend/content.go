package recommend

import (
	"math"
	"strings"
	"unicode"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

const (
	contentSubjectWeight     = 0.4
	contentAuthorBonus       = 0.3
	contentTitleWeight       = 0.1
	contentDescriptionWeight = 0.05

	// tokens shorter than this carry no signal
	minKeywordLen = 3
)

// userProfile is rebuilt per request from the history window, never stored.
type userProfile struct {
	Subjects map[string]int
	Authors  map[string]int
	Keywords map[string]int
}

func buildProfile(history []InteractionRecord) userProfile {
	p := userProfile{
		Subjects: make(map[string]int),
		Authors:  make(map[string]int),
		Keywords: make(map[string]int),
	}

	for _, rec := range history {
		if rec.Subject != "" {
			p.Subjects[rec.Subject]++
		}
		if rec.Author != "" {
			p.Authors[rec.Author]++
		}
		for _, word := range tokenize(rec.Title) {
			p.Keywords[word]++
		}
		for _, word := range tokenize(rec.Description) {
			p.Keywords[word]++
		}
	}

	return p
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var out []string
	for _, f := range fields {
		if len(f) >= minKeywordLen {
			out = append(out, f)
		}
	}
	return out
}

// keywordHits counts how many words of text appear in the keyword map.
func keywordHits(text string, keywords map[string]int) int {
	hits := 0
	for _, word := range tokenize(text) {
		if keywords[word] > 0 {
			hits++
		}
	}
	return hits
}

// ContentScorer ranks by lexical overlap between the user's past items and
// the candidates. No exploration noise.
type ContentScorer struct{}

func NewContentScorer() *ContentScorer {
	return &ContentScorer{}
}

func (s *ContentScorer) Tag() string {
	return AlgorithmContent
}

// score = tf(subject)*ln(candidates/distinctSubjects)*0.4
//       + 0.3 if author known + 0.1*titleHits + 0.05*descriptionHits
func (s *ContentScorer) Score(history []InteractionRecord, candidates []domain.Book, limit int) []domain.ScoredBook {
	// empty history is the cold-start trigger, not an error
	if len(history) == 0 {
		return []domain.ScoredBook{}
	}

	profile := buildProfile(history)

	distinctSubjects := len(profile.Subjects)
	if distinctSubjects == 0 {
		distinctSubjects = 1
	}
	idf := math.Log(float64(len(candidates)) / float64(distinctSubjects))

	out := make([]domain.ScoredBook, 0, len(candidates))
	for _, book := range candidates {
		score := 0.0

		if tf := profile.Subjects[book.Subject]; tf > 0 {
			score += float64(tf) * idf * contentSubjectWeight
		}
		if profile.Authors[book.Author] > 0 {
			score += contentAuthorBonus
		}
		score += contentTitleWeight * float64(keywordHits(book.Title, profile.Keywords))
		score += contentDescriptionWeight * float64(keywordHits(book.Description, profile.Keywords))

		out = append(out, domain.ScoredBook{
			BookID: book.ID,
			Score:  round4(score),
		})
	}

	sortScored(out)
	return truncateScored(out, limit)
}
