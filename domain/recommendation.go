package domain

// ScoredBook is a bare model output: a book reference plus its score.
type ScoredBook struct {
	BookID uint64  `json:"book_id"`
	Score  float64 `json:"score"`
}

// Recommendation is a scored book joined with catalog metadata for display.
type Recommendation struct {
	BookID  uint64  `json:"book_id"`
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	Subject string  `json:"subject"`
	Rating  float64 `json:"rating"`
	Score   float64 `json:"score"`
}

// RecommendationSet is the full response of one recommendation request.
// Simulated is true when the scores came from the local fallback instead of
// the primary scoring backend.
type RecommendationSet struct {
	UserID          uint             `json:"user_id"`
	Algorithm       string           `json:"algorithm"`
	Variant         string           `json:"variant"`
	Simulated       bool             `json:"simulated"`
	Count           int              `json:"count"`
	Recommendations []Recommendation `json:"recommendations"`
}
