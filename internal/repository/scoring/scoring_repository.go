package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pobyzaarif/goshortcute"

	"github.com/pythonvista/intelligent-libary-sub000/business/recommend"
	"github.com/pythonvista/intelligent-libary-sub000/domain"
)

type ScoringConfig struct {
	ScoringBaseURL           string
	ScoringBasicAuthUsername string
	ScoringBasicAuthPassword string
}

type ScoringRepository struct {
	scoringConfig ScoringConfig
	client        *http.Client
}

func NewScoringRepository(cfg ScoringConfig) *ScoringRepository {
	return &ScoringRepository{
		scoringConfig: cfg,
		client:        &http.Client{},
	}
}

type payloadScore struct {
	UserID       uint     `json:"user_id"`
	Algorithm    string   `json:"algorithm"`
	Limit        int      `json:"limit"`
	CandidateIDs []uint64 `json:"candidate_ids"`
	ExcludeIDs   []uint64 `json:"exclude_ids"`
}

type scoreEntry struct {
	BookID uint64  `json:"book_id"`
	Score  float64 `json:"score"`
}

type scoreResponse struct {
	Scores []scoreEntry `json:"scores"`
}

// ScoreCandidates calls the model-serving endpoint. The deadline on ctx is
// the only retry/timeout policy; one attempt, the caller arbitrates fallback.
func (r *ScoringRepository) ScoreCandidates(
	ctx context.Context,
	userID uint,
	algorithm string,
	limit int,
	candidateIDs []uint64,
	excludeIDs []uint64,
) ([]domain.ScoredBook, error) {
	if r.scoringConfig.ScoringBaseURL == "" {
		return nil, fmt.Errorf("%w: scoring base url is not configured", recommend.ErrBackendUnavailable)
	}

	url := r.scoringConfig.ScoringBaseURL + "/v1/score"
	method := http.MethodPost

	payload := payloadScore{
		UserID:       userID,
		Algorithm:    algorithm,
		Limit:        limit,
		CandidateIDs: candidateIDs,
		ExcludeIDs:   excludeIDs,
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(string(payloadByte)))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/json")
	if r.scoringConfig.ScoringBasicAuthUsername != "" {
		buildBasicAuth := goshortcute.StringtoBase64Encode(r.scoringConfig.ScoringBasicAuthUsername + ":" + r.scoringConfig.ScoringBasicAuthPassword)
		req.Header.Add("Authorization", "Basic "+buildBasicAuth)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recommend.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: scoring service returned %v", recommend.ErrBackendUnavailable, res.StatusCode)
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recommend.ErrBackendUnavailable, err)
	}

	var parsed scoreResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", recommend.ErrMalformedResponse, err)
	}

	if parsed.Scores == nil {
		return nil, fmt.Errorf("%w: missing scores field", recommend.ErrMalformedResponse)
	}

	scores := make([]domain.ScoredBook, 0, len(parsed.Scores))
	for _, entry := range parsed.Scores {
		scores = append(scores, domain.ScoredBook{BookID: entry.BookID, Score: entry.Score})
	}

	return scores, nil
}
