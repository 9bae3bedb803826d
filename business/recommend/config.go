package recommend

import "time"

type Config struct {
	Weights HybridWeights

	// history window per user, most recent first
	HistoryLimit int

	// cap on the candidate set loaded per request
	MaxCandidates int

	// result size when the caller does not ask for one
	DefaultLimit int

	// single bounded attempt against the primary scoring backend
	ScoringTimeout time.Duration

	// seed for the exploration noise sources; 0 means time-based
	ExploreSeed int64
}

// HybridWeights blends the three local models. Tunable per deployment,
// never hardcoded at call sites.
type HybridWeights struct {
	Collaborative float64
	Factor        float64
	Content       float64
}

const (
	defaultWeightCollaborative = 0.35
	defaultWeightFactor        = 0.30
	defaultWeightContent       = 0.35
	defaultHistoryLimit        = 50
	defaultMaxCandidates       = 500
	defaultLimit               = 10
	defaultScoringTimeout      = 2 * time.Second
)

func DefaultConfig() Config {
	return Config{
		Weights: HybridWeights{
			Collaborative: defaultWeightCollaborative,
			Factor:        defaultWeightFactor,
			Content:       defaultWeightContent,
		},
		HistoryLimit:   defaultHistoryLimit,
		MaxCandidates:  defaultMaxCandidates,
		DefaultLimit:   defaultLimit,
		ScoringTimeout: defaultScoringTimeout,
	}
}
