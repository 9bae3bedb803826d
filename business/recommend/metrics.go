package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_served_total",
			Help: "Count of served recommendation sets by algorithm and score source.",
		},
		[]string{"algorithm", "source"},
	)

	ScoringFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_scoring_fallbacks_total",
			Help: "Count of scoring backend failures that fell back to local models, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(RecommendServedTotal)
	prometheus.MustRegister(ScoringFallbacksTotal)
}
